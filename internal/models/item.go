package models

// Item represents a catalog entry (a game) eligible for ranking.
// Items are created and owned by the catalog; the tier engine only
// references them by id and never mutates them.
type Item struct {
	ID       int      `json:"id"`
	OwnerID  int      `json:"owner_id"`
	Title    string   `json:"title"`
	CoverURL string   `json:"cover_url"`
	Score    *float64 `json:"score,omitempty"` // display-only rating
}

// ItemList is a collection of items
type ItemList struct {
	Items      []Item `json:"items"`
	TotalCount int    `json:"total_count"`
}
