package models

import (
	"time"
)

// Rank identifies one of the five fixed tiers.
type Rank string

const (
	RankS Rank = "S"
	RankA Rank = "A"
	RankB Rank = "B"
	RankC Rank = "C"
	RankD Rank = "D"
)

// Ranks returns the tiers in display order. The set is fixed; users cannot
// add, remove, or rename tiers.
func Ranks() []Rank {
	return []Rank{RankS, RankA, RankB, RankC, RankD}
}

// Valid reports whether r is one of the five known ranks.
func (r Rank) Valid() bool {
	switch r {
	case RankS, RankA, RankB, RankC, RankD:
		return true
	}
	return false
}

// TierData maps each rank to its ordered item ids. The unassigned pool is
// not stored: it is derived on load as catalog minus everything assigned.
type TierData map[Rank][]int

// NewTierData returns an empty assignment with every rank present.
func NewTierData() TierData {
	d := make(TierData, len(Ranks()))
	for _, r := range Ranks() {
		d[r] = []int{}
	}
	return d
}

// Normalize returns a copy with unknown ranks dropped, duplicate item ids
// collapsed to their first occurrence, and every rank key present.
func (d TierData) Normalize() TierData {
	out := NewTierData()
	seen := make(map[int]bool)
	for _, r := range Ranks() {
		for _, id := range d[r] {
			if seen[id] {
				continue
			}
			seen[id] = true
			out[r] = append(out[r], id)
		}
	}
	return out
}

// TierlistRecord is the persisted form of a tierlist
type TierlistRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   int       `json:"owner_id"`
	Data      TierData  `json:"data"`
	ShareCode string    `json:"share_code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TierlistSummary is a lightweight version for listings
type TierlistSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ShareCode string    `json:"share_code"`
	ItemCount int       `json:"item_count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TierlistCreate is the request body for creating a tierlist
type TierlistCreate struct {
	Name    string   `json:"name"`
	OwnerID int      `json:"owner_id"`
	Data    TierData `json:"data"`
}

// TierlistUpdate is the request body for updating a tierlist
type TierlistUpdate struct {
	OwnerID int      `json:"owner_id"`
	Name    *string  `json:"name,omitempty"`
	Data    TierData `json:"data,omitempty"`
}

// TierlistClone is the request body for saving a copy of a tierlist
type TierlistClone struct {
	Name    string `json:"name"`
	OwnerID int    `json:"owner_id"`
}
