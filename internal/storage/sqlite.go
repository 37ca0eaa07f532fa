package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/gamedex/tierboard/internal/models"
)

// Store handles all database operations. It is the final authority on
// ownership: update and delete verify owner_id in SQL, whatever the client
// believed.
type Store struct {
	db *sql.DB
}

// New creates a new Store with SQLite
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// a second pooled connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs database migrations
func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS items (
			id INTEGER PRIMARY KEY,
			owner_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			cover_url TEXT,
			score REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_owner ON items(owner_id)`,
		`CREATE TABLE IF NOT EXISTS tierlists (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			owner_id INTEGER NOT NULL,
			data TEXT NOT NULL,
			share_code TEXT UNIQUE NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tierlists_owner ON tierlists(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tierlists_share ON tierlists(share_code)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// --- Catalog ---

// FetchCatalog returns the items owned by a user, ordered by title
func (s *Store) FetchCatalog(userID int) ([]models.Item, error) {
	rows, err := s.db.Query(`
		SELECT id, owner_id, title, cover_url, score
		FROM items WHERE owner_id = ? ORDER BY title
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var it models.Item
		var score sql.NullFloat64
		err := rows.Scan(&it.ID, &it.OwnerID, &it.Title, &it.CoverURL, &score)
		if err != nil {
			return nil, err
		}
		if score.Valid {
			v := score.Float64
			it.Score = &v
		}
		items = append(items, it)
	}
	return items, nil
}

// CreateItem creates a new catalog item
func (s *Store) CreateItem(it *models.Item) error {
	_, err := s.db.Exec(`
		INSERT INTO items (id, owner_id, title, cover_url, score)
		VALUES (?, ?, ?, ?, ?)
	`, it.ID, it.OwnerID, it.Title, it.CoverURL, scoreArg(it.Score))
	return err
}

// BulkCreateItems creates multiple items in a transaction
func (s *Store) BulkCreateItems(items []models.Item) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO items (id, owner_id, title, cover_url, score)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, it := range items {
		_, err := stmt.Exec(it.ID, it.OwnerID, it.Title, it.CoverURL, scoreArg(it.Score))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func scoreArg(score *float64) interface{} {
	if score == nil {
		return nil
	}
	return *score
}

// --- Tierlists ---

// generateShareCode creates a short unique share code
func generateShareCode() string {
	u := uuid.New()
	return u.String()[:8]
}

// CreateRecord stores a new tierlist and returns it with id and share code
// assigned
func (s *Store) CreateRecord(name string, ownerID int, data models.TierData) (*models.TierlistRecord, error) {
	if name == "" {
		return nil, models.ErrNameRequired
	}
	id := uuid.New().String()
	shareCode := generateShareCode()
	normalized := data.Normalize()
	blob, _ := json.Marshal(normalized)
	now := time.Now()

	_, err := s.db.Exec(`
		INSERT INTO tierlists (id, name, owner_id, data, share_code, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, name, ownerID, blob, shareCode, now, now)
	if err != nil {
		return nil, err
	}

	return &models.TierlistRecord{
		ID:        id,
		Name:      name,
		OwnerID:   ownerID,
		Data:      normalized,
		ShareCode: shareCode,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// FetchRecord returns a tierlist by ID
func (s *Store) FetchRecord(id string) (*models.TierlistRecord, error) {
	return s.fetchOne(`
		SELECT id, name, owner_id, data, share_code, created_at, updated_at
		FROM tierlists WHERE id = ?
	`, id)
}

// FetchRecordByShareCode returns a tierlist by share code
func (s *Store) FetchRecordByShareCode(code string) (*models.TierlistRecord, error) {
	return s.fetchOne(`
		SELECT id, name, owner_id, data, share_code, created_at, updated_at
		FROM tierlists WHERE share_code = ?
	`, code)
}

func (s *Store) fetchOne(query string, arg interface{}) (*models.TierlistRecord, error) {
	var rec models.TierlistRecord
	var blob string

	err := s.db.QueryRow(query, arg).Scan(&rec.ID, &rec.Name, &rec.OwnerID,
		&blob, &rec.ShareCode, &rec.CreatedAt, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	json.Unmarshal([]byte(blob), &rec.Data)
	rec.Data = rec.Data.Normalize()
	return &rec, nil
}

// FetchOwnedRecords returns a user's tierlists, most recently updated first
func (s *Store) FetchOwnedRecords(userID int) ([]models.TierlistRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, name, owner_id, data, share_code, created_at, updated_at
		FROM tierlists WHERE owner_id = ? ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.TierlistRecord
	for rows.Next() {
		var rec models.TierlistRecord
		var blob string
		err := rows.Scan(&rec.ID, &rec.Name, &rec.OwnerID,
			&blob, &rec.ShareCode, &rec.CreatedAt, &rec.UpdatedAt)
		if err != nil {
			return nil, err
		}
		json.Unmarshal([]byte(blob), &rec.Data)
		rec.Data = rec.Data.Normalize()
		records = append(records, rec)
	}
	return records, nil
}

// UpdateRecord rewrites a tierlist's name and data. A mismatched owner gets
// ErrForbidden; the record's true owner decides, not the caller's session.
func (s *Store) UpdateRecord(id string, ownerID int, name string, data models.TierData) error {
	if name == "" {
		return models.ErrNameRequired
	}
	blob, _ := json.Marshal(data.Normalize())

	res, err := s.db.Exec(`
		UPDATE tierlists SET name = ?, data = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?
	`, name, blob, time.Now(), id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return s.missingOrForbidden(id)
	}
	return nil
}

// DeleteRecord removes a tierlist. Only the owner may delete it.
func (s *Store) DeleteRecord(id string, ownerID int) error {
	res, err := s.db.Exec(`
		DELETE FROM tierlists WHERE id = ? AND owner_id = ?
	`, id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return s.missingOrForbidden(id)
	}
	return nil
}

// missingOrForbidden distinguishes a record that does not exist from one
// owned by somebody else.
func (s *Store) missingOrForbidden(id string) error {
	var owner int
	err := s.db.QueryRow(`SELECT owner_id FROM tierlists WHERE id = ?`, id).Scan(&owner)
	if err == sql.ErrNoRows {
		return models.ErrNotFound
	}
	if err != nil {
		return err
	}
	return models.ErrForbidden
}
