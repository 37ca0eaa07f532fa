package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gamedex/tierboard/internal/models"
)

// Backend is the remote authority the session persists against. Ownership is
// enforced behind this interface regardless of what the session believes:
// UpdateRecord and DeleteRecord fail with models.ErrForbidden on a mismatch,
// and fetches fail with models.ErrNotFound for unknown ids.
type Backend interface {
	FetchCatalog(userID int) ([]models.Item, error)
	FetchRecord(id string) (*models.TierlistRecord, error)
	FetchRecordByShareCode(code string) (*models.TierlistRecord, error)
	FetchOwnedRecords(userID int) ([]models.TierlistRecord, error)
	CreateRecord(name string, ownerID int, data models.TierData) (*models.TierlistRecord, error)
	UpdateRecord(id string, ownerID int, name string, data models.TierData) error
	DeleteRecord(id string, ownerID int) error
}

// Session drives one user's tierlist view: the local partition plus the
// persistence lifecycle against the backend. Local mutations commit
// immediately; persistence is a separate fallible phase that never rolls
// local state back.
type Session struct {
	backend Backend
	userID  int

	part   *Partition
	ctrl   *Controller
	mode   Mode
	record *models.TierlistRecord

	// saveSeq is the last initiated save; results of superseded saves are
	// not applied over newer session state.
	saveSeq uint64
}

// NewSession starts an owner-new session for a user: the full catalog in the
// pool, nothing loaded.
func NewSession(backend Backend, userID int) (*Session, error) {
	catalog, err := backend.FetchCatalog(userID)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	s := &Session{
		backend: backend,
		userID:  userID,
		part:    NewPartition(catalog),
		mode:    ModeOwnerNew,
	}
	s.ctrl = NewController(s.part)
	return s, nil
}

// Partition returns the local tier state.
func (s *Session) Partition() *Partition {
	return s.part
}

// Controller returns the drag controller bound to this session's partition.
func (s *Session) Controller() *Controller {
	return s.ctrl
}

// Mode returns the current access mode.
func (s *Session) Mode() Mode {
	return s.mode
}

// Record returns the currently loaded record, if any.
func (s *Session) Record() *models.TierlistRecord {
	return s.record
}

// UserID returns the user this session belongs to.
func (s *Session) UserID() int {
	return s.userID
}

func (s *Session) setMode(m Mode) {
	s.mode = m
	s.part.SetReadOnly(m == ModeViewing)
}

// StartNew clears any loaded record and returns every catalog item to the
// pool. Purely local; nothing is deleted from the backend.
func (s *Session) StartNew() {
	s.record = nil
	s.setMode(ModeOwnerNew)
	s.part.Reset()
}

// LoadByID fetches a record (e.g. resolved from a shared link), rebuilds the
// partition from it, and resolves the access mode. A record that does not
// resolve leaves the session owner-new with a fresh pool and surfaces the
// error; there is no partial load.
func (s *Session) LoadByID(id string) error {
	return s.load(func() (*models.TierlistRecord, error) {
		return s.backend.FetchRecord(id)
	})
}

// LoadByShareCode resolves a share code the same way LoadByID resolves an id.
func (s *Session) LoadByShareCode(code string) error {
	return s.load(func() (*models.TierlistRecord, error) {
		return s.backend.FetchRecordByShareCode(code)
	})
}

func (s *Session) load(fetch func() (*models.TierlistRecord, error)) error {
	catalog, err := s.backend.FetchCatalog(s.userID)
	if err != nil {
		return fmt.Errorf("fetch catalog: %w", err)
	}
	rec, err := fetch()
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.part.Initialize(catalog)
			s.record = nil
			s.setMode(ModeOwnerNew)
		}
		return err
	}
	s.part.LoadFromRecord(rec, catalog)
	s.record = rec
	s.setMode(ResolveMode(s.userID, rec))
	return nil
}

// Save persists the current arrangement under a name: a create when nothing
// is loaded, an update when the loaded record is the user's own. An empty
// name is rejected locally and never reaches the backend. Viewing someone
// else's record rejects a plain save; use SaveAsCopy. A failed save leaves
// the local arrangement untouched.
func (s *Session) Save(name string) error {
	if strings.TrimSpace(name) == "" {
		return models.ErrNameRequired
	}
	switch s.mode {
	case ModeViewing:
		return models.ErrViewOnly
	case ModeOwnerEdit:
		seq := s.beginSave()
		snapshot := s.part.Snapshot()
		if err := s.backend.UpdateRecord(s.record.ID, s.userID, name, snapshot); err != nil {
			return fmt.Errorf("update tierlist: %w", err)
		}
		if s.superseded(seq) {
			return nil
		}
		s.record.Name = name
		s.record.Data = snapshot
		return nil
	default: // ModeOwnerNew
		seq := s.beginSave()
		rec, err := s.backend.CreateRecord(name, s.userID, s.part.Snapshot())
		if err != nil {
			return fmt.Errorf("create tierlist: %w", err)
		}
		if s.superseded(seq) {
			return nil
		}
		s.record = rec
		s.setMode(ModeOwnerEdit)
		return nil
	}
}

// SaveAsCopy always creates a new record owned by the current user,
// regardless of whose record is loaded. On success the copy immediately
// becomes the user's own editable tierlist; the original is untouched.
func (s *Session) SaveAsCopy(name string) error {
	if strings.TrimSpace(name) == "" {
		return models.ErrNameRequired
	}
	seq := s.beginSave()
	rec, err := s.backend.CreateRecord(name, s.userID, s.part.Snapshot())
	if err != nil {
		return fmt.Errorf("copy tierlist: %w", err)
	}
	if s.superseded(seq) {
		return nil
	}
	s.record = rec
	s.setMode(ModeOwnerEdit)
	return nil
}

// Delete removes the loaded record from the backend. Only the owner may
// delete, and the backend re-checks ownership either way. On success the
// session is owner-new again; the local arrangement stays on screen.
func (s *Session) Delete() error {
	if s.record == nil {
		return models.ErrNotFound
	}
	if s.mode != ModeOwnerEdit {
		return models.ErrViewOnly
	}
	if err := s.backend.DeleteRecord(s.record.ID, s.userID); err != nil {
		return fmt.Errorf("delete tierlist: %w", err)
	}
	s.record = nil
	s.setMode(ModeOwnerNew)
	return nil
}

func (s *Session) beginSave() uint64 {
	s.saveSeq++
	return s.saveSeq
}

// superseded reports whether another save was initiated after seq. Saves are
// not guaranteed to complete in issue order; only the last initiated save may
// update session state.
func (s *Session) superseded(seq uint64) bool {
	return seq != s.saveSeq
}
