package engine

import (
	"github.com/gamedex/tierboard/internal/models"
)

// Mode is the resolved access level for the current view.
type Mode int

const (
	// ModeOwnerNew means nothing is loaded; saving creates a new record.
	ModeOwnerNew Mode = iota
	// ModeOwnerEdit means the loaded record belongs to the current user;
	// saving updates it in place.
	ModeOwnerEdit
	// ModeViewing means the loaded record belongs to someone else; every
	// mutation is rejected except save-as-copy.
	ModeViewing
)

func (m Mode) String() string {
	switch m {
	case ModeOwnerEdit:
		return "owner-edit"
	case ModeViewing:
		return "viewing"
	default:
		return "owner-new"
	}
}

// ResolveMode computes the access mode from the current user and the loaded
// record. Rules apply in order: no record, the user's own record, someone
// else's record.
func ResolveMode(currentUserID int, rec *models.TierlistRecord) Mode {
	switch {
	case rec == nil:
		return ModeOwnerNew
	case rec.OwnerID == currentUserID:
		return ModeOwnerEdit
	default:
		return ModeViewing
	}
}
