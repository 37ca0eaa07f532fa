package models

import "errors"

// Shared errors used across the engine, storage, and API layers.
var (
	ErrNotFound     = errors.New("tierlist not found")
	ErrForbidden    = errors.New("not the tierlist owner")
	ErrNameRequired = errors.New("tierlist name is required")
	ErrViewOnly     = errors.New("tierlist is view-only")
	ErrCarrying     = errors.New("another item is already being moved")
	ErrUnknownItem  = errors.New("item not in catalog")
)
