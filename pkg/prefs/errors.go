package prefs

import "errors"

var (
	// ErrNotFound indicates no stored preferences exist for the user.
	ErrNotFound = errors.New("preferences not found")
	// ErrStorageUnavailable indicates the backing store could not be reached.
	ErrStorageUnavailable = errors.New("preferences storage unavailable")
	// ErrInvalidPatch indicates a preferences update contained invalid values.
	ErrInvalidPatch = errors.New("invalid preferences patch")
)
