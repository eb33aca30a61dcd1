package domain

import "errors"

// Store-level sentinels shared by every persistence backend so services can
// branch on outcomes without knowing which backend produced them.
var (
	// ErrNotFound indicates the requested document or row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey indicates a write collided with an existing primary
	// key or unique key other than the submission numeric id.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrDuplicateUniqueID indicates a submission write collided on its
	// sequential numeric identifier.
	ErrDuplicateUniqueID = errors.New("duplicate unique id")
)
