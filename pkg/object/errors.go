package object

import "errors"

// Sentinel errors for the object layer. Callers match with errors.Is.
var (
	// ErrNotFound indicates the requested object does not exist in the store.
	ErrNotFound = errors.New("object not found")

	// ErrCorruptObject indicates an on-disk object failed verification:
	// the recomputed hash does not match its ID, or the envelope is damaged.
	ErrCorruptObject = errors.New("corrupt object")

	// ErrMalformedObject indicates a structural violation while decoding a
	// typed object (missing field, bad header line, truncated entry).
	ErrMalformedObject = errors.New("malformed object")
)
