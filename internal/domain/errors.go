package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrInvalidQuery signals malformed search parameters (bad dates, enums, ranges).
	ErrInvalidQuery = errors.New("invalid query")
	// ErrStoreUnavailable signals that the backing store could not serve the call.
	ErrStoreUnavailable = errors.New("store unavailable")
)
