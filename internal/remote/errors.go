package remote

import "errors"

// Tagged failure reasons returned by mutation operations. Callers
// match with errors.Is and convert to user-facing messages; none of
// these ever propagate into the store or view layers.
var (
	// ErrNotFound covers both a missing record and a record owned by
	// someone else; the two are indistinguishable on purpose.
	ErrNotFound = errors.New("bookmark not found")

	// ErrDuplicateTitle rejects a title already used by another
	// active bookmark of the same owner (case-insensitive).
	ErrDuplicateTitle = errors.New("a bookmark with this title already exists")

	// ErrDuplicateURL is the URL counterpart of ErrDuplicateTitle.
	ErrDuplicateURL = errors.New("a bookmark with this url already exists")

	// ErrPasswordMismatch is recoverable: the user may retry with a
	// different password.
	ErrPasswordMismatch = errors.New("private password does not match")

	// ErrNoPassword means no private password has been established
	// for the owner yet.
	ErrNoPassword = errors.New("no private password set")
)
