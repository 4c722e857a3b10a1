package links

import "errors"

// Domain-level share-link error sentinels.
var (
	// ErrLinkNotFound means no record exists for the (tenant, token) pair.
	ErrLinkNotFound = errors.New("share link not found")

	// ErrTokenExists means a record already exists for the token. The
	// token space is effectively collision-free given the signature
	// length, so hitting this indicates a programming error, not bad
	// luck.
	ErrTokenExists = errors.New("share link token already exists for tenant")

	// ErrCorruptRecord means a stored record could not be decoded.
	// Single-record reads surface it; enumeration skips and logs instead.
	ErrCorruptRecord = errors.New("stored share link record is unreadable")
)
