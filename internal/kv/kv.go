// Package kv defines the minimal key-value contract the share-link core
// depends on, plus the Redis, Postgres, and in-memory backends.
//
// There is deliberately no Delete: revocation is a logical update and
// records are retained for audit. Links and click aggregates use the
// same contract in distinct namespaces; keys inside a namespace are
// "{tenantID}/{token}".
package kv

import (
	"context"
	"errors"
	"fmt"
)

// Store error sentinels.
var (
	// ErrNotFound means the key has no value.
	ErrNotFound = errors.New("key not found")

	// ErrUnavailable tags transient backend failures. Callers may retry;
	// match with errors.Is.
	ErrUnavailable = errors.New("store unavailable")
)

// Store is the blob-store contract.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// List returns all keys under the prefix, in unspecified order.
	List(ctx context.Context, prefix string) ([]string, error)
}

// unavailable wraps a backend error so errors.Is(err, ErrUnavailable)
// holds while the original cause stays in the chain.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}
