package links

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"lotlinks/internal/kv"
	"lotlinks/internal/models"
)

// Repository persists ShareLinkRecord documents in a kv namespace,
// keyed by "{tenantID}/{token}". It never deletes: revocation flips the
// record status and the row stays for audit.
type Repository struct {
	store kv.Store
}

// NewRepository creates a repository over the links namespace.
func NewRepository(store kv.Store) *Repository {
	return &Repository{store: store}
}

func recordKey(tenantID, token string) string {
	return tenantID + "/" + token
}

// Create writes a new record. An existing record for the same (tenant,
// token) is rejected with ErrTokenExists rather than overwritten.
func (r *Repository) Create(ctx context.Context, record *models.ShareLinkRecord) error {
	key := recordKey(record.TenantID, record.Token)

	_, err := r.store.Get(ctx, key)
	if err == nil {
		return ErrTokenExists
	}
	if !errors.Is(err, kv.ErrNotFound) {
		return fmt.Errorf("check existing share link: %w", err)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal share link: %w", err)
	}
	if err := r.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("write share link: %w", err)
	}
	return nil
}

// Get loads a single record. Unreadable stored data surfaces as
// ErrCorruptRecord, which callers treat as not-found-equivalent.
func (r *Repository) Get(ctx context.Context, tenantID, token string) (*models.ShareLinkRecord, error) {
	data, err := r.store.Get(ctx, recordKey(tenantID, token))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrLinkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load share link: %w", err)
	}

	var record models.ShareLinkRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	return &record, nil
}

// List returns every record under the tenant's prefix, including
// expired and revoked ones. A corrupt record must not break enumeration
// of its siblings: it is skipped and logged.
func (r *Repository) List(ctx context.Context, tenantID string) ([]models.ShareLinkRecord, error) {
	keys, err := r.store.List(ctx, tenantID+"/")
	if err != nil {
		return nil, fmt.Errorf("list share links: %w", err)
	}

	records := make([]models.ShareLinkRecord, 0, len(keys))
	for _, key := range keys {
		data, err := r.store.Get(ctx, key)
		if errors.Is(err, kv.ErrNotFound) {
			// Key vanished between scan and read; nothing to show.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load share link %q: %w", key, err)
		}

		var record models.ShareLinkRecord
		if err := json.Unmarshal(data, &record); err != nil {
			slog.Warn("skipping corrupt share link record", "key", key, "error", err)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// Revoke transitions a record to revoked and stamps RevokedAt. Revoking
// an already-revoked link is a no-op success, so the operation is
// idempotent.
func (r *Repository) Revoke(ctx context.Context, tenantID, token string) error {
	record, err := r.Get(ctx, tenantID, token)
	if err != nil {
		return err
	}
	if record.IsRevoked() {
		return nil
	}

	now := time.Now().UTC()
	record.Status = models.StatusRevoked
	record.RevokedAt = &now

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal revoked share link: %w", err)
	}
	if err := r.store.Set(ctx, recordKey(tenantID, token), data); err != nil {
		return fmt.Errorf("write revoked share link: %w", err)
	}
	return nil
}
