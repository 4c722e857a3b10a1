package models

import (
	"time"

	"github.com/google/uuid"
)

// LinkKind determines how a share link resolves.
type LinkKind string

const (
	KindSingle    LinkKind = "single"    // one specific listing
	KindSelection LinkKind = "selection" // a curated set of listings
	KindCatalog   LinkKind = "catalog"   // a filtered browse view
)

// ParseLinkKind validates a kind string from an API request.
func ParseLinkKind(s string) (LinkKind, bool) {
	switch LinkKind(s) {
	case KindSingle, KindSelection, KindCatalog:
		return LinkKind(s), true
	}
	return "", false
}

// LinkStatus is the lifecycle state of a share link. Revocation is the
// only transition; records are never hard-deleted.
type LinkStatus string

const (
	StatusActive  LinkStatus = "active"
	StatusRevoked LinkStatus = "revoked"
)

// ShareLinkRecord is the durable state of a shareable capability, keyed
// in storage by (tenant, token).
type ShareLinkRecord struct {
	ID         uuid.UUID         `json:"id"`
	TenantID   string            `json:"tenant_id"`
	Token      string            `json:"token"`
	Kind       LinkKind          `json:"kind"`
	Title      string            `json:"title"`
	ListingIDs []string          `json:"listing_ids,omitempty"`
	Filters    map[string]string `json:"filters,omitempty"`
	Watermark  bool              `json:"watermark"`
	Status     LinkStatus        `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
	ExpiresAt  *time.Time        `json:"expires_at,omitempty"`
	RevokedAt  *time.Time        `json:"revoked_at,omitempty"`
}

// IsRevoked reports whether the link has been revoked.
func (r *ShareLinkRecord) IsRevoked() bool {
	return r.Status == StatusRevoked
}

// IsExpired reports whether the link is past its expiry at the given
// time. A link without ExpiresAt never expires.
func (r *ShareLinkRecord) IsExpired(now time.Time) bool {
	return r.ExpiresAt != nil && now.After(*r.ExpiresAt)
}
