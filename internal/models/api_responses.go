package models

// LinkURLs holds the distributable URLs for a share link. ShortURL is
// always valid; CanonicalURL is only set for single-listing links.
type LinkURLs struct {
	ShortURL     string `json:"short_url"`
	CanonicalURL string `json:"canonical_url,omitempty"`
}

// CreateLinkResult is the management API response for link creation.
type CreateLinkResult struct {
	Record *ShareLinkRecord `json:"record"`
	Token  string           `json:"token"`
	URLs   LinkURLs         `json:"urls"`
}

// AnnotatedLink is a record plus a derived display status. Expiry is
// computed at read time and never written back; filtering by status is
// the caller's concern.
type AnnotatedLink struct {
	ShareLinkRecord
	DisplayStatus string `json:"display_status"`
}
