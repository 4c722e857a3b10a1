// Package token produces and verifies the signed capability tokens that
// back share links. A token is self-contained: the payload and a keyed
// signature travel together, so tampering is detectable without any
// storage lookup.
package token

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrTampered is returned for every decode failure: bad base64, missing
// delimiter, signature mismatch, unreadable payload. Callers must not be
// able to tell the reasons apart.
var ErrTampered = errors.New("token verification failed")

// Payload is the signed content embedded in a token. It is created once
// at link-creation time and never mutated.
type Payload struct {
	TenantID   string            `json:"tenant_id"`
	Kind       string            `json:"kind"`
	ListingIDs []string          `json:"listing_ids,omitempty"`
	Filters    map[string]string `json:"filters,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	ExpiresAt  *time.Time        `json:"expires_at,omitempty"`
}

// IsExpired checks the payload's own expiry. This is the cheap,
// pre-storage check; the stored record remains authoritative.
func (p *Payload) IsExpired(now time.Time) bool {
	return p.ExpiresAt != nil && now.After(*p.ExpiresAt)
}

// sigDelimiter separates payload bytes from the hex signature inside the
// encoded token. The hex alphabet never contains it, so splitting on the
// last occurrence is unambiguous even though JSON strings may contain
// dots.
const sigDelimiter = '.'

// encoding is strict so non-canonical base64 (stray trailing bits) is
// rejected instead of silently normalized.
var encoding = base64.RawURLEncoding.Strict()

// Codec signs and verifies tokens with a single server-held secret. The
// secret is injected here, not read from a global, so tests can use
// distinct secrets and rotation never touches stored records.
type Codec struct {
	secret []byte
}

// NewCodec creates a codec for the given signing secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Encode serializes the payload, signs it, and returns the URL-safe
// token. Encoding is deterministic: the same payload and secret always
// produce the same token, which is what lets the resolver re-derive and
// compare tokens later.
func (c *Codec) Encode(p Payload) (string, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal token payload: %w", err)
	}

	sig := c.sign(body)
	raw := make([]byte, 0, len(body)+1+len(sig))
	raw = append(raw, body...)
	raw = append(raw, sigDelimiter)
	raw = append(raw, sig...)

	return encoding.EncodeToString(raw), nil
}

// Decode verifies the token's signature and returns the embedded
// payload. Every failure mode collapses into ErrTampered.
func (c *Codec) Decode(tok string) (Payload, error) {
	var p Payload

	raw, err := encoding.DecodeString(tok)
	if err != nil {
		return p, ErrTampered
	}

	i := bytes.LastIndexByte(raw, sigDelimiter)
	if i < 0 {
		return p, ErrTampered
	}
	body, sig := raw[:i], raw[i+1:]

	// Constant-time comparison against the recomputed signature.
	if !hmac.Equal(sig, c.sign(body)) {
		return p, ErrTampered
	}

	if err := json.Unmarshal(body, &p); err != nil {
		return p, ErrTampered
	}
	return p, nil
}

// sign returns the hex-encoded HMAC-SHA256 of body.
func (c *Codec) sign(body []byte) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(body)
	sum := mac.Sum(nil)

	out := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(out, sum)
	return out
}
