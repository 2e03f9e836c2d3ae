package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin  Role = "admin"  // Full CRUD on domains and records
	RoleReader Role = "reader" // GET-only access
)

// APIKeyPrefix marks every raw regctl API key. Bearer tokens without it
// are rejected before any store lookup.
const APIKeyPrefix = "rctl_"

type APIKey struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Name      string     `json:"name"`       // Human-readable label, e.g. "ci-deploy-key"
	KeyHash   string     `json:"-"`          // SHA-256 hash of the key (never store raw)
	KeyPrefix string     `json:"key_prefix"` // First 8 chars for identification
	Role      Role       `json:"role"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// HashAPIKey returns the hex SHA-256 digest under which a raw key is
// stored and looked up. Raw keys are shown once at creation and never
// persisted.
func HashAPIKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// ValidAPIKeyShape reports whether a raw bearer token even looks like a
// regctl key, cheap to check before hashing.
func ValidAPIKeyShape(raw string) bool {
	return strings.HasPrefix(raw, APIKeyPrefix) && len(raw) > len(APIKeyPrefix)
}
