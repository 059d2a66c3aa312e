package model

import "time"

// APIKey represents a gateway API key owned by one user.
//
// The secret is generated server-side once at creation and never changes.
// Deleted keys are retained for audit history but hidden from listings.
type APIKey struct {
	ID              string     `json:"id"`
	UserID          string     `json:"-"`
	Name            string     `json:"name"`
	Secret          string     `json:"apiKey"`
	Disabled        bool       `json:"disabled"`
	Deleted         bool       `json:"-"`
	LastUsedAt      *time.Time `json:"lastUsed,omitempty"`
	CreditsConsumed int64      `json:"creditsConsumed"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// IsUsable reports whether the key can authenticate gateway requests.
func (k *APIKey) IsUsable() bool {
	return !k.Disabled && !k.Deleted
}

// APIKeyCreateRequest is the body for POST /api/v1/api-keys.
type APIKeyCreateRequest struct {
	Name string `json:"name"`
}

// APIKeyUpdateRequest is the body for PUT /api/v1/api-keys.
type APIKeyUpdateRequest struct {
	ID       string `json:"id"`
	Disabled *bool  `json:"disabled"`
}
