package models

import "time"

// AdminUser is the identity returned by an admin identity provider.
type AdminUser struct {
	UID       string    `json:"uid"`
	Email     string    `json:"email"`
	IDToken   string    `json:"idToken,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitzero"`
}

// Expired reports whether the token has lapsed at now. A zero expiry never lapses.
func (a *AdminUser) Expired(now time.Time) bool {
	return !a.ExpiresAt.IsZero() && !now.Before(a.ExpiresAt)
}
