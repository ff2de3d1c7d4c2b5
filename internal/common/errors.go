// Package common defines shared constants and sentinel errors used across
// the adapters, the session layer and the CLI. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound    = errors.New("not found")
	ErrPersistence = errors.New("persistence error")
	ErrValidation  = errors.New("validation error")

	// Session errors. ErrInvalidCredentials is deliberately uniform: wrong
	// password, unknown account and provider outage all map to it.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrVipRequired        = errors.New("vip session required")

	// Token errors (invalid or malformed token, expired token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
