package model

import "time"

// TokenClaims are the readable parts of a bearer credential.
type TokenClaims struct {
	Subject   string
	ExpiresAt time.Time
}

// TokenInspector reads claims of a credential without verifying it.
type TokenInspector interface {
	Inspect(token string) (TokenClaims, error)
}
