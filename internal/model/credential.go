package model

import "context"

// CredentialName is the fixed key of the persisted bearer credential.
const CredentialName = "coined_token"

// CredentialStore persists the single session credential across restarts.
// Load returns ErrNotFound when nothing is stored.
type CredentialStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}

// TokenSource hands the current credential to the transport.
type TokenSource interface {
	Token() string
}
