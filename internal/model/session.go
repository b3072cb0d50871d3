package model

// Session describes the authenticated identity known to the client.
// The user itself lives in the entity cache; the session keeps its id.
type Session struct {
	CurrentUserID     string
	Role              Role
	CredentialPresent bool
}

// Authenticated reports whether a user is signed in.
func (s Session) Authenticated() bool {
	return s.CurrentUserID != ""
}

// LoginResult is returned by the gateway on successful authentication.
type LoginResult struct {
	Token string
	User  User
}
