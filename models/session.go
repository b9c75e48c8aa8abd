package models

// User holds the credentials sent to the hub's login endpoint and the
// profile fields the client keeps afterwards.
type User struct {
	UserID int64  `json:"user_id,omitempty"`
	Login  string `json:"login"`
	Name   string `json:"name,omitempty"`

	// Password is only populated for the login request itself and is never
	// persisted locally.
	Password string `json:"password,omitempty"`
}

// Session is the client's view of an authenticated hub session: the bearer
// token as issued by the auth service, plus the user id parsed from its
// subject claim for attribution of queued actions.
type Session struct {
	Token  string `json:"token"`
	UserID int64  `json:"userId"`
}

// Valid reports whether the session carries a usable bearer credential.
func (s Session) Valid() bool {
	return s.Token != ""
}
