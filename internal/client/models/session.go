package models

// SessionState is the authentication status of the console.
type SessionState int

const (
	// SessionUnknown is the initial state until the persisted token has been checked.
	SessionUnknown SessionState = iota
	SessionAuthenticated
	SessionAnonymous
)

func (s SessionState) String() string {
	switch s {
	case SessionAuthenticated:
		return "authenticated"
	case SessionAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Session is an immutable snapshot of the session store.
type Session struct {
	State SessionState
	User  *User
	Token string
}

func (s Session) IsAuthenticated() bool {
	return s.State == SessionAuthenticated
}
