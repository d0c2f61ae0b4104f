package valutatrade

import "fmt"

// SessionUser is the logged in user, persisted between invocations.
type SessionUser struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

// SessionStore persists the current session.
type SessionStore interface {
	// ReadSession returns found=false when nobody is logged in.
	ReadSession() (u SessionUser, found bool, err error)
	WriteSession(u SessionUser) error
	ClearSession() error
}

// Session tells who is logged in.
type Session struct {
	store SessionStore
}

func NewSession(store SessionStore) *Session { return &Session{store: store} }

// Current returns the logged in user or ErrAuthenticationRequired.
func (s *Session) Current() (SessionUser, error) {
	u, found, err := s.store.ReadSession()
	if err != nil {
		return SessionUser{}, err
	}
	if !found {
		return SessionUser{}, fmt.Errorf("%w: run login first", ErrAuthenticationRequired)
	}
	return u, nil
}

// Login records u as the current user.
func (s *Session) Login(u User) error {
	return s.store.WriteSession(SessionUser{UserID: u.ID, Username: u.Username})
}

// Logout forgets the current user. It returns who was logged in, if anyone.
func (s *Session) Logout() (SessionUser, bool, error) {
	u, found, err := s.store.ReadSession()
	if err != nil || !found {
		return SessionUser{}, false, err
	}
	return u, true, s.store.ClearSession()
}
