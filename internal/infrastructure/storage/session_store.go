package storage

import "github.com/dayhom/profit-dashboard/internal/domain/repository"

const (
	keyToken = "token"
	keyEmail = "userEmail"
)

// SessionStore implementa repository.SessionRepository sobre el FileStore.
type SessionStore struct {
	fs *FileStore
}

var _ repository.SessionRepository = (*SessionStore)(nil)

// NewSessionStore construye el Token Store.
func NewSessionStore(fs *FileStore) *SessionStore {
	return &SessionStore{fs: fs}
}

func (s *SessionStore) SetToken(token string) error { return s.fs.Set(keyToken, token) }

func (s *SessionStore) GetToken() (string, bool) {
	t, ok := s.fs.Get(keyToken)
	if !ok || t == "" {
		return "", false
	}
	return t, true
}

func (s *SessionStore) IsLoggedIn() bool {
	_, ok := s.GetToken()
	return ok
}

func (s *SessionStore) SetEmail(email string) error { return s.fs.Set(keyEmail, email) }

func (s *SessionStore) Email() string {
	e, _ := s.fs.Get(keyEmail)
	return e
}

func (s *SessionStore) Logout() error { return s.fs.Delete(keyToken, keyEmail) }
