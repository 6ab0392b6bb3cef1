package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/goccy/go-json"

	"github.com/iliyamo/hotel-booking-web/internal/model"
)

// Session is the authenticated state of one browser.  Token and User are
// either both set or the session does not exist.
type Session struct {
	Token string
	User  model.Identity
}

// Role is the token-derived role; the cached identity is display data.
func (s *Session) Role() model.Role {
	if s == nil {
		return ""
	}
	return DeriveRole(s.Token)
}

// TeardownFunc is notified after a session has been cleared.
type TeardownFunc func(ctx context.Context, sid string)

// Store implements save/get/clear over a Storage backend.
type Store struct {
	storage Storage
	logger  *slog.Logger

	mu        sync.RWMutex
	listeners []TeardownFunc
}

// NewStore wraps storage; a nil logger falls back to slog.Default.
func NewStore(storage Storage, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{storage: storage, logger: logger.With("component", "session")}
}

// Backend names the storage in use.
func (s *Store) Backend() string { return s.storage.Name() }

// OnTeardown registers fn to run after every Clear.
func (s *Store) OnTeardown(fn TeardownFunc) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Save persists the credential and identity together, replacing any prior
// session for sid.
func (s *Store) Save(ctx context.Context, sid, token string, user model.Identity) error {
	if sid == "" || token == "" {
		return errors.New("session: sid and token are required")
	}
	encoded, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session: encode identity: %w", err)
	}
	if err := s.storage.Put(ctx, sid, map[string]string{
		KeyToken: token,
		KeyUser:  string(encoded),
	}); err != nil {
		return err
	}
	s.logger.Debug("session saved", "sid", sid, "user_id", user.ID)
	return nil
}

// Get returns the session for sid, or nil when there is none.  A half
// session (token without identity or the reverse) or a token with no
// decodable role is removed and reported as nil.
func (s *Store) Get(ctx context.Context, sid string) (*Session, error) {
	if sid == "" {
		return nil, nil
	}
	token, tokErr := s.storage.Get(ctx, sid, KeyToken)
	if tokErr != nil && !errors.Is(tokErr, ErrNotFound) {
		return nil, tokErr
	}
	raw, userErr := s.storage.Get(ctx, sid, KeyUser)
	if userErr != nil && !errors.Is(userErr, ErrNotFound) {
		return nil, userErr
	}
	if tokErr != nil && userErr != nil {
		return nil, nil
	}
	if tokErr != nil || userErr != nil {
		s.logger.Warn("dropping orphaned session half", "sid", sid)
		return nil, s.Clear(ctx, sid)
	}

	var user model.Identity
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn("dropping session with malformed identity", "sid", sid, "err", err)
		return nil, s.Clear(ctx, sid)
	}
	claims, ok := ParseClaims(token)
	if !ok || !claims.Role.Valid() {
		s.logger.Warn("dropping session with undecodable credential", "sid", sid)
		return nil, s.Clear(ctx, sid)
	}
	user.Role = claims.Role
	if user.ID == 0 {
		user.ID = claims.UserID
	}
	return &Session{Token: token, User: user}, nil
}

// Clear removes the credential and identity.  Clearing an absent session
// is a no-op apart from notifying listeners.
func (s *Store) Clear(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	if err := s.storage.Delete(ctx, sid, KeyToken, KeyUser); err != nil {
		return err
	}
	s.mu.RLock()
	listeners := append([]TeardownFunc(nil), s.listeners...)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(ctx, sid)
	}
	return nil
}

// Remember records the destination an anonymous user was turned away from.
func (s *Store) Remember(ctx context.Context, sid, path string) error {
	if sid == "" || path == "" {
		return nil
	}
	return s.storage.Put(ctx, sid, map[string]string{KeyIntended: path})
}

// TakeRemembered returns and discards the remembered destination, or "".
func (s *Store) TakeRemembered(ctx context.Context, sid string) (string, error) {
	if sid == "" {
		return "", nil
	}
	v, err := s.storage.Take(ctx, sid, KeyIntended)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return v, err
}
