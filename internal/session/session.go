// ABOUTME: Session holder for the console: current user plus bearer credential
// ABOUTME: Created once at startup and passed to commands and views explicitly

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/client"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/store"
)

var (
	// ErrNotAuthenticated is returned by Require when nobody is logged in.
	ErrNotAuthenticated = errors.New("not logged in, run `venue login` first")
	// ErrExpired means the stored access token's exp claim has passed.
	ErrExpired = errors.New("stored session has expired, please log in again")
)

// State of the session holder
type State int

const (
	Unauthenticated State = iota
	Verifying
	Authenticated
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Verifying:
		return "verifying"
	case Authenticated:
		return "authenticated"
	}
	return "unknown"
}

// AuthAPI is the part of the auth service the session needs.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*client.Tokens, error)
	CurrentUser(ctx context.Context) (*client.User, error)
}

// Session holds the credential and profile for the running process.
// It implements client.CredentialSource.
type Session struct {
	store *store.Store
	auth  AuthAPI
	now   func() time.Time

	mu    sync.RWMutex
	state State
	cred  store.Credential

	sf      singleflight.Group
	changes chan struct{}
}

// New creates an unauthenticated session backed by st.
func New(st *store.Store, auth AuthAPI) *Session {
	return &Session{
		store:   st,
		auth:    auth,
		now:     time.Now,
		changes: make(chan struct{}, 1),
	}
}

// AccessToken returns the bearer token, or "" when there is none.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == Unauthenticated {
		return ""
	}
	return s.cred.Access
}

// State returns the current state
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns the cached profile, or nil.
func (s *Session) User() *client.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred.User == nil {
		return nil
	}
	u := *s.cred.User
	return &u
}

// Username returns the cached username or "".
func (s *Session) Username() string {
	if u := s.User(); u != nil {
		return u.Username
	}
	return ""
}

// Require returns ErrNotAuthenticated unless the session is authenticated.
func (s *Session) Require() error {
	if s.State() != Authenticated {
		return ErrNotAuthenticated
	}
	return nil
}

// Changes signals every state transition. Signals are coalesced.
func (s *Session) Changes() <-chan struct{} { return s.changes }

func (s *Session) setLocked(state State, cred store.Credential) {
	changed := s.state != state || s.cred.Access != cred.Access
	s.state = state
	s.cred = cred
	if changed {
		select {
		case s.changes <- struct{}{}:
		default:
		}
	}
}

// Restore loads the stored credential and verifies it with the backend.
// Concurrent callers share one verification.
func (s *Session) Restore(ctx context.Context) error {
	_, err, _ := s.sf.Do("restore", func() (interface{}, error) {
		return nil, s.restore(ctx)
	})
	return err
}

func (s *Session) restore(ctx context.Context) error {
	cred, err := s.store.Load()
	if err != nil {
		return err
	}
	if cred.Empty() {
		s.mu.Lock()
		s.setLocked(Unauthenticated, store.Credential{})
		s.mu.Unlock()
		return nil
	}

	if tokenExpired(cred.Access, s.now()) {
		slog.Info("Stored access token expired, clearing session")
		s.teardown()
		return ErrExpired
	}

	s.mu.Lock()
	s.setLocked(Verifying, cred)
	s.mu.Unlock()

	user, err := s.auth.CurrentUser(ctx)
	if err != nil {
		slog.Info("Stored session failed verification", "error", err)
		s.teardown()
		return fmt.Errorf("verifying stored session: %w", err)
	}

	cred.User = user
	if err := s.store.Save(cred); err != nil {
		slog.Warn("Failed to re-cache profile", "error", err)
	}
	s.mu.Lock()
	s.setLocked(Authenticated, cred)
	s.mu.Unlock()
	slog.Debug("Session restored", "user", user.Username)
	return nil
}

// Login exchanges username and password for tokens, persists them and
// caches the profile. On failure the session is left unauthenticated.
func (s *Session) Login(ctx context.Context, username, password string) error {
	tokens, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return err
	}
	if tokens.Access == "" {
		return errors.New("login response carried no access token")
	}

	cred := store.Credential{Access: tokens.Access, Refresh: tokens.Refresh, User: tokens.User}
	if cred.User == nil {
		s.mu.Lock()
		s.setLocked(Verifying, cred)
		s.mu.Unlock()

		user, err := s.auth.CurrentUser(ctx)
		if err != nil {
			s.mu.Lock()
			s.setLocked(Unauthenticated, store.Credential{})
			s.mu.Unlock()
			return fmt.Errorf("fetching profile: %w", err)
		}
		cred.User = user
	}

	cred.SavedAt = s.now().UTC()
	if err := s.store.Save(cred); err != nil {
		s.mu.Lock()
		s.setLocked(Unauthenticated, store.Credential{})
		s.mu.Unlock()
		return fmt.Errorf("saving credentials: %w", err)
	}

	s.mu.Lock()
	s.setLocked(Authenticated, cred)
	s.mu.Unlock()
	slog.Info("Logged in", "user", cred.User.Username)
	return nil
}

// Logout clears the stored credential and profile. The session is always
// unauthenticated afterwards; the returned error only reports the file removal.
func (s *Session) Logout() error {
	return s.teardown()
}

// Invalidate tears the session down after the backend rejected the credential.
func (s *Session) Invalidate() {
	slog.Info("Session invalidated by backend")
	if err := s.teardown(); err != nil {
		slog.Warn("Failed to clear credentials", "error", err)
	}
}

func (s *Session) teardown() error {
	err := s.store.Clear()
	s.mu.Lock()
	s.setLocked(Unauthenticated, store.Credential{})
	s.mu.Unlock()
	return err
}

// Watch follows the credentials file until ctx is done. A logout or a login
// as someone else in another terminal tears this session down in memory.
func (s *Session) Watch(ctx context.Context) error {
	events, err := s.store.Watch(ctx)
	if err != nil {
		return err
	}
	go func() {
		for range events {
			s.reload()
		}
	}()
	return nil
}

func (s *Session) reload() {
	disk, err := s.store.Load()
	if err != nil {
		slog.Warn("Reading credentials after change", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Authenticated || disk.Access == s.cred.Access {
		return
	}
	slog.Info("Credentials changed outside this process, ending session")
	s.setLocked(Unauthenticated, store.Credential{})
}

// tokenExpired reads exp without verifying the signature; the backend does
// the real check. Tokens that are not JWTs are never considered expired.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}
