// ABOUTME: Tests for the session holder state machine
// ABOUTME: Covers restore, login, logout, expiry and external credential changes

package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/golang-jwt/jwt/v5"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/client"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/store"
)

type fakeAuth struct {
	tokens   *client.Tokens
	loginErr error
	user     *client.User
	userErr  error
	// gate blocks CurrentUser until closed when set.
	gate chan struct{}
	// during runs inside CurrentUser.
	during func()

	loginCalls atomic.Int32
	userCalls  atomic.Int32
}

func (f *fakeAuth) Login(ctx context.Context, username, password string) (*client.Tokens, error) {
	f.loginCalls.Add(1)
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.tokens, nil
}

func (f *fakeAuth) CurrentUser(ctx context.Context) (*client.User, error) {
	f.userCalls.Add(1)
	if f.during != nil {
		f.during()
	}
	if f.gate != nil {
		<-f.gate
	}
	if f.userErr != nil {
		return nil, f.userErr
	}
	return f.user, nil
}

func signed(c *qt.C, exp time.Time) string {
	c.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "7",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	c.Assert(err, qt.IsNil)
	return s
}

func setup(c *qt.C, auth *fakeAuth) (*Session, *store.Store) {
	st := store.New(c.TempDir())
	return New(st, auth), st
}

func TestRestoreWithoutCredential(t *testing.T) {
	c := qt.New(t)
	auth := &fakeAuth{}
	s, _ := setup(c, auth)

	c.Assert(s.Restore(context.Background()), qt.IsNil)
	c.Assert(s.State(), qt.Equals, Unauthenticated)
	c.Assert(s.AccessToken(), qt.Equals, "")
	c.Assert(auth.userCalls.Load(), qt.Equals, int32(0))
	c.Assert(s.Require(), qt.Equals, ErrNotAuthenticated)
}

func TestRestoreVerifiesStoredToken(t *testing.T) {
	c := qt.New(t)
	token := signed(c, time.Now().Add(time.Hour))
	auth := &fakeAuth{user: &client.User{ID: 7, Username: "artist"}}
	s, st := setup(c, auth)
	c.Assert(st.Save(store.Credential{Access: token, Refresh: "r"}), qt.IsNil)

	var seenState State
	var seenToken string
	auth.during = func() {
		seenState = s.State()
		seenToken = s.AccessToken()
	}

	c.Assert(s.Restore(context.Background()), qt.IsNil)
	c.Assert(seenState, qt.Equals, Verifying)
	c.Assert(seenToken, qt.Equals, token, qt.Commentf("verification call must carry the stored token"))
	c.Assert(s.State(), qt.Equals, Authenticated)
	c.Assert(s.Username(), qt.Equals, "artist")

	saved, err := st.Load()
	c.Assert(err, qt.IsNil)
	c.Assert(saved.User, qt.Not(qt.IsNil))
	c.Assert(saved.User.Username, qt.Equals, "artist")
}

func TestRestoreOpaqueTokenIsVerified(t *testing.T) {
	c := qt.New(t)
	auth := &fakeAuth{user: &client.User{ID: 1, Username: "x"}}
	s, st := setup(c, auth)
	c.Assert(st.Save(store.Credential{Access: "not-a-jwt"}), qt.IsNil)

	c.Assert(s.Restore(context.Background()), qt.IsNil)
	c.Assert(auth.userCalls.Load(), qt.Equals, int32(1))
	c.Assert(s.State(), qt.Equals, Authenticated)
}

func TestRestoreExpiredTokenSkipsVerification(t *testing.T) {
	c := qt.New(t)
	auth := &fakeAuth{user: &client.User{ID: 7}}
	s, st := setup(c, auth)
	c.Assert(st.Save(store.Credential{Access: signed(c, time.Now().Add(-time.Minute))}), qt.IsNil)

	err := s.Restore(context.Background())
	c.Assert(err, qt.Equals, ErrExpired)
	c.Assert(auth.userCalls.Load(), qt.Equals, int32(0))
	c.Assert(s.State(), qt.Equals, Unauthenticated)

	cred, err := st.Load()
	c.Assert(err, qt.IsNil)
	c.Assert(cred.Empty(), qt.IsTrue)
}

func TestRestoreVerificationFailureClears(t *testing.T) {
	c := qt.New(t)
	auth := &fakeAuth{userErr: &client.APIError{StatusCode: http.StatusUnauthorized, Retried: true}}
	s, st := setup(c, auth)
	c.Assert(st.Save(store.Credential{Access: "stale", User: &client.User{ID: 7}}), qt.IsNil)

	err := s.Restore(context.Background())
	c.Assert(errors.Is(err, client.ErrUnauthorized), qt.IsTrue)
	c.Assert(s.State(), qt.Equals, Unauthenticated)
	c.Assert(s.User(), qt.IsNil)

	cred, _ := st.Load()
	c.Assert(cred.Empty(), qt.IsTrue)
}

func TestConcurrentRestoreSharesVerification(t *testing.T) {
	c := qt.New(t)
	auth := &fakeAuth{user: &client.User{ID: 7}, gate: make(chan struct{})}
	s, st := setup(c, auth)
	c.Assert(st.Save(store.Credential{Access: "tok"}), qt.IsNil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Check(s.Restore(context.Background()), qt.IsNil)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(auth.gate)
	wg.Wait()

	c.Assert(auth.userCalls.Load(), qt.Equals, int32(1))
	c.Assert(s.State(), qt.Equals, Authenticated)
}

func TestLoginPersistsCredential(t *testing.T) {
	c := qt.New(t)
	auth := &fakeAuth{tokens: &client.Tokens{Access: "a", Refresh: "r", User: &client.User{ID: 7, Username: "artist"}}}
	s, st := setup(c, auth)

	c.Assert(s.Login(context.Background(), "artist", "pw"), qt.IsNil)
	c.Assert(s.State(), qt.Equals, Authenticated)
	c.Assert(s.AccessToken(), qt.Equals, "a")
	c.Assert(auth.userCalls.Load(), qt.Equals, int32(0), qt.Commentf("profile came with the tokens"))

	cred, err := st.Load()
	c.Assert(err, qt.IsNil)
	c.Assert(cred.Access, qt.Equals, "a")
	c.Assert(cred.Refresh, qt.Equals, "r")
	c.Assert(cred.User.Username, qt.Equals, "artist")

	select {
	case <-s.Changes():
	default:
		c.Fatal("expected a change signal after login")
	}
}

func TestLoginFetchesProfileWhenMissing(t *testing.T) {
	c := qt.New(t)
	auth := &fakeAuth{
		tokens: &client.Tokens{Access: "a", Refresh: "r"},
		user:   &client.User{ID: 7, Username: "artist"},
	}
	s, _ := setup(c, auth)

	c.Assert(s.Login(context.Background(), "artist", "pw"), qt.IsNil)
	c.Assert(auth.userCalls.Load(), qt.Equals, int32(1))
	c.Assert(s.Username(), qt.Equals, "artist")
}

func TestLoginFailureStaysUnauthenticated(t *testing.T) {
	c := qt.New(t)
	auth := &fakeAuth{loginErr: &client.APIError{StatusCode: http.StatusUnauthorized, Message: "No active account found with the given credentials"}}
	s, st := setup(c, auth)

	err := s.Login(context.Background(), "artist", "wrong")
	c.Assert(err, qt.ErrorMatches, "backend error: No active account.*")
	c.Assert(s.State(), qt.Equals, Unauthenticated)

	cred, _ := st.Load()
	c.Assert(cred.Empty(), qt.IsTrue)
}

func TestLoginProfileFailureStaysUnauthenticated(t *testing.T) {
	c := qt.New(t)
	auth := &fakeAuth{
		tokens:  &client.Tokens{Access: "a"},
		userErr: errors.New("boom"),
	}
	s, st := setup(c, auth)

	c.Assert(s.Login(context.Background(), "artist", "pw"), qt.ErrorMatches, "fetching profile: boom")
	c.Assert(s.State(), qt.Equals, Unauthenticated)
	c.Assert(s.AccessToken(), qt.Equals, "")
	cred, _ := st.Load()
	c.Assert(cred.Empty(), qt.IsTrue)
}

func TestLogoutClearsEverything(t *testing.T) {
	c := qt.New(t)
	auth := &fakeAuth{tokens: &client.Tokens{Access: "a", User: &client.User{ID: 7}}}
	s, st := setup(c, auth)
	c.Assert(s.Login(context.Background(), "artist", "pw"), qt.IsNil)

	c.Assert(s.Logout(), qt.IsNil)
	c.Assert(s.State(), qt.Equals, Unauthenticated)
	c.Assert(s.AccessToken(), qt.Equals, "")
	c.Assert(s.User(), qt.IsNil)

	cred, _ := st.Load()
	c.Assert(cred.Empty(), qt.IsTrue)

	// logging out twice is fine
	c.Assert(s.Logout(), qt.IsNil)
}

func TestWatchEndsSessionOnExternalLogout(t *testing.T) {
	c := qt.New(t)
	auth := &fakeAuth{tokens: &client.Tokens{Access: "a", User: &client.User{ID: 7}}}
	s, st := setup(c, auth)
	c.Assert(s.Login(context.Background(), "artist", "pw"), qt.IsNil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Assert(s.Watch(ctx), qt.IsNil)

	// another terminal runs logout
	c.Assert(store.New(st.Dir()).Clear(), qt.IsNil)

	deadline := time.Now().Add(3 * time.Second)
	for s.State() != Unauthenticated && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	c.Assert(s.State(), qt.Equals, Unauthenticated)
}

func TestSessionSuppliesBearerToClient(t *testing.T) {
	c := qt.New(t)
	var authHeaders []string
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		authHeaders = append(authHeaders, r.Header.Get("Authorization"))
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/auth/login/":
			json.NewEncoder(w).Encode(client.Tokens{Access: "fresh", Refresh: "r"})
		case "/auth/user/":
			json.NewEncoder(w).Encode(client.User{ID: 7, Username: "artist"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	api := client.New(server.URL)
	s := New(store.New(c.TempDir()), api.Auth)
	api.SetCredentials(s)

	c.Assert(s.Login(context.Background(), "artist", "pw"), qt.IsNil)

	mu.Lock()
	defer mu.Unlock()
	c.Assert(authHeaders, qt.DeepEquals, []string{"", "Bearer fresh"})
}
