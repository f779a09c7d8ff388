package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/pmconsole/internal/client/client"
	"github.com/dmitrijs2005/pmconsole/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alice = models.User{ID: "1", Name: "Alice", Email: "alice@example.com"}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

type recorder struct {
	mu   sync.Mutex
	seen []models.Session
}

func (r *recorder) record(s models.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, s)
}

func (r *recorder) states() []models.SessionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.SessionState, len(r.seen))
	for i, s := range r.seen {
		out[i] = s.State
	}
	return out
}

func TestSessionStore_InitialStateUnknown(t *testing.T) {
	s := NewSessionStore(newFakeAPI(), &memTokens{}, nil)
	assert.Equal(t, models.SessionUnknown, s.State())
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
	assert.Empty(t, s.Token())
}

func TestCheckAuth_NoToken(t *testing.T) {
	api := newFakeAPI()
	s := NewSessionStore(api, &memTokens{}, nil)

	got := s.CheckAuth(context.Background())

	assert.Equal(t, models.SessionAnonymous, got.State)
	assert.Empty(t, api.Calls(), "no network call without a token")
}

func TestCheckAuth_ValidToken(t *testing.T) {
	api := newFakeAPI()
	tokens := &memTokens{token: "old"}
	s := NewSessionStore(api, tokens, nil)

	var sentToken string
	api.on(http.MethodGet, "/auth/me", func(context.Context, any) (any, error) {
		sentToken = s.Token()
		return models.AuthResponse{User: alice, Token: "refreshed"}, nil
	})

	got := s.CheckAuth(context.Background())

	require.Equal(t, models.SessionAuthenticated, got.State)
	assert.Equal(t, "old", sentToken, "auth check must carry the persisted token")
	if diff := cmp.Diff(alice, *got.User); diff != "" {
		t.Errorf("user mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "refreshed", tokens.Token())
	assert.Equal(t, "refreshed", s.Token())
	assert.Equal(t, alice.Email, tokens.email)
}

func TestCheckAuth_KeepsTokenWhenNotRefreshed(t *testing.T) {
	api := newFakeAPI()
	tokens := &memTokens{token: "same"}
	api.reply(http.MethodGet, "/auth/me", models.AuthResponse{User: alice})
	s := NewSessionStore(api, tokens, nil)

	got := s.CheckAuth(context.Background())
	require.True(t, got.IsAuthenticated())
	assert.Equal(t, "same", tokens.Token())
}

func TestCheckAuth_FailureClearsToken(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusInternalServerError, 0} {
		api := newFakeAPI()
		api.fail(http.MethodGet, "/auth/me", status)
		tokens := &memTokens{token: "t"}
		s := NewSessionStore(api, tokens, nil)

		got := s.CheckAuth(context.Background())

		assert.Equal(t, models.SessionAnonymous, got.State, "status %d", status)
		assert.Empty(t, tokens.Token(), "status %d", status)
		assert.Empty(t, s.Token())
	}
}

func TestCheckAuth_ExpiredJWTSkipsNetwork(t *testing.T) {
	api := newFakeAPI()
	api.reply(http.MethodGet, "/auth/me", models.AuthResponse{User: alice, Token: "x"})
	tokens := &memTokens{token: signedToken(t, time.Now().Add(-time.Hour))}
	s := NewSessionStore(api, tokens, nil)

	got := s.CheckAuth(context.Background())

	assert.Equal(t, models.SessionAnonymous, got.State)
	assert.Empty(t, tokens.Token())
	assert.Empty(t, api.Calls())
}

func TestCheckAuth_UnexpiredJWTGoesToBackend(t *testing.T) {
	api := newFakeAPI()
	tok := signedToken(t, time.Now().Add(time.Hour))
	api.reply(http.MethodGet, "/auth/me", models.AuthResponse{User: alice, Token: tok})
	s := NewSessionStore(api, &memTokens{token: tok}, nil)

	got := s.CheckAuth(context.Background())
	assert.True(t, got.IsAuthenticated())
	assert.Len(t, api.Calls(), 1)
}

func TestCheckAuth_TokenLoadErrorIsAbsorbed(t *testing.T) {
	s := NewSessionStore(newFakeAPI(), &memTokens{loadErr: errors.New("disk")}, nil)
	assert.Equal(t, models.SessionAnonymous, s.CheckAuth(context.Background()).State)
}

func TestCheckAuth_PersistFailureEndsAnonymous(t *testing.T) {
	api := newFakeAPI()
	api.reply(http.MethodGet, "/auth/me", models.AuthResponse{User: alice, Token: "n"})
	tokens := &memTokens{token: "t", saveErr: errors.New("disk full")}
	s := NewSessionStore(api, tokens, nil)

	got := s.CheckAuth(context.Background())
	assert.Equal(t, models.SessionAnonymous, got.State)
	assert.Empty(t, tokens.Token())
}

func TestLogin_Success(t *testing.T) {
	api := newFakeAPI()
	api.reply(http.MethodPost, "/auth/login", models.AuthResponse{User: alice, Token: "tok"})
	tokens := &memTokens{}
	s := NewSessionStore(api, tokens, nil)
	rec := &recorder{}
	s.Subscribe(rec.record)

	u, err := s.Login(context.Background(), "alice@example.com", "goodPass1!")

	require.NoError(t, err)
	assert.Equal(t, alice, *u)
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "tok", tokens.Token())
	assert.Equal(t, "alice@example.com", tokens.email)
	assert.Equal(t, []models.SessionState{models.SessionAuthenticated}, rec.states())

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, models.LoginRequest{Email: "alice@example.com", Password: "goodPass1!"}, calls[0].Body)
}

func TestLogin_FailureLeavesStateAndReturnsErrorUnchanged(t *testing.T) {
	api := newFakeAPI()
	backendErr := &client.APIError{Method: http.MethodPost, Path: "/auth/login", Status: http.StatusNotFound}
	api.on(http.MethodPost, "/auth/login", func(context.Context, any) (any, error) { return nil, backendErr })
	tokens := &memTokens{}
	s := NewSessionStore(api, tokens, nil)
	s.CheckAuth(context.Background())
	rec := &recorder{}
	s.Subscribe(rec.record)

	u, err := s.Login(context.Background(), "x@y.zz", "whatever1")

	assert.Nil(t, u)
	assert.Same(t, backendErr, err)
	assert.Equal(t, models.SessionAnonymous, s.State())
	assert.Zero(t, tokens.saves)
	assert.Empty(t, rec.states())
}

func TestLogin_EmptyTokenRejected(t *testing.T) {
	api := newFakeAPI()
	api.reply(http.MethodPost, "/auth/login", models.AuthResponse{User: alice})
	s := NewSessionStore(api, &memTokens{}, nil)

	_, err := s.Login(context.Background(), "a@b.co", "goodPass1!")
	require.Error(t, err)
	assert.False(t, s.IsAuthenticated())
}

func TestLogin_PersistFailureNoTransition(t *testing.T) {
	api := newFakeAPI()
	api.reply(http.MethodPost, "/auth/login", models.AuthResponse{User: alice, Token: "tok"})
	diskErr := errors.New("disk full")
	s := NewSessionStore(api, &memTokens{saveErr: diskErr}, nil)

	_, err := s.Login(context.Background(), "a@b.co", "goodPass1!")

	require.ErrorIs(t, err, diskErr)
	assert.Equal(t, models.SessionUnknown, s.State())
	assert.Empty(t, s.Token())
}

func TestRegister_DoesNotAuthenticate(t *testing.T) {
	api := newFakeAPI()
	api.reply(http.MethodPost, "/auth/register", models.AuthResponse{User: alice, Token: "tok"})
	tokens := &memTokens{}
	s := NewSessionStore(api, tokens, nil)
	s.CheckAuth(context.Background())

	age := 30
	u, err := s.Register(context.Background(), models.RegisterRequest{Name: "Alice", Email: alice.Email, Password: "goodPass1!", Age: &age})

	require.NoError(t, err)
	assert.Equal(t, alice.Email, u.Email)
	assert.Equal(t, models.SessionAnonymous, s.State())
	assert.Empty(t, tokens.Token())
}

func TestRegister_FailureReturned(t *testing.T) {
	api := newFakeAPI()
	api.fail(http.MethodPost, "/auth/register", http.StatusUnprocessableEntity)
	s := NewSessionStore(api, &memTokens{}, nil)

	_, err := s.Register(context.Background(), models.RegisterRequest{})
	assert.ErrorIs(t, err, client.ErrValidation)
}

func TestLogout_AlwaysClears(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*testing.T, *SessionStore, *fakeAPI)
	}{
		{"from unknown", func(*testing.T, *SessionStore, *fakeAPI) {}},
		{"from anonymous", func(_ *testing.T, s *SessionStore, _ *fakeAPI) { s.CheckAuth(context.Background()) }},
		{"from authenticated", func(t *testing.T, s *SessionStore, api *fakeAPI) {
			api.reply(http.MethodPost, "/auth/login", models.AuthResponse{User: alice, Token: "tok"})
			_, err := s.Login(context.Background(), "a@b.co", "goodPass1!")
			require.NoError(t, err)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI()
			tokens := &memTokens{}
			s := NewSessionStore(api, tokens, nil)
			tt.setup(t, s, api)
			before := len(api.Calls())

			require.NoError(t, s.Logout(context.Background()))

			assert.False(t, s.IsAuthenticated())
			assert.Equal(t, models.SessionAnonymous, s.State())
			assert.Nil(t, s.User())
			assert.Empty(t, tokens.Token())
			assert.Len(t, api.Calls(), before, "logout never contacts the backend")
		})
	}
}

func TestLogout_ClearErrorStillAnonymous(t *testing.T) {
	tokens := &memTokens{token: "t", clearErr: errors.New("locked")}
	s := NewSessionStore(newFakeAPI(), tokens, nil)

	err := s.Logout(context.Background())
	require.Error(t, err)
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
}

func TestHandleUnauthorized(t *testing.T) {
	api := newFakeAPI()
	api.reply(http.MethodPost, "/auth/login", models.AuthResponse{User: alice, Token: "tok"})
	tokens := &memTokens{}
	s := NewSessionStore(api, tokens, nil)
	_, err := s.Login(context.Background(), "a@b.co", "goodPass1!")
	require.NoError(t, err)
	rec := &recorder{}
	s.Subscribe(rec.record)

	s.HandleUnauthorized(context.Background())
	s.HandleUnauthorized(context.Background())

	assert.Equal(t, models.SessionAnonymous, s.State())
	assert.Empty(t, tokens.Token())
	assert.Equal(t, []models.SessionState{models.SessionAnonymous}, rec.states(), "second signal is not re-announced")
}

func TestCheckAuth_StaleResultAfterLogoutIgnored(t *testing.T) {
	api := newFakeAPI()
	started := make(chan struct{})
	release := make(chan struct{})
	api.on(http.MethodGet, "/auth/me", func(context.Context, any) (any, error) {
		close(started)
		<-release
		return models.AuthResponse{User: alice, Token: "fresh"}, nil
	})
	tokens := &memTokens{token: "t"}
	s := NewSessionStore(api, tokens, nil)

	done := make(chan models.Session)
	go func() { done <- s.CheckAuth(context.Background()) }()

	<-started
	require.NoError(t, s.Logout(context.Background()))
	close(release)
	got := <-done

	assert.Equal(t, models.SessionAnonymous, got.State)
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, tokens.Token(), "stale auth check must not persist its token")
}

func TestLogin_SupersededByLogout(t *testing.T) {
	api := newFakeAPI()
	started := make(chan struct{})
	release := make(chan struct{})
	api.on(http.MethodPost, "/auth/login", func(context.Context, any) (any, error) {
		close(started)
		<-release
		return models.AuthResponse{User: alice, Token: "tok"}, nil
	})
	tokens := &memTokens{}
	s := NewSessionStore(api, tokens, nil)

	errc := make(chan error)
	go func() {
		_, err := s.Login(context.Background(), "a@b.co", "goodPass1!")
		errc <- err
	}()

	<-started
	require.NoError(t, s.Logout(context.Background()))
	close(release)

	assert.ErrorIs(t, <-errc, ErrSuperseded)
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, tokens.Token())
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	s := NewSessionStore(newFakeAPI(), &memTokens{}, nil)
	rec := &recorder{}
	unsubscribe := s.Subscribe(rec.record)

	require.NoError(t, s.Logout(context.Background()))
	unsubscribe()
	require.NoError(t, s.Logout(context.Background()))

	assert.Len(t, rec.states(), 1)
}

func TestSnapshot_IsACopy(t *testing.T) {
	api := newFakeAPI()
	api.reply(http.MethodPost, "/auth/login", models.AuthResponse{User: alice, Token: "tok"})
	s := NewSessionStore(api, &memTokens{}, nil)
	_, err := s.Login(context.Background(), "a@b.co", "goodPass1!")
	require.NoError(t, err)

	snap := s.Snapshot()
	snap.User.Name = "Mallory"

	assert.Equal(t, "Alice", s.User().Name)
}
