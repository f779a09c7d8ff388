package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/pmconsole/internal/client/client"
	"github.com/dmitrijs2005/pmconsole/internal/client/models"
	"github.com/dmitrijs2005/pmconsole/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// ErrSuperseded is returned by Login when the session changed (for example a
// logout or a 401 elsewhere) while the request was in flight. The response is
// discarded and nothing is persisted.
var ErrSuperseded = errors.New("session changed while the request was in flight")

var errNoToken = errors.New("response carries no token")

// SessionStore owns the console's authentication state.
//
// The store is the only writer of the persisted token. State is Authenticated
// only while a token is persisted; every transition bumps a generation
// counter, and results of CheckAuth and Login that started under an older
// generation are dropped.
type SessionStore struct {
	api    client.API
	tokens TokenStore
	logger logging.Logger
	now    func() time.Time

	mu      sync.Mutex
	session models.Session
	// token is attached to outgoing requests. It may be set while the state
	// is still Unknown so that GET /auth/me carries the persisted token.
	token string
	gen   uint64

	subMu   sync.Mutex
	subs    map[int]func(models.Session)
	nextSub int
}

func NewSessionStore(api client.API, tokens TokenStore, logger logging.Logger) *SessionStore {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &SessionStore{
		api:    api,
		tokens: tokens,
		logger: logger.With("component", "session"),
		now:    time.Now,
		subs:   make(map[int]func(models.Session)),
	}
}

// Snapshot returns a copy of the current session.
func (s *SessionStore) Snapshot() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *SessionStore) State() models.SessionState { return s.Snapshot().State }

func (s *SessionStore) User() *models.User { return s.Snapshot().User }

func (s *SessionStore) IsAuthenticated() bool { return s.Snapshot().IsAuthenticated() }

// Token implements client.TokenSource.
func (s *SessionStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Subscribe registers fn to receive a snapshot after every state change.
func (s *SessionStore) Subscribe(fn func(models.Session)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// CheckAuth resolves the persisted token into a session. It never fails:
// a missing, expired or rejected token leaves the store Anonymous.
func (s *SessionStore) CheckAuth(ctx context.Context) models.Session {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	token, err := s.tokens.Load(ctx)
	if err != nil {
		s.logger.Debug(ctx, "token load failed", "error", err)
	}
	if token == "" {
		return s.commitAnonymous(ctx, gen, "no persisted token")
	}
	if s.expired(token) {
		return s.commitAnonymous(ctx, gen, "persisted token expired")
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return s.Snapshot()
	}
	s.token = token
	s.mu.Unlock()

	var resp models.AuthResponse
	if err := s.api.Get(ctx, "/auth/me", &resp); err != nil {
		return s.commitAnonymous(ctx, gen, "auth check failed", "error", err)
	}
	if resp.Token == "" {
		resp.Token = token
	}

	snap, err := s.commitAuthenticated(ctx, gen, resp)
	if errors.Is(err, ErrSuperseded) {
		s.logger.Debug(ctx, "stale auth check dropped")
		return snap
	}
	if err != nil {
		return s.commitAnonymous(ctx, gen, "token persist failed", "error", err)
	}
	return snap
}

// Login exchanges credentials for a session. Backend failures are returned
// unchanged and leave the state as it was.
func (s *SessionStore) Login(ctx context.Context, email, password string) (*models.User, error) {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	var resp models.AuthResponse
	if err := s.api.Post(ctx, "/auth/login", models.LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("login: %w", errNoToken)
	}

	snap, err := s.commitAuthenticated(ctx, gen, resp)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "logged in", "user_id", snap.User.ID)
	return snap.User, nil
}

// Register creates an account. It never authenticates the console.
func (s *SessionStore) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	var resp models.AuthResponse
	if err := s.api.Post(ctx, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Logout clears the session and the persisted token without contacting the
// backend. The in-memory session is cleared even when the token store fails.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	err := s.clearLocked(ctx)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.logger.Info(ctx, "logged out")
	return nil
}

// HandleUnauthorized reacts to a 401 from any call the same way Logout does.
// Listeners are not notified when the console is already Anonymous.
func (s *SessionStore) HandleUnauthorized(ctx context.Context) {
	s.mu.Lock()
	wasAnonymous := s.session.State == models.SessionAnonymous
	var err error
	if wasAnonymous {
		err = s.tokens.Clear(ctx)
		s.token = ""
	} else {
		err = s.clearLocked(ctx)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn(ctx, "token clear failed", "error", err)
	}
	if !wasAnonymous {
		s.logger.Warn(ctx, "session expired")
		s.notify(snap)
	}
}

// clearLocked drops the session and the persisted token. s.mu must be held.
func (s *SessionStore) clearLocked(ctx context.Context) error {
	err := s.tokens.Clear(ctx)
	s.token = ""
	s.session = models.Session{State: models.SessionAnonymous}
	s.gen++
	return err
}

func (s *SessionStore) commitAuthenticated(ctx context.Context, gen uint64, resp models.AuthResponse) (models.Session, error) {
	s.mu.Lock()
	if s.gen != gen {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, ErrSuperseded
	}
	if err := s.tokens.Save(ctx, resp.Token, resp.User.Email); err != nil {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, fmt.Errorf("persist token: %w", err)
	}
	user := resp.User
	s.token = resp.Token
	s.session = models.Session{State: models.SessionAuthenticated, User: &user, Token: resp.Token}
	s.gen++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return snap, nil
}

func (s *SessionStore) commitAnonymous(ctx context.Context, gen uint64, reason string, args ...any) models.Session {
	s.mu.Lock()
	if s.gen != gen {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.logger.Debug(ctx, "stale auth check dropped", "reason", reason)
		return snap
	}
	err := s.clearLocked(ctx)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug(ctx, reason, args...)
	if err != nil {
		s.logger.Debug(ctx, "token clear failed", "error", err)
	}
	s.notify(snap)
	return snap
}

// expired reports whether token is a JWT whose exp claim has passed. Tokens
// that are not JWTs are left to the backend to judge.
func (s *SessionStore) expired(token string) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && !claims.ExpiresAt.After(s.now())
}

func (s *SessionStore) snapshotLocked() models.Session {
	snap := s.session
	if snap.User != nil {
		u := *snap.User
		snap.User = &u
	}
	return snap
}

func (s *SessionStore) notify(snap models.Session) {
	s.subMu.Lock()
	fns := make([]func(models.Session), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
