package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/pmconsole/internal/client/config"
	"github.com/dmitrijs2005/pmconsole/internal/client/models"
	"github.com/dmitrijs2005/pmconsole/internal/logging"
	"github.com/stretchr/testify/require"
)

const (
	testToken    = "test-token"
	testPassword = "goodPass1!"
)

// backend is an in-memory users/projects API with a single valid token.
type backend struct {
	mu       sync.Mutex
	users    []models.User
	projects []models.Project
	nextID   int
	revoked  atomic.Bool
	logins   atomic.Int32
}

func newBackend() *backend {
	age := 30
	return &backend{
		users:  []models.User{{ID: "1", Name: "Alice", Email: "alice@example.com", Age: &age}},
		nextID: 2,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, field string) {
	body := map[string]string{"message": msg}
	if field != "" {
		body["field"] = field
	}
	writeJSON(w, status, body)
}

func (b *backend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		b.logins.Add(1)
		var req models.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		u, ok := b.userByEmail(req.Email)
		if !ok || req.Password != testPassword {
			writeError(w, http.StatusNotFound, "User not found", "")
			return
		}
		b.revoked.Store(false)
		writeJSON(w, http.StatusOK, models.AuthResponse{User: u, Token: testToken})
	})
	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if _, ok := b.userByEmail(req.Email); ok {
			writeError(w, http.StatusConflict, "Email already exists", "email")
			return
		}
		u := b.addUser(models.User{Name: req.Name, Email: req.Email, Age: req.Age})
		writeJSON(w, http.StatusCreated, models.AuthResponse{User: u, Token: "unused"})
	})
	mux.HandleFunc("GET /auth/me", b.authed(func(w http.ResponseWriter, r *http.Request) {
		u, _ := b.userByEmail("alice@example.com")
		writeJSON(w, http.StatusOK, models.AuthResponse{User: u, Token: testToken})
	}))

	mux.HandleFunc("GET /users", b.authed(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, b.users)
	}))
	mux.HandleFunc("POST /users", b.authed(func(w http.ResponseWriter, r *http.Request) {
		var req models.UserCreate
		_ = json.NewDecoder(r.Body).Decode(&req)
		if _, ok := b.userByEmail(req.Email); ok {
			writeError(w, http.StatusConflict, "Email already exists", "email")
			return
		}
		writeJSON(w, http.StatusCreated, b.addUser(models.User{Name: req.Name, Email: req.Email, Age: req.Age}))
	}))
	mux.HandleFunc("GET /users/{id}", b.authed(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		i := b.userIndex(models.ID(r.PathValue("id")))
		if i < 0 {
			writeError(w, http.StatusNotFound, "User not found", "")
			return
		}
		writeJSON(w, http.StatusOK, b.users[i])
	}))
	mux.HandleFunc("PUT /users/{id}", b.authed(func(w http.ResponseWriter, r *http.Request) {
		var req models.UserUpdate
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		defer b.mu.Unlock()
		i := b.userIndex(models.ID(r.PathValue("id")))
		if i < 0 {
			writeError(w, http.StatusNotFound, "User not found", "")
			return
		}
		if req.Name != "" {
			b.users[i].Name = req.Name
		}
		if req.Email != "" {
			b.users[i].Email = req.Email
		}
		b.users[i].Age = req.Age
		writeJSON(w, http.StatusOK, b.users[i])
	}))
	mux.HandleFunc("DELETE /users/{id}", b.authed(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		i := b.userIndex(models.ID(r.PathValue("id")))
		if i < 0 {
			writeError(w, http.StatusNotFound, "User not found", "")
			return
		}
		b.users = append(b.users[:i], b.users[i+1:]...)
		w.WriteHeader(http.StatusNoContent)
	}))

	mux.HandleFunc("GET /projects", b.authed(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, b.projects)
	}))
	mux.HandleFunc("POST /projects", b.authed(func(w http.ResponseWriter, r *http.Request) {
		var req models.ProjectCreate
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		defer b.mu.Unlock()
		p := models.Project{
			ID:          models.ID(strconv.Itoa(b.nextID)),
			Title:       req.Title,
			Description: req.Description,
			Status:      req.Status,
		}
		b.nextID++
		for _, id := range req.UserIDs {
			if i := b.userIndex(models.ID(strconv.Itoa(id))); i >= 0 {
				u := b.users[i]
				p.Users = append(p.Users, models.ProjectUser{ID: u.ID, Name: u.Name, Email: u.Email})
			}
		}
		b.projects = append(b.projects, p)
		writeJSON(w, http.StatusCreated, p)
	}))
	return mux
}

func (b *backend) authed(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if b.revoked.Load() || r.Header.Get("Authorization") != "Bearer "+testToken {
			writeError(w, http.StatusUnauthorized, "Invalid token", "")
			return
		}
		h(w, r)
	}
}

func (b *backend) addUser(u models.User) models.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	u.ID = models.ID(strconv.Itoa(b.nextID))
	b.nextID++
	b.users = append(b.users, u)
	return u
}

func (b *backend) userByEmail(email string) (models.User, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.users {
		if u.Email == email {
			return u, true
		}
	}
	return models.User{}, false
}

func (b *backend) userIndex(id models.ID) int {
	for i, u := range b.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (b *backend) snapshotUsers() []models.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.User(nil), b.users...)
}

// newTestApp wires a real App against be with an in-memory store. The
// session is resolved before returning.
func newTestApp(t *testing.T, be *backend) (*App, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(be.handler())
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		ServerBaseURL:       srv.URL,
		StorePath:           ":memory:",
		RequestTimeout:      5 * time.Second,
		SearchDebounce:      300 * time.Millisecond,
		OnlineCheckInterval: 10 * time.Millisecond,
	}
	a, err := NewApp(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	out := &bytes.Buffer{}
	a.out = out
	a.reader = bufio.NewReader(strings.NewReader(""))
	a.session.CheckAuth(context.Background())
	return a, out
}

// feed replaces the app input with lines.
func feed(a *App, lines ...string) {
	a.reader = bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

// stubPasswords makes getPassword return pws in order.
func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	old := getPassword
	t.Cleanup(func() { getPassword = old })
	getPassword = func(string, io.Writer) (string, error) {
		if len(pws) == 0 {
			return "", io.EOF
		}
		pw := pws[0]
		pws = pws[1:]
		return pw, nil
	}
}

func loginAlice(t *testing.T, a *App) {
	t.Helper()
	_, err := a.session.Login(context.Background(), "alice@example.com", testPassword)
	require.NoError(t, err)
}
