package services

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/dmitrijs2005/pmconsole/internal/client/client"
)

type apiCall struct {
	Method string
	Path   string
	Body   any
}

type handlerFunc func(ctx context.Context, body any) (any, error)

// fakeAPI routes calls to per-endpoint handlers and round-trips responses
// through JSON the way the REST client does.
type fakeAPI struct {
	mu       sync.Mutex
	handlers map[string]handlerFunc
	calls    []apiCall
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{handlers: make(map[string]handlerFunc)}
}

func (f *fakeAPI) on(method, path string, h handlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[method+" "+path] = h
}

func (f *fakeAPI) reply(method, path string, resp any) {
	f.on(method, path, func(context.Context, any) (any, error) { return resp, nil })
}

func (f *fakeAPI) fail(method, path string, status int) {
	f.on(method, path, func(context.Context, any) (any, error) {
		return nil, &client.APIError{Method: method, Path: path, Status: status}
	})
}

func (f *fakeAPI) Calls() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]apiCall(nil), f.calls...)
}

func (f *fakeAPI) do(ctx context.Context, method, path string, body, out any) error {
	f.mu.Lock()
	f.calls = append(f.calls, apiCall{Method: method, Path: path, Body: body})
	h := f.handlers[method+" "+path]
	f.mu.Unlock()

	if h == nil {
		return &client.APIError{Method: method, Path: path, Status: http.StatusNotFound}
	}
	resp, err := h(ctx, body)
	if err != nil {
		return err
	}
	if out == nil || resp == nil {
		return nil
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func (f *fakeAPI) Get(ctx context.Context, path string, out any) error {
	return f.do(ctx, http.MethodGet, path, nil, out)
}

func (f *fakeAPI) Post(ctx context.Context, path string, body, out any) error {
	return f.do(ctx, http.MethodPost, path, body, out)
}

func (f *fakeAPI) Put(ctx context.Context, path string, body, out any) error {
	return f.do(ctx, http.MethodPut, path, body, out)
}

func (f *fakeAPI) Delete(ctx context.Context, path string, out any) error {
	return f.do(ctx, http.MethodDelete, path, nil, out)
}

type memTokens struct {
	mu       sync.Mutex
	token    string
	email    string
	loadErr  error
	saveErr  error
	clearErr error
	saves    int
}

func (m *memTokens) Load(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.loadErr
}

func (m *memTokens) Save(_ context.Context, token, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.token, m.email = token, email
	m.saves++
	return nil
}

func (m *memTokens) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clearErr != nil {
		return m.clearErr
	}
	m.token = ""
	return nil
}

func (m *memTokens) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}
