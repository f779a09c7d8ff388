package client

import "context"

// API is the transport collaborator used by the session store and the
// entity repositories. body is encoded as JSON; out, when non-nil, receives
// the decoded JSON response.
type API interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// TokenSource supplies the bearer token attached to outgoing requests.
type TokenSource interface {
	Token() string
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func() string

func (f TokenSourceFunc) Token() string { return f() }
