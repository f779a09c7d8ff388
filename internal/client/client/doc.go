// Package client contains the transport layer of the console.
//
// # Overview
//
// The package provides:
//  1. The API interface: the Get/Post/Put/Delete collaborator used by the
//     session store and the entity repositories.
//  2. RESTClient, a JSON/HTTP implementation that attaches the bearer token,
//     tags each request with an X-Request-ID, rate-limits outgoing calls,
//     retries idempotent reads and reports 401 responses to a registered
//     handler so the session can be dropped.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Every failed call returns *APIError. Its Kind classifies the failure
// (authentication, permission, not found, rate limit, server, network ...),
// and errors.Is matches it against the sentinels ErrUnauthorized,
// ErrForbidden, ErrNotFound, ErrRateLimited, ErrServer, ErrUnavailable and
// ErrValidation. UserMessage turns any error into the short text shown to
// the operator.
package client
