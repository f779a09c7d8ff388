package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/pmconsole/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/pmconsole/internal/dbx"
)

const (
	authTokenKey = "auth_token"
	lastEmailKey = "last_email"
)

// TokenStore persists the bearer token across console runs. An empty token
// from Load means no session was saved.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	// Save stores token together with the email of the user it belongs to.
	Save(ctx context.Context, token, email string) error
	Clear(ctx context.Context) error
}

// SQLiteTokenStore keeps the token in the local metadata table.
type SQLiteTokenStore struct {
	db *sql.DB
}

func NewSQLiteTokenStore(db *sql.DB) *SQLiteTokenStore {
	return &SQLiteTokenStore{db: db}
}

func (s *SQLiteTokenStore) repo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

func (s *SQLiteTokenStore) Load(ctx context.Context) (string, error) {
	return s.get(ctx, authTokenKey)
}

// Save writes the token and the last used email in one transaction.
func (s *SQLiteTokenStore) Save(ctx context.Context, token, email string) error {
	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Set(ctx, authTokenKey, []byte(token)); err != nil {
			return err
		}
		if email == "" {
			return nil
		}
		return repo.Set(ctx, lastEmailKey, []byte(email))
	})
}

// Clear removes the token. The last used email is kept for the login prompt.
func (s *SQLiteTokenStore) Clear(ctx context.Context) error {
	return s.repo(s.db).Delete(ctx, authTokenKey)
}

// LastEmail returns the email of the most recent successful login, if any.
func (s *SQLiteTokenStore) LastEmail(ctx context.Context) (string, error) {
	return s.get(ctx, lastEmailKey)
}

func (s *SQLiteTokenStore) get(ctx context.Context, key string) (string, error) {
	e, err := s.repo(s.db).Get(ctx, key)
	if errors.Is(err, metadata.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load %s: %w", key, err)
	}
	return string(e.Value), nil
}
