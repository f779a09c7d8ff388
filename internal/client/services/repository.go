package services

import (
	"context"
	"net/url"
	"slices"
	"sync"

	"github.com/dmitrijs2005/pmconsole/internal/client/client"
	"github.com/dmitrijs2005/pmconsole/internal/client/models"
)

// Entity is a backend record addressed by id.
type Entity interface {
	EntityID() models.ID
}

// Repository is a CRUD client for one REST collection that keeps the last
// known list and the last fetched item in memory.
//
// The cache follows successful calls only: List replaces it, Create appends,
// Update replaces the matching item in place and Delete removes it. Nothing
// expires; call List to reconcile with changes made elsewhere. Create is not
// deduplicated.
type Repository[T Entity, C, U any] struct {
	api  client.API
	path string

	mu       sync.RWMutex
	items    []T
	selected *T
}

type (
	UserRepository    = Repository[models.User, models.UserCreate, models.UserUpdate]
	ProjectRepository = Repository[models.Project, models.ProjectCreate, models.ProjectUpdate]
)

func NewRepository[T Entity, C, U any](api client.API, path string) *Repository[T, C, U] {
	return &Repository[T, C, U]{api: api, path: path}
}

func NewUserRepository(api client.API) *UserRepository {
	return NewRepository[models.User, models.UserCreate, models.UserUpdate](api, "/users")
}

func NewProjectRepository(api client.API) *ProjectRepository {
	return NewRepository[models.Project, models.ProjectCreate, models.ProjectUpdate](api, "/projects")
}

func (r *Repository[T, C, U]) itemPath(id models.ID) string {
	return r.path + "/" + url.PathEscape(string(id))
}

func (r *Repository[T, C, U]) List(ctx context.Context) ([]T, error) {
	var items []T
	if err := r.api.Get(ctx, r.path, &items); err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.items = items
	r.mu.Unlock()
	return slices.Clone(items), nil
}

// GetByID fetches one item and remembers it as the selected one.
func (r *Repository[T, C, U]) GetByID(ctx context.Context, id models.ID) (T, error) {
	var item T
	if err := r.api.Get(ctx, r.itemPath(id), &item); err != nil {
		return item, err
	}
	r.mu.Lock()
	r.selected = &item
	r.mu.Unlock()
	return item, nil
}

func (r *Repository[T, C, U]) Create(ctx context.Context, data C) (T, error) {
	var item T
	if err := r.api.Post(ctx, r.path, data, &item); err != nil {
		return item, err
	}
	r.mu.Lock()
	r.items = append(r.items, item)
	r.mu.Unlock()
	return item, nil
}

// Update leaves the cache untouched when the id is not cached.
func (r *Repository[T, C, U]) Update(ctx context.Context, id models.ID, data U) (T, error) {
	var item T
	if err := r.api.Put(ctx, r.itemPath(id), data, &item); err != nil {
		return item, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.indexLocked(id); i >= 0 {
		r.items[i] = item
	}
	if r.selected != nil && (*r.selected).EntityID() == id {
		r.selected = &item
	}
	return item, nil
}

func (r *Repository[T, C, U]) Delete(ctx context.Context, id models.ID) error {
	if err := r.api.Delete(ctx, r.itemPath(id), nil); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = slices.DeleteFunc(r.items, func(it T) bool { return it.EntityID() == id })
	if r.selected != nil && (*r.selected).EntityID() == id {
		r.selected = nil
	}
	return nil
}

// Reset drops the cached list and the selected item.
func (r *Repository[T, C, U]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
	r.selected = nil
}

// Cached returns a copy of the cached list.
func (r *Repository[T, C, U]) Cached() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.items)
}

// Find looks id up in the cache without a network call.
func (r *Repository[T, C, U]) Find(id models.ID) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexLocked(id); i >= 0 {
		return r.items[i], true
	}
	var zero T
	return zero, false
}

func (r *Repository[T, C, U]) Selected() (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.selected == nil {
		var zero T
		return zero, false
	}
	return *r.selected, true
}

func (r *Repository[T, C, U]) indexLocked(id models.ID) int {
	return slices.IndexFunc(r.items, func(it T) bool { return it.EntityID() == id })
}
