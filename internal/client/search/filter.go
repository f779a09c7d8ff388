// Package search implements the debounced client-side filter used by the
// users and projects views.
package search

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultDelay is the quiescence window before a query takes effect.
const DefaultDelay = 300 * time.Millisecond

// Record exposes an item's fields by name. ok is false for absent values.
type Record interface {
	Field(name string) (value any, ok bool)
}

// Predicate replaces the default field matching. It receives the debounced
// query as typed and is only consulted for non-blank queries.
type Predicate[T any] func(item T, query string) bool

type Option[T Record] func(*Filter[T])

func WithClock[T Record](c clockwork.Clock) Option[T] {
	return func(f *Filter[T]) { f.clock = c }
}

func WithDelay[T Record](d time.Duration) Option[T] {
	return func(f *Filter[T]) { f.delay = d }
}

func WithPredicate[T Record](p Predicate[T]) Option[T] {
	return func(f *Filter[T]) { f.predicate = p }
}

// Filter holds a list of items, the raw query and the debounced query.
//
// SetQuery updates the raw query at once and schedules the debounced query
// to follow after the delay; each call cancels the previously scheduled
// update, so only the last query in a burst is applied.
type Filter[T Record] struct {
	clock     clockwork.Clock
	delay     time.Duration
	fields    []string
	predicate Predicate[T]

	mu        sync.Mutex
	items     []T
	query     string
	debounced string
	timer     clockwork.Timer
	seq       uint64
	closed    bool
	subs      map[int]func(query string)
	nextSub   int
}

func NewFilter[T Record](fields []string, opts ...Option[T]) *Filter[T] {
	f := &Filter[T]{
		clock:  clockwork.NewRealClock(),
		delay:  DefaultDelay,
		fields: slices.Clone(fields),
		subs:   make(map[int]func(string)),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Filter[T]) SetItems(items []T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = slices.Clone(items)
}

func (f *Filter[T]) SetQuery(q string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.query = q
	f.seq++
	if f.timer != nil {
		f.timer.Stop()
	}
	seq := f.seq
	f.timer = f.clock.AfterFunc(f.delay, func() { f.fire(seq) })
}

// Query returns the raw query.
func (f *Filter[T]) Query() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.query
}

// DebouncedQuery returns the query the results are filtered by.
func (f *Filter[T]) DebouncedQuery() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.debounced
}

// Flush applies a pending query immediately.
func (f *Filter[T]) Flush() {
	f.mu.Lock()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.seq++
	f.applyLocked()
}

// Subscribe registers fn to be called after the debounced query changes.
func (f *Filter[T]) Subscribe(fn func(query string)) (unsubscribe func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextSub
	f.nextSub++
	f.subs[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}
}

// Close cancels any pending update. Later SetQuery calls are ignored.
func (f *Filter[T]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}

// Results returns the items matching the debounced query in their original
// order. A blank query matches everything.
func (f *Filter[T]) Results() []T {
	f.mu.Lock()
	items := slices.Clone(f.items)
	q := f.debounced
	f.mu.Unlock()

	if strings.TrimSpace(q) == "" {
		return items
	}
	match := f.predicate
	if match == nil {
		match = f.matchFields
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if match(it, q) {
			out = append(out, it)
		}
	}
	return out
}

func (f *Filter[T]) matchFields(item T, query string) bool {
	needle := strings.ToLower(strings.TrimSpace(query))
	for _, name := range f.fields {
		v, ok := item.Field(name)
		if !ok || v == nil {
			continue
		}
		if strings.Contains(strings.ToLower(fmt.Sprint(v)), needle) {
			return true
		}
	}
	return false
}

func (f *Filter[T]) fire(seq uint64) {
	f.mu.Lock()
	if seq != f.seq || f.closed {
		f.mu.Unlock()
		return
	}
	f.timer = nil
	f.applyLocked()
}

// applyLocked promotes the raw query, releases f.mu and notifies.
func (f *Filter[T]) applyLocked() {
	changed := f.debounced != f.query
	f.debounced = f.query
	q := f.debounced
	subs := make([]func(string), 0, len(f.subs))
	for _, fn := range f.subs {
		subs = append(subs, fn)
	}
	f.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range subs {
		fn(q)
	}
}
