package guard

import (
	"sync"

	"github.com/dmitrijs2005/pmconsole/internal/client/models"
)

// SessionSource is the part of the session store the navigator needs.
type SessionSource interface {
	Snapshot() models.Session
	Subscribe(fn func(models.Session)) (unsubscribe func())
}

// Navigator tracks the view the operator asked for and the view actually
// shown. Every navigation and every session change is run through Decide;
// redirects replace the current path.
type Navigator struct {
	session SessionSource

	mu        sync.Mutex
	requested string
	current   string
	deferred  bool
	listeners []func(path string)

	unsubscribe func()
}

// NewNavigator starts at start and follows session changes until Close.
func NewNavigator(session SessionSource, start string) *Navigator {
	n := &Navigator{session: session}
	n.apply(start, session.Snapshot().State)
	n.unsubscribe = session.Subscribe(func(s models.Session) {
		n.mu.Lock()
		path := n.requested
		n.mu.Unlock()
		n.apply(path, s.State)
	})
	return n
}

// Navigate requests path and returns the decision taken for it.
func (n *Navigator) Navigate(path string) Decision {
	return n.apply(path, n.session.Snapshot().State)
}

// Current returns the path being shown. It is empty while the first
// decision is deferred.
func (n *Navigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Pending reports whether the navigator waits for the session to resolve.
func (n *Navigator) Pending() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.deferred
}

// OnChange registers fn to be called with the new path after each change.
func (n *Navigator) OnChange(fn func(path string)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, fn)
}

func (n *Navigator) Close() {
	if n.unsubscribe != nil {
		n.unsubscribe()
	}
}

func (n *Navigator) apply(path string, state models.SessionState) Decision {
	d := Decide(path, state)

	n.mu.Lock()
	prev := n.current
	n.requested = path
	n.deferred = d.Defer
	switch {
	case d.Allow:
		n.current = path
	case d.RedirectTo != "":
		n.current = d.RedirectTo
		n.requested = d.RedirectTo
	}
	cur := n.current
	listeners := append([]func(string){}, n.listeners...)
	n.mu.Unlock()

	if cur != prev {
		for _, fn := range listeners {
			fn(cur)
		}
	}
	return d
}
