package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/pmconsole/internal/client/client"
	"github.com/dmitrijs2005/pmconsole/internal/client/config"
	"github.com/dmitrijs2005/pmconsole/internal/client/guard"
	"github.com/dmitrijs2005/pmconsole/internal/client/models"
	"github.com/dmitrijs2005/pmconsole/internal/client/search"
	"github.com/dmitrijs2005/pmconsole/internal/client/services"
	"github.com/dmitrijs2005/pmconsole/internal/filex"
	"github.com/dmitrijs2005/pmconsole/internal/logging"
	"github.com/jonboulle/clockwork"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB

	api      pinger
	tokens   *services.SQLiteTokenStore
	session  *services.SessionStore
	users    *services.UserRepository
	projects *services.ProjectRepository
	nav      *guard.Navigator

	unsubscribeSession func()

	userSearch    *search.Filter[models.User]
	projectSearch *search.Filter[models.Project]

	modeMu sync.Mutex
	mode   Mode

	reader *bufio.Reader
	outMu  sync.Mutex
	out    io.Writer
}

// NewApp opens the local store and wires the services. The session is not
// checked until Run.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	dsn := c.StorePath
	if dsn != ":memory:" {
		abs, err := filex.EnsureParentDir(dsn)
		if err != nil {
			logger.Error(ctx, "error preparing store directory", "path", dsn, "error", err)
			return nil, err
		}
		dsn = abs
	}

	db, err := client.InitDatabase(ctx, dsn)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.StorePath, "error", err)
		return nil, err
	}

	rest := client.NewRESTClient(c.ServerBaseURL,
		client.WithTimeout(c.RequestTimeout),
		client.WithRetries(c.RetryAttempts, 200*time.Millisecond),
		client.WithRateLimit(c.RateLimit, c.RateBurst),
		client.WithLogger(logger),
	)
	tokens := services.NewSQLiteTokenStore(db)
	session := services.NewSessionStore(rest, tokens, logger)
	rest.SetTokenSource(session)
	rest.OnUnauthorized(session.HandleUnauthorized)

	clock := clockwork.NewRealClock()
	a := &App{
		config:   c,
		logger:   logger,
		db:       db,
		api:      rest,
		tokens:   tokens,
		session:  session,
		users:    services.NewUserRepository(rest),
		projects: services.NewProjectRepository(rest),
		userSearch: search.NewFilter[models.User]([]string{"name", "email", "age"},
			search.WithClock[models.User](clock), search.WithDelay[models.User](c.SearchDebounce)),
		projectSearch: search.NewFilter[models.Project]([]string{"title", "description", "status"},
			search.WithClock[models.Project](clock), search.WithDelay[models.Project](c.SearchDebounce)),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
	a.nav = guard.NewNavigator(session, guard.PathDashboard)
	a.nav.OnChange(a.viewChanged)
	a.unsubscribeSession = session.Subscribe(a.sessionChanged)
	return a, nil
}

// sessionChanged drops everything fetched under a session once it ends, so
// the next login starts from an empty cache and search.
func (a *App) sessionChanged(s models.Session) {
	if s.State != models.SessionAnonymous {
		return
	}
	a.users.Reset()
	a.projects.Reset()
	a.userSearch.SetItems(nil)
	a.userSearch.SetQuery("")
	a.userSearch.Flush()
	a.projectSearch.SetItems(nil)
	a.projectSearch.SetQuery("")
	a.projectSearch.Flush()
}

// Close releases the store and stops background work owned by the app.
func (a *App) Close() error {
	if a.unsubscribeSession != nil {
		a.unsubscribeSession()
	}
	a.nav.Close()
	a.userSearch.Close()
	a.projectSearch.Close()
	return a.db.Close()
}

// Run resolves the persisted session, starts the online watcher and blocks
// in the REPL until the operator exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.println("Welcome to pmconsole (type 'help' for commands)")
	a.session.CheckAuth(ctx)
	a.checkOnline(ctx)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	if a.nav.Current() == guard.PathLogin {
		a.println("Not logged in. Use 'login' or 'register'.")
	}
	runREPL(ctx, a, a.getStatus, &readerLines{r: a.reader})
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) getStatus() string {
	s := a.nav.Current()
	if s == "" {
		s = "..."
	}
	if u := a.session.User(); u != nil {
		s += " " + u.Email
	}
	if m := a.Mode(); m != "" {
		s += " " + string(m)
	}
	return s
}

func (a *App) Mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.logger.Info(context.Background(), "connectivity changed", "mode", mode)
	}
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := a.api.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher pings the backend every interval and keeps the
// prompt's online/offline marker current until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) viewChanged(path string) {
	a.logger.Debug(context.Background(), "view changed", "path", path)
}

func (a *App) println(args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}

// fail prints the short message for err and returns it.
func (a *App) fail(ctx context.Context, err error) error {
	a.logger.Debug(ctx, "command failed", "error", err)
	a.println("Error:", client.UserMessage(err))
	return err
}

// write runs fn with exclusive access to the output.
func (a *App) write(fn func(w io.Writer)) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fn(a.out)
}
