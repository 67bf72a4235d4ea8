package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/visionaq/internal/client/client"
	"github.com/dmitrijs2005/visionaq/internal/client/config"
	"github.com/dmitrijs2005/visionaq/internal/client/imagestore"
	"github.com/dmitrijs2005/visionaq/internal/client/models"
	"github.com/dmitrijs2005/visionaq/internal/client/notify"
	"github.com/dmitrijs2005/visionaq/internal/client/repositories/kvstore"
	"github.com/dmitrijs2005/visionaq/internal/client/router"
	"github.com/dmitrijs2005/visionaq/internal/client/services"
	"github.com/dmitrijs2005/visionaq/internal/logging"
)

type Mode string

const (
	ModeUnknown Mode = ""
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// deps are the outside-world pieces an App is assembled from.
type deps struct {
	store  kvstore.Store
	auth   client.AuthAPI
	api    client.AnalysisAPI
	images imagestore.Store
	// closers run in reverse order on Close.
	closers []func() error
}

type App struct {
	config *config.Config
	log    logging.Logger

	creds    *services.CredentialStore
	session  *services.SessionManager
	history  *services.HistoryStore
	analyzer *services.AnalyzeService
	api      client.AnalysisAPI
	router   *router.Router
	bus      *notify.Bus

	reader *bufio.Reader
	out    io.Writer

	modeMu sync.Mutex
	mode   Mode

	closers []func() error
}

// NewApp opens storage and the remote clients described by c.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	store, closeStore, err := openStore(ctx, c, log)
	if err != nil {
		return nil, err
	}

	images, err := openImages(ctx, c)
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	httpClient := client.NewHTTPClient(c.AuthURL, c.APIURL, c.RequestTimeout, log)

	return newApp(c, log, deps{
		store:   store,
		auth:    httpClient,
		api:     httpClient,
		images:  images,
		closers: []func() error{closeStore},
	}, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, log logging.Logger, d deps, in io.Reader, out io.Writer) *App {
	if log == nil {
		log = logging.Nop()
	}

	a := &App{
		config:  c,
		log:     log,
		api:     d.api,
		bus:     notify.NewBus(),
		reader:  bufio.NewReader(in),
		out:     &syncWriter{w: out},
		closers: d.closers,
	}

	a.creds = services.NewCredentialStore(d.store, log)
	verifier := services.NewSessionVerifier(a.creds, d.auth, log)
	// the App forwards navigation to the router, which needs the manager first
	a.session = services.NewSessionManager(a.creds, verifier, d.auth, a, a.bus, log)
	a.router = router.New(a.session, log)
	a.history = services.NewHistoryStore(d.store)
	a.analyzer = services.NewAnalyzeService(d.api, a.history, d.images, a, a.bus, log)

	return a
}

// Navigate implements services.Navigator.
func (a *App) Navigate(path string) {
	a.router.Navigate(path)
}

// Run starts the interactive session and blocks until the user exits or
// ctx is done.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	// Background work must finish before Close releases the stores.
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	toasts, stopToasts := a.bus.Subscribe(16)
	defer stopToasts()
	go a.printToasts(toasts)

	stopView := a.router.OnChange(a.render)
	defer stopView()
	stopRouter := a.router.Start()
	defer stopRouter()

	wg.Add(2)
	go func() {
		defer wg.Done()
		a.session.Initialize(ctx)
	}()
	go func() {
		defer wg.Done()
		a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}()

	fmt.Fprintln(a.out, "Welcome to VisionAQ (type 'help' for commands)")
	a.render(a.router.Current())

	runREPL(ctx, a, a.reader)
	return nil
}

// Close releases storage connections and stops notification delivery.
func (a *App) Close() {
	a.bus.Close()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn(context.Background(), "close failed", "error", err)
		}
	}
	a.closers = nil
}

func (a *App) isLoggedIn() bool {
	return a.session.State().Authenticated()
}

func (a *App) currentMode() Mode {
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
		a.log.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

// status is the prompt decoration: who is signed in and whether the
// analysis service answers.
func (a *App) status() string {
	s := ""
	st := a.session.State()
	switch st.Status() {
	case models.StatusInitializing:
		s = "loading "
	case models.StatusAuthenticated:
		s = st.User.DisplayName + " "
	}
	if m := a.currentMode(); m != ModeUnknown {
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// checkOnline pings the analysis service once and records the result.
func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if _, err := a.api.Ping(ctx); err != nil {
		a.log.Debug(ctx, "health ping failed", "error", err)
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher pings the analysis service every interval until
// ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

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

// printToasts writes notifications until the channel is closed.
func (a *App) printToasts(ch <-chan models.Notification) {
	for n := range ch {
		fmt.Fprintln(a.out, renderToast(n))
	}
}

// syncWriter serialises writes from the REPL, the view listener and the
// toast printer.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
