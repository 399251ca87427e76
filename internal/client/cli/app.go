package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dmitrijs2005/mindbalance/internal/client/cache"
	"github.com/dmitrijs2005/mindbalance/internal/client/client"
	"github.com/dmitrijs2005/mindbalance/internal/client/config"
	"github.com/dmitrijs2005/mindbalance/internal/client/connectivity"
	"github.com/dmitrijs2005/mindbalance/internal/client/kvstore"
	"github.com/dmitrijs2005/mindbalance/internal/client/notifications"
	"github.com/dmitrijs2005/mindbalance/internal/client/services"
	"github.com/dmitrijs2005/mindbalance/internal/filex"
	"github.com/dmitrijs2005/mindbalance/internal/logging"
	"github.com/fatih/color"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const logFileName = "client.log"

const reconnectTimeout = 30 * time.Second

// App owns every client service and their lifecycle.
type App struct {
	config *config.Config
	logger logging.Logger

	store   kvstore.Store
	client  client.Client
	monitor *connectivity.Monitor

	auth      *services.AuthService
	tier      *services.TierService
	writer    *services.WriterService
	feed      *services.FeedService
	editor    *services.EditorService
	reconcile *services.ReconcileService
	theme     *services.ThemeService
	welcome   *services.WelcomeService
	support   *services.SupportService
	insights  *services.InsightsService
	scheduler *notifications.Scheduler

	reader *bufio.Reader
	out    io.Writer

	closers []io.Closer

	mu        sync.Mutex
	mode      Mode
	sessionMu sync.Mutex
	stopFeed  context.CancelFunc
}

// NewApp opens the local store and the server connection and builds the
// services on top of them. Nothing runs until Run is called.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	dir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, err
	}

	logFile, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	logger := logging.NewText(logFile, slog.LevelDebug)

	store, err := kvstore.Open(ctx, dir, c.CacheBackend)
	if err != nil {
		_ = logFile.Close()
		return nil, err
	}

	apiClient, err := client.NewMoodSyncClient(c.ServerEndpointAddr)
	if err != nil {
		_ = store.Close()
		_ = logFile.Close()
		return nil, err
	}

	a := newApp(c, logger, store, apiClient)
	a.closers = append(a.closers, logFile)
	return a, nil
}

func newApp(c *config.Config, logger logging.Logger, store kvstore.Store, apiClient client.Client) *App {
	a := &App{
		config: c,
		logger: logger,
		store:  store,
		client: apiClient,
		reader: bufio.NewReader(os.Stdin),
		out:    &syncWriter{w: color.Output},
		mode:   ModeOffline,
	}

	mc := cache.New(store)
	a.monitor = connectivity.NewMonitor(apiClient, c.OnlineCheckInterval, logger)
	a.auth = services.NewAuthService(apiClient, store, logger)
	a.tier = services.NewTierService(store)
	a.writer = services.NewWriterService(apiClient, mc, a.monitor, logger, c.RemoteWriteTimeout)
	a.feed = services.NewFeedService(apiClient, mc, a.tier, logger)
	a.editor = services.NewEditorService(apiClient, logger)
	a.reconcile = services.NewReconcileService(apiClient, mc, logger)
	a.theme = services.NewThemeService(store, a.tier)
	a.welcome = services.NewWelcomeService(store)
	a.support = services.NewSupportService(store, a.tier)
	a.insights = services.NewInsightsService(a.tier)
	a.scheduler = notifications.NewScheduler(store, &terminalNotifier{w: a.out}, logger)

	a.monitor.OnChange(a.connectivityChanged)
	return a
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mode = mode
}

func (a *App) getMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) isLoggedIn() bool {
	return a.auth.Current() != nil
}

func (a *App) uid() string {
	if id := a.auth.Current(); id != nil {
		return id.UserID
	}
	return ""
}

func (a *App) getStatus() string {
	s := ""
	if id := a.auth.Current(); id != nil {
		s = id.Email + " "
	}
	return fmt.Sprintf("(%s%s)", s, a.getMode())
}

// connectivityChanged runs on the monitor goroutine.
func (a *App) connectivityChanged(online bool) {
	if !online {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
	a.syncPending()
}

// syncPending resumes an offline session and sends the moods still
// waiting for the server.
func (a *App) syncPending() {
	if !a.isLoggedIn() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), reconnectTimeout)
	defer cancel()

	if err := a.auth.Resume(ctx); err != nil {
		a.logger.Warn(ctx, "session not resumed", "error", err)
		return
	}
	rep, err := a.reconcile.Sweep(ctx, a.uid())
	if err != nil {
		a.logger.Warn(ctx, "pending sweep stopped", "error", err)
	}
	if rep.Synced > 0 {
		a.printf("%d pending mood(s) synced.\n", rep.Synced)
	}
}

// startSession begins the background work tied to a signed-in user.
func (a *App) startSession(ctx context.Context) {
	uid := a.uid()
	if uid == "" {
		return
	}

	returning, err := a.welcome.Check(ctx, uid)
	if err != nil {
		a.logger.Warn(ctx, "welcome flag", "error", err)
	}
	a.println(color.New(color.Bold).Sprint(services.Greeting(returning)))

	if _, err := a.feed.Seed(ctx, uid); err != nil {
		a.logger.Warn(ctx, "history not seeded", "error", err)
	}
	if err := a.scheduler.Start(ctx, uid); err != nil {
		a.logger.Warn(ctx, "notifications not restored", "error", err)
	}
	// the monitor reports transitions only; it may have gone online before
	// anyone signed in
	if a.monitor.Online() {
		go a.syncPending()
	}

	a.sessionMu.Lock()
	defer a.sessionMu.Unlock()
	if a.stopFeed != nil {
		a.stopFeed()
	}
	fctx, cancel := context.WithCancel(ctx)
	a.stopFeed = cancel
	go a.feed.Run(fctx, uid)
	go a.watchViews(fctx)
}

func (a *App) watchViews(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case v := <-a.feed.Views():
			a.logger.Debug(ctx, "history updated", "shown", len(v.Entries), "total", v.Total, "pending", v.Pending)
		}
	}
}

func (a *App) stopSession() {
	a.sessionMu.Lock()
	if a.stopFeed != nil {
		a.stopFeed()
		a.stopFeed = nil
	}
	a.sessionMu.Unlock()
	a.scheduler.Stop()
}

// Run restores the previous session, starts the background watchers and
// blocks in the REPL until the user exits or ctx ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close(ctx)

	a.println("Welcome to MindBalance CLI (type 'help' for commands)")

	if a.monitor.Check(ctx) {
		a.setMode(ModeOnline)
	}
	go a.monitor.Run(ctx)

	id, err := a.auth.Restore(ctx)
	switch {
	case err != nil:
		a.println("Your session has expired, please log in again.")
	case id != nil:
		a.startSession(ctx)
	default:
		if err := a.Login(ctx, nil); err != nil {
			a.printError(err)
		}
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close stops background work and releases the store and the connection.
func (a *App) Close(ctx context.Context) {
	a.stopSession()
	if err := a.auth.Close(ctx); err != nil {
		a.logger.Warn(ctx, "client close", "error", err)
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn(ctx, "store close", "error", err)
	}
	for _, c := range a.closers {
		_ = c.Close()
	}
}
