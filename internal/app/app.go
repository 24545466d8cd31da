package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/khrees2412/pipeliner/internal/ai"
	"github.com/khrees2412/pipeliner/internal/cloud"
	"github.com/khrees2412/pipeliner/internal/config"
	"github.com/khrees2412/pipeliner/internal/database"
	"github.com/khrees2412/pipeliner/internal/inbox"
	"github.com/khrees2412/pipeliner/internal/scraper"
	"github.com/khrees2412/pipeliner/internal/tracker"
	"github.com/khrees2412/pipeliner/pkg/models"
)

// App is the dependency container shared by the CLI and the HTTP server
type App struct {
	Config     *config.Config
	Log        *slog.Logger
	Session    *tracker.Session
	Scraper    *scraper.Scraper
	HTTPClient *http.Client

	store interface{ Close() error }
}

// NewApp loads configuration, opens the configured store and loads the
// job collection.
func NewApp(ctx context.Context) (*App, error) {
	dir, err := config.DefaultDir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	return New(ctx, cfg)
}

// NewConfigOnly loads configuration without opening storage, for commands
// that must work while the store is misconfigured.
func NewConfigOnly() (*App, error) {
	dir, err := config.DefaultDir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	return &App{Config: cfg, Log: NewLogger(cfg.LogLevel)}, nil
}

// New builds an App from an already loaded configuration
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := NewLogger(cfg.LogLevel)

	store, err := openStore(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage, err)
	}

	httpClient := &http.Client{
		Timeout: 10 * time.Second,
	}

	session := tracker.New(store,
		tracker.WithLogger(log),
		tracker.WithExtractor(&lazyExtractor{cfg: cfg}),
		tracker.WithScanner(&lazyScanner{cfg: cfg, log: log}),
	)
	if err := session.Open(ctx); err != nil {
		store.Close()
		return nil, err
	}

	return &App{
		Config:     cfg,
		Log:        log,
		Session:    session,
		Scraper:    scraper.New(httpClient, true, log),
		HTTPClient: httpClient,
		store:      store,
	}, nil
}

// Close stops the session and closes the store
func (a *App) Close() error {
	if a.Session != nil {
		a.Session.Close()
	}
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// GmailAuth loads the OAuth client for the inbox commands
func (a *App) GmailAuth() (*inbox.Auth, error) {
	return inbox.LoadAuth(a.Config.GoogleCredentialsFile, a.Config.GoogleTokenFile)
}

// NewLogger returns a text logger on stderr at the named level
func NewLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

type closingStore interface {
	tracker.Store
	Close() error
}

func openStore(cfg *config.Config, log *slog.Logger) (closingStore, error) {
	switch cfg.Storage {
	case config.StorageCloud:
		if cfg.CloudDSN == "" {
			return nil, fmt.Errorf("%w: cloud_dsn is not set", ErrNotConfigured)
		}
		return cloud.Open(cfg.CloudDSN, cfg.CloudUserID,
			cloud.WithPollInterval(cfg.CloudPollInterval),
			cloud.WithLogger(log),
		)
	case config.StorageLocal, "":
		db, err := database.Open(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		return database.NewRepository(db), nil
	default:
		return nil, fmt.Errorf("%w: unknown storage %q", ErrInvalidArgument, cfg.Storage)
	}
}

// lazyExtractor builds the language model on first use so commands that
// never extract do not need AI credentials.
type lazyExtractor struct {
	cfg *config.Config

	mu  sync.Mutex
	ext *ai.Extractor
}

func (l *lazyExtractor) Extract(ctx context.Context, text string) (*models.Extraction, error) {
	l.mu.Lock()
	if l.ext == nil {
		model, err := ai.NewModel(ctx, l.cfg)
		if err != nil {
			l.mu.Unlock()
			return nil, err
		}
		l.ext = ai.NewExtractor(model)
	}
	ext := l.ext
	l.mu.Unlock()
	return ext.Extract(ctx, text)
}

// lazyScanner connects to Gmail on first scan
type lazyScanner struct {
	cfg *config.Config
	log *slog.Logger

	mu      sync.Mutex
	scanner *inbox.Scanner
}

func (l *lazyScanner) Scan(ctx context.Context) ([]models.Suggestion, error) {
	l.mu.Lock()
	if l.scanner == nil {
		sc, err := l.build(ctx)
		if err != nil {
			l.mu.Unlock()
			return nil, err
		}
		l.scanner = sc
	}
	sc := l.scanner
	l.mu.Unlock()
	return sc.Scan(ctx)
}

func (l *lazyScanner) build(ctx context.Context) (*inbox.Scanner, error) {
	auth, err := inbox.LoadAuth(l.cfg.GoogleCredentialsFile, l.cfg.GoogleTokenFile)
	if err != nil {
		return nil, err
	}
	// the token source outlives this request
	client, err := auth.Client(context.WithoutCancel(ctx))
	if err != nil {
		return nil, err
	}
	fetcher, err := inbox.NewGmailFetcher(ctx, client)
	if err != nil {
		return nil, err
	}
	model, err := ai.NewModel(ctx, l.cfg)
	if err != nil {
		return nil, err
	}
	return inbox.NewScanner(fetcher, inbox.NewAnalyzer(model), l.log), nil
}
