package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/mwantia/fabric/pkg/container"
	"github.com/mwantia/palanaeum/internal/archive"
	"github.com/mwantia/palanaeum/internal/assembly"
	"github.com/mwantia/palanaeum/internal/catalog"
	config "github.com/mwantia/palanaeum/internal/config"
	"github.com/mwantia/palanaeum/internal/parts"
	"github.com/mwantia/palanaeum/internal/search"
	"github.com/mwantia/palanaeum/internal/taxonomy"
	"github.com/mwantia/palanaeum/pkg/apperrors"
	"github.com/mwantia/palanaeum/pkg/db/store"
	"github.com/mwantia/palanaeum/pkg/log"
)

// App owns the catalog store and the services built on it for one process
type App struct {
	mutex sync.RWMutex

	cfg   *config.BaseConfig
	sc    *container.ServiceContainer
	log   log.LoggerService
	store *store.SQLiteStore

	Taxonomy *taxonomy.Store
	Catalog  *catalog.Catalog
	Searcher *search.Searcher
	Graph    *assembly.Graph
	Parts    *parts.Parts
}

type Option func(*options)

type options struct {
	cycleCheck bool
	logger     log.LoggerService
}

// WithCycleCheck rejects assembly edges that would close a loop
func WithCycleCheck() Option {
	return func(o *options) {
		o.cycleCheck = true
	}
}

func WithLogger(logger log.LoggerService) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Open connects to the catalog, applies pending migrations and builds the services
func Open(ctx context.Context, cfg *config.BaseConfig, opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = log.NewLoggerService("palanaeum", cfg.Log)
	}

	a := &App{
		cfg: cfg,
		sc:  container.NewServiceContainer(),
		log: o.logger,
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()

	s, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	a.store = s

	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to migrate catalog: %w", err)
	}

	if err := a.setupServices(ctx, o); err != nil {
		s.Close()
		return nil, err
	}

	return a, nil
}

// OpenStore connects to the catalog without migrating or building services
func OpenStore(ctx context.Context, cfg *config.BaseConfig, logger log.LoggerService) (*store.SQLiteStore, error) {
	a := &App{cfg: cfg, log: logger}
	return a.openStore(ctx)
}

// openStore retries opening and pinging the database with exponential backoff.
// The final failure wraps apperrors.ErrStoreUnavailable.
func (a *App) openStore(ctx context.Context) (*store.SQLiteStore, error) {
	retry := a.cfg.Catalog.Retry

	policy := backoff.NewExponentialBackOff()
	if d, err := time.ParseDuration(retry.InitialInterval); err == nil {
		policy.InitialInterval = d
	}
	if d, err := time.ParseDuration(retry.MaxInterval); err == nil {
		policy.MaxInterval = d
	}

	var s *store.SQLiteStore
	attempt := 0
	operation := func() error {
		attempt++

		opened, err := store.NewSQLiteStore(store.SQLiteConfig{
			Path:     a.cfg.Catalog.Database,
			LogLevel: store.ParseLogLevel(a.cfg.Catalog.LogLevel),
		})
		if err != nil {
			a.log.Warn("Attempt %d to open catalog '%s' failed: %v", attempt, a.cfg.Catalog.Database, err)
			return err
		}
		if err := opened.Connect(ctx); err != nil {
			opened.Close()
			a.log.Warn("Attempt %d to connect catalog '%s' failed: %v", attempt, a.cfg.Catalog.Database, err)
			return err
		}

		s = opened
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(policy, retry.MaxRetries), ctx)
	if err := backoff.Retry(operation, b); err != nil {
		if errors.Is(err, apperrors.ErrStoreUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}

	a.log.Debug("Opened catalog '%s'", a.cfg.Catalog.Database)
	return s, nil
}

func (a *App) setupServices(ctx context.Context, o *options) error {
	errs := container.Errors{}

	a.log.Debug("Registering 'LoggerService'...")
	errs.Add(container.Register[log.LoggerServiceImpl](a.sc,
		container.With[log.LoggerService](),
		container.WithInstance(a.log)))

	a.log.Debug("Registering 'CatalogStore'...")
	errs.Add(container.Register[store.SQLiteStore](a.sc,
		container.With[store.CatalogStore](),
		container.WithInstance(a.store)))

	if err := errs.Errors(); err != nil {
		return err
	}

	named := func(name string) log.LoggerService {
		logger, err := log.Resolve(ctx, a.sc, name)
		if err != nil {
			a.log.Warn("Falling back to base logger for '%s': %v", name, err)
			return a.log.Named(name)
		}
		return logger
	}

	tax, err := taxonomy.New(ctx, a.store, named("taxonomy"))
	if err != nil {
		return fmt.Errorf("failed to load taxonomy: %w", err)
	}

	arc := archive.New(a.cfg.Archive.Images, a.cfg.Archive.Documents)

	var graphOpts []assembly.Option
	if o.cycleCheck {
		graphOpts = append(graphOpts, assembly.WithCycleCheck())
	}

	a.Taxonomy = tax
	a.Catalog = catalog.New(a.store, tax, arc, named("catalog"))
	a.Searcher = search.NewSearcher(a.store, named("search"))
	a.Graph = assembly.NewGraph(a.store, named("assembly"), graphOpts...)
	a.Parts = parts.New(a.store, arc, named("parts"))

	return nil
}

func (a *App) Config() *config.BaseConfig {
	return a.cfg
}

func (a *App) Logger() log.LoggerService {
	return a.log
}

// Store returns the catalog store shared by all services
func (a *App) Store() *store.SQLiteStore {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	return a.store
}

// Close runs the container cleanup within the configured shutdown timeout and closes the
// catalog.
func (a *App) Close(ctx context.Context) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	timeout, err := time.ParseDuration(a.cfg.ShutdownTimeout)
	if err != nil {
		// Set default of 10 seconds if error
		timeout = 10 * time.Second
	}

	shutdown, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := a.sc.Cleanup(shutdown); err != nil {
		return fmt.Errorf("failed to complete service container cleanup: %w", err)
	}

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			return fmt.Errorf("failed to close catalog: %w", err)
		}
		a.store = nil
	}
	return nil
}
