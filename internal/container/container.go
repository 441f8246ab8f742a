package container

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/closing-dashboard/internal/application/dispatcher"
	"github.com/garyjia/closing-dashboard/internal/application/operation"
	"github.com/garyjia/closing-dashboard/internal/application/port"
	"github.com/garyjia/closing-dashboard/internal/config"
	"github.com/garyjia/closing-dashboard/internal/infrastructure/catalog"
	"github.com/garyjia/closing-dashboard/internal/infrastructure/clock"
	"github.com/garyjia/closing-dashboard/internal/infrastructure/persistence/memory"
	"github.com/garyjia/closing-dashboard/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/closing-dashboard/internal/infrastructure/storage"
	"github.com/garyjia/closing-dashboard/internal/infrastructure/worker"
)

// drainTimeout bounds how long Close waits for in-flight operations
const drainTimeout = 5 * time.Second

// Container manages all application dependencies and lifecycle.
// Components are initialized in dependency order and torn down in reverse.
type Container struct {
	config *config.Config
	logger *zap.Logger

	// Data
	catalog      *catalog.Catalog
	store        *memory.Store
	db           *sqlite.DB
	repositories *RepositoryBundle

	// Infrastructure
	clock       port.Clock
	fileStorage port.FileStorage

	// Application
	tracker    *operation.Tracker
	dispatcher dispatcher.Dispatcher
	services   *ServiceBundle

	// Workers
	workers *worker.Manager

	// Lifecycle
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	teardowns []teardown
	ready     atomic.Bool
	closed    atomic.Bool
}

// teardown is one step of Close, registered as its component comes up
type teardown struct {
	name string
	fn   func() error
}

func (c *Container) onClose(name string, fn func() error) {
	c.teardowns = append(c.teardowns, teardown{name: name, fn: fn})
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components and begins processing:
// 1. Seed catalog, session store and audit database
// 2. Clock and file storage
// 3. Operation tracker, dispatcher and services
// 4. Workers
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)
	c.logger.Info("Starting container initialization")

	if err := c.initData(); err != nil {
		return fmt.Errorf("failed to initialize data: %w", err)
	}
	c.logger.Info("Data initialized",
		zap.Int("business_units", len(c.catalog.BusinessUnits)),
		zap.Int("tasks", len(c.catalog.Tasks)),
		zap.Int("consolidated", len(c.catalog.Consolidated)))

	if err := c.initInfrastructure(); err != nil {
		return fmt.Errorf("failed to initialize infrastructure: %w", err)
	}

	if err := c.initServices(); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	c.logger.Info("Services initialized")

	c.workers = ProvideWorkers(&c.config.Operation, c.tracker, c.clock, c.logger)
	if err := c.workers.StartAll(c.ctx); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}
	c.onClose("workers", c.workers.StopAll)

	c.ready.Store(true)
	c.logger.Info("Container started successfully")
	return nil
}

func (c *Container) initData() error {
	cat, err := catalog.Load()
	if err != nil {
		return err
	}
	c.catalog = cat
	c.store = memory.NewStore(SeedFrom(cat), c.logger)

	db, err := ProvideDatabase(&c.config.Database, c.logger)
	if err != nil {
		return err
	}
	c.db = db
	c.onClose("database", db.Close)

	repos, err := ProvideRepositories(c.store, c.db, c.logger)
	if err != nil {
		return err
	}
	c.repositories = repos
	return nil
}

func (c *Container) initInfrastructure() error {
	clk, err := clock.New(c.config.Clock.FixedDate, c.config.Clock.Timezone)
	if err != nil {
		return err
	}
	c.clock = clk
	c.logger.Info("Clock initialized", zap.Time("now", clk.Now()))

	c.fileStorage = storage.NewLocalFileStorage(c.config.Export.OutputDir, c.logger)
	return nil
}

func (c *Container) initServices() error {
	c.dispatcher = ProvideDispatcher(c.logger)
	c.onClose("dispatcher", c.dispatcher.Close)

	// Registered after the dispatcher so pending operations can still
	// publish their events while draining.
	c.tracker = operation.NewTracker(c.clock, c.logger)
	c.onClose("operations", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
		defer cancel()
		return c.tracker.Drain(ctx)
	})

	services, err := ProvideServices(&ServiceDeps{
		Config:       c.config,
		Catalog:      c.catalog,
		Repositories: c.repositories,
		TxManager:    c.db,
		Storage:      c.fileStorage,
		Clock:        c.clock,
		Operations:   c.tracker,
		Dispatcher:   c.dispatcher,
		Logger:       c.logger,
	})
	if err != nil {
		return err
	}
	c.services = services
	return nil
}

// Close runs the registered teardowns in reverse order. It also releases
// whatever a failed Start managed to bring up.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed.CompareAndSwap(false, true) {
		return fmt.Errorf("container already closed")
	}
	c.ready.Store(false)
	if c.cancel != nil {
		c.cancel()
	}

	var errs []error
	for i := len(c.teardowns) - 1; i >= 0; i-- {
		step := c.teardowns[i]
		if err := step.fn(); err != nil {
			c.logger.Error("Teardown failed", zap.String("component", step.name), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", step.name, err))
			continue
		}
		c.logger.Debug("Component stopped", zap.String("component", step.name))
	}
	c.teardowns = nil

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("close container: %w", err)
	}
	c.logger.Info("Container closed")
	return nil
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components.
func (c *Container) Health() *HealthStatus {
	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}
	set := func(name string, healthy bool, message string) {
		status.Components[name] = ComponentHealth{Healthy: healthy, Message: message}
		if !healthy {
			status.Overall = false
		}
	}

	if c.db == nil {
		set("database", false, "not initialized")
	} else if err := c.db.Ping(); err != nil {
		set("database", false, fmt.Sprintf("ping failed: %v", err))
	} else {
		set("database", true, "")
	}

	if c.workers == nil {
		set("workers", false, "not initialized")
	} else {
		set("workers", c.workers.IsRunning(), fmt.Sprintf("worker count: %d", c.workers.Count()))
	}

	set("dispatcher", c.dispatcher != nil, "")
	set("session", c.store != nil, "")

	return status
}

// ResetSession restores the session store to the catalog seed, which is what
// a page reload does to the dashboard state. The audit trail is kept.
func (c *Container) ResetSession(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.store == nil || c.catalog == nil {
		return fmt.Errorf("container not started")
	}
	c.store.Reset(ctx, SeedFrom(c.catalog))
	return nil
}

// Services returns the application services.
func (c *Container) Services() *ServiceBundle {
	return c.services
}

// Repositories returns the repositories.
func (c *Container) Repositories() *RepositoryBundle {
	return c.repositories
}

// Operations returns the tracker of pending operations.
func (c *Container) Operations() *operation.Tracker {
	return c.tracker
}

// Dispatcher returns the event dispatcher.
func (c *Container) Dispatcher() dispatcher.Dispatcher {
	return c.dispatcher
}

// Clock returns the session clock.
func (c *Container) Clock() port.Clock {
	return c.clock
}

// Workers returns the worker manager.
func (c *Container) Workers() *worker.Manager {
	return c.workers
}

// Logger returns the root logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the configuration.
func (c *Container) Config() *config.Config {
	return c.config
}
