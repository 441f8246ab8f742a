package container

import (
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/garyjia/closing-dashboard/internal/application/dispatcher"
	"github.com/garyjia/closing-dashboard/internal/application/operation"
	"github.com/garyjia/closing-dashboard/internal/application/port"
	"github.com/garyjia/closing-dashboard/internal/application/service"
	"github.com/garyjia/closing-dashboard/internal/config"
	"github.com/garyjia/closing-dashboard/internal/infrastructure/catalog"
	"github.com/garyjia/closing-dashboard/internal/infrastructure/persistence/memory"
	"github.com/garyjia/closing-dashboard/internal/infrastructure/persistence/repository"
	"github.com/garyjia/closing-dashboard/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/closing-dashboard/internal/infrastructure/worker"
	"github.com/garyjia/closing-dashboard/pkg/utils"
)

// RepositoryBundle groups all repositories for convenient access.
type RepositoryBundle struct {
	BusinessUnit port.BusinessUnitRepository
	Report       port.ReportRepository
	Task         port.TaskRepository
	Consolidated port.ConsolidatedRepository
	Decision     port.DecisionRepository
}

// ServiceBundle groups all application services.
type ServiceBundle struct {
	Dashboard     service.DashboardService
	Report        service.ReportService
	Task          service.TaskService
	Consolidation service.ConsolidationService
	Management    service.ManagementService
	Chat          service.ChatService
	Export        service.ExportService
	History       service.HistoryService
}

// ServiceDeps holds what ProvideServices needs.
type ServiceDeps struct {
	Config       *config.Config
	Catalog      *catalog.Catalog
	Repositories *RepositoryBundle
	TxManager    port.TransactionManager
	Storage      port.FileStorage
	Clock        port.Clock
	Operations   service.Operations
	Dispatcher   dispatcher.Dispatcher
	Logger       *zap.Logger
}

// SeedFrom turns the catalog into the initial session state.
func SeedFrom(cat *catalog.Catalog) memory.Seed {
	return memory.Seed{
		BusinessUnits: cat.BusinessUnits,
		Tasks:         cat.Tasks,
		Consolidated:  cat.Consolidated,
		Reports:       cat.ReportsFor,
	}
}

// ProvideDatabase opens the audit database and applies migrations.
func ProvideDatabase(cfg *config.DatabaseConfig, logger *zap.Logger) (*sqlite.DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return sqlite.Open(sqlite.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
}

// ProvideRepositories builds the session repositories over store and the
// audit repository over db.
func ProvideRepositories(store *memory.Store, db *sqlite.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	return &RepositoryBundle{
		BusinessUnit: store.BusinessUnits(),
		Report:       store.Reports(),
		Task:         store.Tasks(),
		Consolidated: store.Consolidated(),
		Decision:     repository.NewDecisionRepository(db, logger),
	}, nil
}

// ProvideDispatcher creates the event dispatcher.
func ProvideDispatcher(logger *zap.Logger) dispatcher.Dispatcher {
	return dispatcher.NewDispatcher(dispatcher.WithLogger(utils.NewKVLogger(logger.Named("dispatcher"))))
}

// ExportURL is the download path of a consolidated period.
func ExportURL(id, format string) string {
	return fmt.Sprintf("/api/consolidated/%s/export.%s", url.PathEscape(id), format)
}

// ProvideServices creates all application services and subscribes the
// history recorder to the dispatcher.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil || deps.Config == nil || deps.Catalog == nil || deps.Repositories == nil {
		return nil, fmt.Errorf("service dependencies are incomplete")
	}

	cfg := deps.Config
	repos := deps.Repositories
	logger := utils.NewKVLogger(deps.Logger.Named("service"))
	period := service.Period{ActiveYear: cfg.Closing.ActiveYear}
	delays := service.Delays{
		Confirm: cfg.Operation.ConfirmDelay,
		Chat:    cfg.Operation.ChatDelay,
	}

	history := service.NewHistoryService(repos.Decision, deps.TxManager, logger)
	service.RegisterSubscribers(deps.Dispatcher, history, logger)

	return &ServiceBundle{
		Dashboard: service.NewDashboardService(repos.BusinessUnit, period),
		Report: service.NewReportService(repos.BusinessUnit, repos.Report, deps.Clock, period,
			deps.Dispatcher, deps.Catalog.ValidationMessages, logger),
		Task:          service.NewTaskService(repos.Task, deps.Clock, deps.Operations, delays, deps.Dispatcher, logger),
		Consolidation: service.NewConsolidationService(repos.Consolidated, ExportURL),
		Management:    service.NewManagementService(deps.Catalog.Overviews),
		Chat:          service.NewChatService(deps.Catalog.Banks, deps.Operations, delays, deps.Clock, deps.Dispatcher, logger),
		Export: service.NewExportService(repos.Consolidated, repos.BusinessUnit, repos.Task, deps.Storage,
			deps.Clock, period, cfg.Export.CompanyName, logger),
		History: history,
	}, nil
}

// ProvideWorkers creates the worker manager with the operation sweeper.
func ProvideWorkers(cfg *config.OperationConfig, tracker *operation.Tracker, clock port.Clock, logger *zap.Logger) *worker.Manager {
	manager := worker.NewManager(logger)
	manager.Register(worker.NewOperationSweeper(worker.SweeperConfig{
		Interval:  cfg.SweepInterval,
		Retention: cfg.Retention,
	}, tracker, clock, logger))
	return manager
}
