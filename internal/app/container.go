// Package app provides the dependency injection container for the application.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hotelops/reklamacije/internal/domain"
	"github.com/hotelops/reklamacije/internal/infra/config"
	"github.com/hotelops/reklamacije/internal/infra/gitstore"
	"github.com/hotelops/reklamacije/internal/infra/logging"
	"github.com/hotelops/reklamacije/internal/infra/notify"
	"github.com/hotelops/reklamacije/internal/infra/sqlstore"
	"github.com/hotelops/reklamacije/internal/usecase"
)

// Config holds the application paths and runtime settings.
type Config struct {
	Location   *time.Location // Zone execution times are interpreted in
	DataDir    string         // Path to the .reklamacije directory
	ConfigPath string         // Path to the repository config file
	LogsDir    string         // Default log directory
}

// newConfig creates a Config for dataDir.
func newConfig(dataDir string, appConfig *domain.Config) Config {
	return Config{
		DataDir:    dataDir,
		ConfigPath: domain.RepoConfigPath(dataDir),
		LogsDir:    domain.LogsDir(dataDir),
		Location:   appConfig.Scheduler.Location(),
	}
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Tasks            domain.TaskRepository
	StoreInitializer domain.StoreInitializer
	Notifier         domain.Notifier
	Clock            domain.Clock
	Logger           domain.Logger
	ConfigLoader     domain.ConfigLoader
	ConfigManager    domain.ConfigManager

	// Pointer fields
	AppConfig *domain.Config
	Locks     *usecase.TemplateLocks
	worker    *notify.Worker
	closers   []io.Closer

	// Configuration
	Config Config
}

// New creates a new Container for the data directory.
func New(dataDir string) (*Container, error) {
	configLoader := config.NewLoader(dataDir)
	appConfig, err := configLoader.Load()
	if err != nil {
		appConfig = domain.NewDefaultConfig()
		appConfig.Warnings = append(appConfig.Warnings, fmt.Sprintf("config ignored: %v", err))
	}
	cfg := newConfig(dataDir, appConfig)

	logger := logging.FromConfig(appConfig.Log, cfg.LogsDir)

	var (
		taskRepo  domain.TaskRepository
		storeInit domain.StoreInitializer
		closers   = []io.Closer{logger}
	)
	switch appConfig.Store.Driver {
	case "", "sqlite":
		store, err := sqlstore.FromConfig(appConfig.Store, dataDir)
		if err != nil {
			return nil, err
		}
		taskRepo, storeInit = store, store
		closers = append(closers, store)
	case "git":
		store, err := gitstore.FromConfig(appConfig.Store, dataDir)
		if err != nil {
			return nil, err
		}
		taskRepo, storeInit = store, store
	default:
		return nil, fmt.Errorf("unknown store driver %q", appConfig.Store.Driver)
	}

	gateway, err := notify.GatewayFromConfig(appConfig.Notify, logger, &http.Client{Timeout: 15 * time.Second})
	if err != nil {
		appConfig.Warnings = append(appConfig.Warnings, "notifications logged only: "+err.Error())
		gateway = notify.LogGateway{Logger: logger}
	}
	worker := notify.NewWorker(gateway, logger, notify.Options{
		QueueSize:  appConfig.Notify.QueueSize,
		RatePerSec: appConfig.Notify.RatePerSec,
		RetryMax:   appConfig.Notify.RetryMax,
	})

	return &Container{
		Tasks:            taskRepo,
		StoreInitializer: storeInit,
		Notifier:         worker,
		Clock:            domain.RealClock{},
		Logger:           logger,
		ConfigLoader:     configLoader,
		ConfigManager:    config.NewManager(dataDir),
		AppConfig:        appConfig,
		Locks:            usecase.NewTemplateLocks(),
		worker:           worker,
		closers:          closers,
		Config:           cfg,
	}, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg Config, tasks domain.TaskRepository, storeInit domain.StoreInitializer, notifier domain.Notifier, clock domain.Clock, logger domain.Logger) *Container {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Container{
		Tasks:            tasks,
		StoreInitializer: storeInit,
		Notifier:         notifier,
		Clock:            clock,
		Logger:           logger,
		AppConfig:        domain.NewDefaultConfig(),
		Locks:            usecase.NewTemplateLocks(),
		Config:           cfg,
	}
}

// Start begins background notification delivery.
func (c *Container) Start(ctx context.Context) {
	if c.worker != nil {
		c.worker.Start(ctx)
	}
}

// Close drains pending notifications until ctx ends, then releases the
// store and log files.
func (c *Container) Close(ctx context.Context) error {
	if c.worker != nil {
		c.worker.Stop(ctx)
	}
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// UseCase factory methods

// InitStoreUseCase returns a new InitStore use case.
func (c *Container) InitStoreUseCase() *usecase.InitStore {
	return usecase.NewInitStore(c.StoreInitializer, c.ConfigManager)
}

// ProcessRecurringUseCase returns a new ProcessRecurring use case.
// All instances share the container's template locks.
func (c *Container) ProcessRecurringUseCase() *usecase.ProcessRecurring {
	return usecase.NewProcessRecurring(c.Tasks, c.Notifier, c.Clock, c.Logger, c.Config.Location, c.Locks)
}

// CreateTaskUseCase returns a new CreateTask use case.
func (c *Container) CreateTaskUseCase() *usecase.CreateTask {
	return usecase.NewCreateTask(c.Tasks, c.Notifier, c.Clock, c.Logger, c.ProcessRecurringUseCase())
}

// CreateTasksFromFileUseCase returns a new CreateTasksFromFile use case.
func (c *Container) CreateTasksFromFileUseCase() *usecase.CreateTasksFromFile {
	return usecase.NewCreateTasksFromFile(c.CreateTaskUseCase(), c.Config.Location)
}

// UpdateTaskUseCase returns a new UpdateTask use case.
func (c *Container) UpdateTaskUseCase() *usecase.UpdateTask {
	return usecase.NewUpdateTask(c.Tasks, c.Notifier, c.Clock, c.Logger)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Tasks, c.Clock, c.Logger)
}

// ShowTaskUseCase returns a new ShowTask use case.
func (c *Container) ShowTaskUseCase() *usecase.ShowTask {
	return usecase.NewShowTask(c.Tasks)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Tasks)
}

// ShowHistoryUseCase returns a new ShowHistory use case.
func (c *Container) ShowHistoryUseCase() *usecase.ShowHistory {
	return usecase.NewShowHistory(c.Tasks)
}

// ShowConfigTemplateUseCase returns a new ShowConfigTemplate use case.
func (c *Container) ShowConfigTemplateUseCase() *usecase.ShowConfigTemplate {
	return usecase.NewShowConfigTemplate()
}
