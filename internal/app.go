// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "user-service/internal/api"
	"user-service/internal/api/handler"
	"user-service/internal/config"
	"user-service/internal/domain"
	"user-service/internal/notify"
	"user-service/internal/repository"
	"user-service/internal/repository/memory"
	"user-service/internal/repository/sqlstore"
	"user-service/internal/service"
	"user-service/internal/util"
	"user-service/internal/worker"
	"user-service/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB // nil when the in-memory store is used

	// Repositories
	UserRepository repository.UserRepository

	// Services
	UserService service.UserService

	// Deferred work
	TaskRunner *worker.Runner

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components. A nil cfg is loaded from the environment.
func (app *Application) Initialize(ctx context.Context, cfg *config.AppConfig) error {
	// 1. Load Configuration
	if cfg == nil {
		loaded, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger(cfg.LogLevel)
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.", "db_driver", cfg.DB.Driver)

	// 3. Connect to the store and initialize repositories
	var (
		dbBeginner db.DBTxBeginner
		dbExecutor repository.DBExecutor
		beginTx    db.BeginTxFunc
	)
	if cfg.DB.Driver == config.DriverMemory {
		app.UserRepository = memory.NewUserRepository()
		dbExecutor = &memory.Session{}
		beginTx = memory.BeginTx
		app.Logger.Info("Using in-memory user store.")
	} else {
		database, err := db.Open(cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		app.DB = database
		if err := db.CreateSchema(ctx, app.DB); err != nil {
			return fmt.Errorf("failed to prepare database schema: %w", err)
		}
		app.UserRepository = sqlstore.NewUserRepository(app.DB)
		dbBeginner = app.DB
		dbExecutor = app.DB
		beginTx = db.BeginTx
		app.Logger.Info("Database connection established.")
	}

	if cfg.SeedFixtures {
		if err := app.seed(ctx, dbExecutor); err != nil {
			return err
		}
	}

	// 4. Initialize Services
	app.UserService = service.NewUserService(
		dbBeginner,
		dbExecutor,
		app.UserRepository,
		beginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.Logger.Info("Services initialized.")

	// 5. Initialize the deferred task runner
	app.TaskRunner = worker.NewRunner(cfg.TaskPoolSize, app.Logger)
	welcome := notify.NewWelcomeScheduler(
		app.TaskRunner,
		notify.NewEmailNotifier(cfg.NotifyDelay, app.Logger),
		app.Logger,
	)
	app.Logger.Info("Task runner started.", "pool_size", cfg.TaskPoolSize)

	// 6. Initialize HTTP Handlers and Router
	userHandler := handler.NewUserHandler(app.UserService, welcome, app.Logger)
	itemHandler := handler.NewItemHandler(app.Logger)
	app.HTTPHandler = router.NewRouter(router.RouterConfig{
		MaxConcurrentRequests: cfg.MaxConcurrentRequests,
		Backlog:               cfg.RequestBacklog,
		BacklogTimeout:        cfg.BacklogTimeout,
	}, userHandler, itemHandler, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// seed inserts the fixture users into an empty store.
func (app *Application) seed(ctx context.Context, q repository.DBExecutor) error {
	existing, err := app.UserRepository.ListUsers(ctx, q)
	if err != nil {
		return fmt.Errorf("failed to check store before seeding: %w", err)
	}
	if len(existing) > 0 {
		app.Logger.Info("Store already populated, skipping fixtures.", "users", len(existing))
		return nil
	}
	for _, name := range repository.FixtureNames {
		if err := app.UserRepository.CreateUser(ctx, q, domain.NewUser(name, nil)); err != nil {
			return fmt.Errorf("failed to seed user %q: %w", name, err)
		}
	}
	app.Logger.Info("Fixture users seeded.", "users", len(repository.FixtureNames))
	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.TaskRunner != nil {
		if err := app.TaskRunner.Shutdown(ctx); err != nil {
			app.Logger.Error("Deferred tasks did not finish in time", "error", err)
		} else {
			app.Logger.Info("Deferred tasks drained.")
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
