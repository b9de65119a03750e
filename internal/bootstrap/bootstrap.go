package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/consolahealth/studenthealth/internal/app/controllers"
	appMigrations "github.com/consolahealth/studenthealth/internal/app/migrations"
	appRepos "github.com/consolahealth/studenthealth/internal/app/repositories"
	appRoutes "github.com/consolahealth/studenthealth/internal/app/routes"
	appServices "github.com/consolahealth/studenthealth/internal/app/services"
	"github.com/consolahealth/studenthealth/internal/config"
	"github.com/consolahealth/studenthealth/internal/db"
	appMiddleware "github.com/consolahealth/studenthealth/internal/middleware"
	"github.com/consolahealth/studenthealth/internal/pkg/logger"
	"github.com/consolahealth/studenthealth/internal/seed"
)

// Pinger reports whether the database is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds the wired application components
type Dependencies struct {
	Services               *appServices.Services
	StudentController      *appControllers.StudentController
	HealthRecordController *appControllers.HealthRecordController
	DashboardController    *appControllers.DashboardController
	Repos                  *appRepos.Repositories
	DB                     Pinger
	Logger                 zerolog.Logger
}

// LoadConfigAndSetupLogger reads configs/config.yaml and .env, then configures the
// global logger from the logging section.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath, ".env")
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects, applies the embedded migrations and, when enabled, loads
// the demo data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, appMigrations.Embedded())
	if err := migrator.Run(context.Background()); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if cfg.Seed.Demo {
		repos := appRepos.NewRepositories(database)
		if err := seed.CreateDemoData(context.Background(), repos.StudentRepository, repos.HealthRecordRepository, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create demo data, proceeding anyway...")
		}
	}

	return database, nil
}

// BuildDependencies wires repositories, services and controllers
func BuildDependencies(database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	if err := appMiddleware.RegisterBindingValidators(); err != nil {
		return nil, fmt.Errorf("failed to register binding validators: %w", err)
	}

	deps := &Dependencies{Logger: lgr, DB: database}
	deps.Repos = appRepos.NewRepositories(database)
	deps.Services = appServices.NewServices(deps.Repos)

	deps.StudentController = appControllers.NewStudentController(deps.Services.Students, deps.Services.HealthRecords)
	deps.HealthRecordController = appControllers.NewHealthRecordController(deps.Services.HealthRecords)
	deps.DashboardController = appControllers.NewDashboardController(deps.Services.Dashboard)

	return deps, nil
}

// SetupRouter builds the gin engine with middleware, API routes and probes
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestID(), appMiddleware.RequestLogger())

	appRoutes.SetupRouter(router,
		deps.StudentController,
		deps.HealthRecordController,
		deps.DashboardController,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := deps.DB.Ping(ctx); err != nil {
			lgr.Warn().Err(err).Msg("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
	})

	return router
}
