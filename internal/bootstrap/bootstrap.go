package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/assigntrack/internal/app/auth"
	appControllers "github.com/yigit/assigntrack/internal/app/controllers"
	appMigrations "github.com/yigit/assigntrack/internal/app/migrations"
	appRepos "github.com/yigit/assigntrack/internal/app/repositories"
	"github.com/yigit/assigntrack/internal/app/repositories/memory"
	appRoutes "github.com/yigit/assigntrack/internal/app/routes"
	appServices "github.com/yigit/assigntrack/internal/app/services"
	"github.com/yigit/assigntrack/internal/config"
	"github.com/yigit/assigntrack/internal/db"
	appMiddleware "github.com/yigit/assigntrack/internal/middleware"
	pkgAuth "github.com/yigit/assigntrack/internal/pkg/auth"
	"github.com/yigit/assigntrack/internal/pkg/filestorage"
	"github.com/yigit/assigntrack/internal/pkg/logger"
	"github.com/yigit/assigntrack/internal/pkg/validation"
	"github.com/yigit/assigntrack/internal/pkg/websocket"
	"github.com/yigit/assigntrack/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store             appRepos.Store
	Database          *db.PostgresDB // nil for the memory driver
	FileStorage       filestorage.FileStorage
	Hub               *websocket.Hub
	JWTService        *pkgAuth.JWTService
	AuthzService      *appAuth.AuthorizationService
	AuthService       appServices.AuthService
	CourseService     appServices.CourseService
	AssignmentService appServices.AssignmentService
	GroupService      appServices.GroupService
	SubmissionService appServices.SubmissionService
	DashboardService  appServices.DashboardService
	Controllers       *appRoutes.Controllers
	AuthMiddleware    *appMiddleware.AuthMiddleware
	Logger            zerolog.Logger
}

// Close releases the database pool, if any.
func (d *Dependencies) Close() {
	if d.Database != nil {
		d.Database.Close()
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.EqualFold(cfg.Logging.Format, "text"),
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStore opens the configured store, runs migrations and seeds demo data.
// The returned PostgresDB is nil for the memory driver.
func SetupStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (appRepos.Store, *db.PostgresDB, error) {
	var (
		store    appRepos.Store
		database *db.PostgresDB
	)

	switch cfg.Database.Driver {
	case config.DriverMemory:
		lgr.Warn().Msg("Using in-memory store, data will not survive a restart")
		store = memory.NewStore()
	default:
		lgr.Info().Msg("Establishing database connection...")
		var err error
		database, err = db.NewPostgresDB(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, nil, err
		}
		lgr.Info().Msg("Database connection successfully established.")

		if cfg.Database.AutoMigrate {
			lgr.Info().Msg("Running database migrations...")
			migrateCtx, cancel := context.WithTimeout(ctx, time.Minute)
			err := appMigrations.NewMigrator(database.Pool).Up(migrateCtx)
			cancel()
			if err != nil {
				lgr.Error().Err(err).Msg("Database migration error")
				database.Close()
				return nil, nil, fmt.Errorf("database migrations failed: %w", err)
			}
			lgr.Info().Msg("Database migrations successfully applied.")
		}

		store = appRepos.NewPostgresStore(database)
	}

	if cfg.Seed.Enabled {
		opts := seed.Options{
			LecturerEmail:    cfg.Seed.LecturerEmail,
			LecturerPassword: cfg.Seed.LecturerPassword,
		}
		if err := seed.CreateDefaultData(ctx, store, opts, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return store, database, nil
}

// SetupFileStorage builds the configured upload backend.
func SetupFileStorage(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (filestorage.FileStorage, error) {
	switch cfg.Storage.Type {
	case config.StorageSupabase:
		lgr.Info().Str("bucket", cfg.Storage.SupabaseBucket).Msg("Using supabase file storage")
		return filestorage.NewSupabaseStorage(cfg.Storage.SupabaseURL, cfg.Storage.SupabaseKey, cfg.Storage.SupabaseBucket), nil
	case config.StorageB2:
		b2, err := filestorage.NewB2Storage(ctx, cfg.Storage.B2AccountID, cfg.Storage.B2AppKey, cfg.Storage.B2Bucket)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to initialize b2 storage")
			return nil, err
		}
		lgr.Info().Str("bucket", cfg.Storage.B2Bucket).Msg("Using b2 file storage")
		return b2, nil
	default:
		local, err := filestorage.NewLocalStorage(cfg.Storage.LocalPath, cfg.Storage.BaseURL)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to initialize file storage")
			return nil, fmt.Errorf("failed to initialize file storage: %w", err)
		}
		lgr.Info().Str("path", local.BasePath()).Msg("Using local file storage")
		return local, nil
	}
}

// BuildDependencies initializes services, controllers and middleware on top of a store.
func BuildDependencies(cfg *config.Config, store appRepos.Store, files filestorage.FileStorage, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{
		Store:       store,
		FileStorage: files,
		Logger:      lgr,
	}

	deps.Hub = websocket.NewHub(lgr)
	deps.AuthzService = appAuth.NewAuthorizationService(store)
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenTTL(),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	clock := appServices.SystemClock
	deps.AuthService = appServices.NewAuthService(store, deps.JWTService)
	deps.CourseService = appServices.NewCourseService(store, deps.AuthzService)
	deps.AssignmentService = appServices.NewAssignmentService(store, deps.AuthzService, files)
	deps.GroupService = appServices.NewGroupService(store, deps.AuthzService, deps.Hub, clock)
	deps.SubmissionService = appServices.NewSubmissionService(store, deps.AuthzService, files, deps.Hub, clock)
	deps.DashboardService = appServices.NewDashboardService(store, deps.AuthzService, clock)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.Controllers = &appRoutes.Controllers{
		Auth:       appControllers.NewAuthController(deps.AuthService),
		Course:     appControllers.NewCourseController(deps.CourseService),
		Assignment: appControllers.NewAssignmentController(deps.AssignmentService),
		Group:      appControllers.NewGroupController(deps.GroupService),
		Submission: appControllers.NewSubmissionController(deps.SubmissionService, maxUploadBytes(cfg)),
		Dashboard:  appControllers.NewDashboardController(deps.DashboardService),
		Realtime:   appControllers.NewRealtimeController(deps.Hub, deps.AssignmentService),
	}

	return deps
}

func maxUploadBytes(cfg *config.Config) int64 {
	return int64(cfg.Storage.MaxUploadMB) << 20
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	switch strings.ToLower(cfg.Server.Mode) {
	case "production":
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := validation.RegisterGinValidators(); err != nil {
		lgr.Error().Err(err).Msg("Failed to register custom validators")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger())
	router.MaxMultipartMemory = maxUploadBytes(cfg)

	corsConfig := cors.DefaultConfig()
	origins := cfg.CORSOrigins()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	// Uploaded files are only served by the API for the local backend
	if local, ok := deps.FileStorage.(*filestorage.LocalStorage); ok {
		router.Static("/uploads", local.BasePath())
		lgr.Info().Str("path", local.BasePath()).Msg("Static file serving configured for uploads directory")
	}

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
