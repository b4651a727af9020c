package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/cohort-api/api/swagger"
	"github.com/noah-isme/cohort-api/internal/handler"
	"github.com/noah-isme/cohort-api/internal/middleware"
	"github.com/noah-isme/cohort-api/internal/repository"
	"github.com/noah-isme/cohort-api/internal/service"
	"github.com/noah-isme/cohort-api/pkg/cache"
	"github.com/noah-isme/cohort-api/pkg/config"
	"github.com/noah-isme/cohort-api/pkg/database"
	"github.com/noah-isme/cohort-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/cohort-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/cohort-api/pkg/middleware/requestid"
)

// @title Cohort API
// @version 1.0.0
// @description Programs, cohorts, mentors and students with a consistent mentor to cohort assignment workflow
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	baseStore, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logr.Fatal("failed to open store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer closeStore() //nolint:errcheck
	store := service.InstrumentStore(baseStore, metrics)

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, eligibility cache disabled", zap.Error(err))
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled && redisClient != nil)

	policy := service.PolicyFromConfig(cfg.Rules)
	engine := service.NewRelationshipEngine(logr, metrics)
	programs := service.NewProgramService(store, nil, logr, metrics)
	cohorts := service.NewCohortService(store, engine, cacheSvc, policy, nil, logr, metrics)
	mentors := service.NewMentorService(store, engine, cacheSvc, policy, nil, logr, metrics)
	students := service.NewStudentService(store, policy, nil, logr, metrics)
	assignments := service.NewAssignmentService(store, engine, cacheSvc, nil, logr, metrics)
	lifecycle := service.NewLifecycleService(programs, cohorts, mentors, students)
	exports := service.NewExportService(store, logr, nil, nil)

	readiness := map[string]handler.Pinger{"store": store}
	if redisClient != nil {
		readiness["cache"] = cacheRepo
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics, "/metrics"))
	r.Use(middleware.ResponseMeta())

	handler.RegisterSystemRoutes(r, handler.NewSystemHandler(metrics, readiness), cfg.Metrics.Enabled)
	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Programs:    handler.NewProgramHandler(programs),
		Cohorts:     handler.NewCohortHandler(cohorts, assignments, exports),
		Mentors:     handler.NewMentorHandler(mentors, assignments),
		Students:    handler.NewStudentHandler(students),
		Assignments: handler.NewAssignmentHandler(assignments),
		Lifecycle:   handler.NewLifecycleHandler(lifecycle),
	})

	if cfg.Docs.Enabled {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting",
		"addr", addr,
		"env", cfg.Env,
		"store", cfg.Store.Driver,
		"capacity_mode", policy.CapacityMode,
		"restore_mode", policy.RestoreMode,
	)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// openStore builds the entity store selected by STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, func() error, error) {
	var (
		db  *sqlx.DB
		err error
	)
	switch cfg.Store.Driver {
	case config.StorePostgres:
		db, err = database.NewPostgres(cfg.Database)
	case config.StoreSQLite:
		db, err = database.NewSQLite(cfg.SQLite)
	default:
		return repository.NewMemoryStore(), func() error { return nil }, nil
	}
	if err != nil {
		return nil, nil, err
	}

	store := repository.NewSQLStore(db)
	if cfg.Store.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
	}
	return store, db.Close, nil
}
