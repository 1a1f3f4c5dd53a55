package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"myHairMatch/app/echo-server/router"
	"myHairMatch/business/catalog"
	"myHairMatch/business/compat"
	"myHairMatch/business/eco"
	"myHairMatch/business/recommend"
	"myHairMatch/business/rerank"
	"myHairMatch/business/scoring"
	userService "myHairMatch/business/user"
	"myHairMatch/internal/middleware"
	"myHairMatch/internal/repository/gemini"
	psqlRepo "myHairMatch/internal/repository/postgres"
	redisRepo "myHairMatch/internal/repository/redis"
	"myHairMatch/internal/repository/reviews"
	"myHairMatch/internal/repository/safety"
	"myHairMatch/internal/rest"
	"myHairMatch/pkg/config"
	"myHairMatch/pkg/database"
	redisdb "myHairMatch/pkg/database/redis"
	"myHairMatch/pkg/logger"
	"myHairMatch/pkg/metrics"
	"myHairMatch/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting MyHairMatch", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)
	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Redis is the hot cache for latest results and review summaries; the
	// service degrades to Postgres-only when it is down.
	var resultCache *redisRepo.ResultCacheRepository
	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, running without result cache", "error", err)
	} else {
		resultCache = redisRepo.NewResultCacheRepository(redisClient)
	}

	// Init validate
	validate := validator.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	profileRepo := psqlRepo.NewProfileRepository(db)
	catalogRepo := psqlRepo.NewCatalogRepository(db)
	resultRepo := psqlRepo.NewRecommendationRepository(db)
	scienceRepo := psqlRepo.NewScienceRepository(db)
	scoringCfgRepo := psqlRepo.NewScoringConfigRepository(db)

	// Optional external collaborators
	var safetyAnalyzer scoring.SafetyAnalyzer
	if cfg.Safety.BaseURL != "" {
		safetyAnalyzer = safety.NewSafetyRepository(safety.SafetyConfig{
			SafetyBaseURL: cfg.Safety.BaseURL,
			SafetyAPIKey:  cfg.Safety.APIKey,
		})
	}

	var reviewFetcher scoring.ReviewFetcher
	if cfg.Reviews.BaseURL != "" {
		var reviewCache reviews.ReviewCache
		if resultCache != nil {
			reviewCache = resultCache
		}
		reviewFetcher = reviews.NewReviewsRepository(reviews.ReviewsConfig{
			ReviewsBaseURL: cfg.Reviews.BaseURL,
		}, reviewCache)
	}

	var rankOracle rerank.RankOracle
	if cfg.Gemini.APIKey != "" {
		oracle, err := gemini.NewGeminiRepository(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			logger.Warn("Gemini unavailable, re-ranking runs in mock mode", "error", err)
		} else {
			rankOracle = oracle
			defer oracle.Close()
		}
	} else {
		logger.Info("No Gemini API key configured, re-ranking runs in mock mode")
	}

	// Init pipeline engines
	scoringCfg := scoring.DefaultConfig()
	scoringCfg.BrandBlacklist = cfg.Pipeline.BrandBlacklist
	scoringEngine := scoring.NewEngine(scoringCfg, safetyAnalyzer, reviewFetcher).
		WithConfigRepository(scoringCfgRepo)

	rerankCfg := rerank.DefaultConfig()
	rerankCfg.Timeout = time.Duration(cfg.Gemini.TimeoutSeconds) * time.Second
	reranker := rerank.NewService(rankOracle, rerankCfg)

	ecoScorer := eco.NewScorer(eco.DefaultConfig())
	compatEngine := compat.NewEngine(compat.DefaultConfig(), nil)

	recommendCfg := recommend.DefaultConfig()
	recommendCfg.TopK = cfg.Pipeline.TopK
	recommendCfg.EnrichBatchSize = cfg.Pipeline.EnrichBatchSize
	recommendCfg.PersistBatchSize = cfg.Pipeline.PersistBatchSize
	recommendCfg.ShareCodeKey = cfg.App.ShareCodeKey

	sources := map[string]recommend.CatalogSource{
		"postgres": catalogRepo,
	}

	var cache recommend.ResultCache
	var invalidator userService.ResultInvalidator
	if resultCache != nil {
		cache = resultCache
		invalidator = resultCache
	}

	// Init service
	usrService := userService.NewUserService(userRepo, profileRepo, invalidator, validate)
	catalogService := catalog.NewCatalogService(catalogRepo, scienceRepo)
	recommendService := recommend.NewService(
		sources,
		scoringEngine,
		reranker,
		ecoScorer,
		compatEngine,
		scienceRepo,
		safetyAnalyzer,
		reviewFetcher,
		catalogRepo,
		resultRepo,
		profileRepo,
		cache,
		recommendCfg,
	)

	// Init handler
	userHandler := rest.NewUserHandler(usrService)
	profileHandler := rest.NewProfileHandler(usrService)
	productHandler := rest.NewProductHandler(catalogService)
	recommendHandler := rest.NewRecommendHandler(recommendService)
	scoringAdminHandler := rest.NewScoringAdminHandler(scoringCfgRepo)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	// Auth middleware
	authRequired := middleware.AuthMiddleware()
	adminOnly := middleware.AdminOnly()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupUserRoutes(api, userHandler, authRequired, adminOnly)
	router.SetupProfileRoutes(api, profileHandler, authRequired)
	router.SetupProductRoutes(api, productHandler, recommendHandler, authRequired, adminOnly)
	router.SetupRecommendRoutes(api, recommendHandler, authRequired, adminOnly)
	router.SetupScoringAdminRoutes(api, scoringAdminHandler, authRequired, adminOnly)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if redisClient != nil {
		if err := redisdb.CloseRedisClient(redisClient); err != nil {
			logger.Error("Redis shutdown error", "error", err)
		}
	}

	logger.Info("Server stopped")
}
