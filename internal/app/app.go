package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skill_assess_backend/internal/config"
	"skill_assess_backend/internal/controller"
	"skill_assess_backend/internal/repository"
	"skill_assess_backend/internal/service"
	"skill_assess_backend/pkg/database"
	"skill_assess_backend/pkg/logger"
	"skill_assess_backend/pkg/monitoring"
	"skill_assess_backend/pkg/security"
	"skill_assess_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user         *repository.UserRepository
	skill        *repository.SkillRepository
	question     *repository.QuestionRepository
	attempt      *repository.AttemptRepository
	registration *repository.RegistrationRepository
}

type services struct {
	ai             *service.AIService
	generator      service.QuestionGenerator
	videoSearch    *service.VideoSearchService
	storage        *service.StorageService
	recommendation *service.RecommendationService
	questionBank   *service.QuestionBankService
	test           *service.TestService
	skill          *service.SkillService
}

type controllers struct {
	assessment *controller.AssessmentController
	skill      *controller.SkillController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig applies a hot-reloaded config to every registered
// consumer.
func (a *App) ReloadConfig(cfg *config.Config) {
	a.Config = cfg
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
	logger.Log.Info("configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		skill:        repository.NewSkillRepository(db),
		question:     repository.NewQuestionRepository(db),
		attempt:      repository.NewAttemptRepository(db),
		registration: repository.NewRegistrationRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.generator = service.NewQuestionGenerator(cfg.AI)
	if ai, ok := s.generator.(*service.AIService); ok {
		s.ai = ai
	}
	s.videoSearch = service.NewVideoSearchService(cfg.Search)

	s.recommendation = service.NewRecommendationService(
		s.videoSearch,
		rdb,
		cfg.Search.MaxResults,
		cfg.Search.CacheTTL,
	)

	s.questionBank = service.NewQuestionBankService(repos.skill, repos.question, s.generator, s.storage)
	s.test = service.NewTestService(
		repos.skill,
		repos.question,
		repos.attempt,
		repos.registration,
		s.recommendation,
		cfg.Assessment,
	)
	s.skill = service.NewSkillService(repos.skill)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		assessment: controller.NewAssessmentController(s.questionBank, s.test),
		skill:      controller.NewSkillController(s.skill),
		health:     controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks runs the attempt reaper so expired unsubmitted
// attempts disappear without store-level TTL indexes.
func (a *App) startBackgroundTasks(s *services) {
	go func() {
		ticker := time.NewTicker(a.Config.Assessment.ReaperInterval)
		for range ticker.C {
			if err := s.test.ReapExpired(); err != nil {
				logger.Log.Error("attempt reaper error", zap.Error(err))
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	app.RegisterConfigCallback(func(c *config.Config) {
		if services.ai != nil {
			services.ai.UpdateConfig(c.AI)
		}
		services.videoSearch.UpdateConfig(c.Search)
	})

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("skill-assess", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
