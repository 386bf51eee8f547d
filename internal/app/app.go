package app

import (
	"chosung_quiz_backend/internal/config"
	"chosung_quiz_backend/internal/controller"
	"chosung_quiz_backend/internal/repository"
	"chosung_quiz_backend/internal/service"
	"chosung_quiz_backend/pkg/configwatcher"
	"chosung_quiz_backend/pkg/database"
	"chosung_quiz_backend/pkg/logger"
	"chosung_quiz_backend/pkg/monitoring"
	"chosung_quiz_backend/pkg/security"
	"chosung_quiz_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	song    *repository.SongRepository
	lyric   *repository.LyricRepository
	quiz    *repository.QuizRepository
	export  *repository.ExportRepository
	session *repository.SessionRepository
}

type services struct {
	grading    *service.GradingService
	quiz       *service.QuizService
	scraper    *service.ScraperService
	classifier *service.ClassifierService
	auth       *service.AuthService
	storage    *service.StorageService
}

type controllers struct {
	stats  *controller.StatsController
	quiz   *controller.QuizController
	admin  *controller.AdminController
	health *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	sessionTTL := time.Duration(cfg.Quiz.SessionTTLMinutes) * time.Minute
	return &repositories{
		song:    repository.NewSongRepository(db),
		lyric:   repository.NewLyricRepository(db),
		quiz:    repository.NewQuizRepository(db),
		export:  repository.NewExportRepository(db),
		session: repository.NewSessionRepository(rdb, sessionTTL),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) (*services, error) {
	s := &services{}

	s.grading = service.NewGradingService()
	s.quiz = service.NewQuizService(repos.quiz, repos.session, s.grading, repos.song, repos.lyric, cfg.Quiz)
	s.scraper = service.NewScraperService(repos.song, repos.lyric, cfg.Scraper)
	s.classifier = service.NewClassifierService(repos.quiz, cfg.AI)
	s.auth = service.NewAuthService(cfg)

	storage, err := service.NewStorageService(cfg, repos.export)
	if err != nil {
		return nil, err
	}
	s.storage = storage

	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB, cfg *config.Config) *controllers {
	return &controllers{
		stats:  controller.NewStatsController(s.quiz),
		quiz:   controller.NewQuizController(s.quiz, cfg.Quiz.SessionTTLMinutes*60),
		admin:  controller.NewAdminController(s.auth, s.scraper, s.classifier, s.storage, s.quiz),
		health: controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	if cfg.RateLimit.MaxRequests > 0 {
		window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
		router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, window))
	}

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
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

	repos := app.initRepositories(db, rdb, cfg)
	services, err := app.initServices(repos, cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
	}
	app.services = services
	controllers := app.initControllers(services, db, cfg)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("chosung-quiz", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// Hot-reload the quiz tunables on config file changes.
	go configwatcher.WatchConfig("configs/config.yaml", func(cfg *config.Config) {
		a.services.quiz.UpdateConfig(cfg.Quiz)
		logger.Log.Info("Quiz config reloaded",
			zap.Int("questionCount", cfg.Quiz.QuestionCount))
	})

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
