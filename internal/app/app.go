package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"archtutor_backend/internal/config"
	"archtutor_backend/internal/controller"
	"archtutor_backend/internal/repository"
	"archtutor_backend/internal/service"
	"archtutor_backend/pkg/database"
	"archtutor_backend/pkg/logger"
	"archtutor_backend/pkg/monitoring"
	"archtutor_backend/pkg/security"
	"archtutor_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	Redis  *redis.Client

	store repository.SessionStore
}

type repositories struct {
	sessions repository.SessionStore
	exams    *repository.ExamRepository
	chat     repository.ChatRepository
}

type services struct {
	ai        *service.AIService
	images    *service.ImageService
	documents *service.DocumentService
	hangman   *service.HangmanService
	wordle    *service.WordleService
	logic     *service.LogicService
	assembly  *service.AssemblyService
	games     *service.GameService
	exam      *service.ExamService
	chat      *service.ChatService
}

type controllers struct {
	game   *controller.GameController
	exam   *controller.ExamController
	chat   *controller.ChatController
	health *controller.HealthController
}

func (a *App) initRepositories(cfg *config.Config, rdb *redis.Client) *repositories {
	var chat repository.ChatRepository
	if rdb != nil {
		chat = repository.NewRedisChatRepository(rdb, cfg.Chat.SessionExpire)
	} else {
		chat = repository.NewMemoryChatRepository(cfg.Chat.SessionExpire)
	}

	return &repositories{
		sessions: repository.NewMemorySessionStore(),
		exams:    repository.NewExamRepository(),
		chat:     chat,
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.ai = service.NewAIService(cfg.AI)
	s.images = service.NewImageService(cfg.Serper)
	s.documents = service.NewDocumentService(service.NewStorageProvider(cfg))

	s.hangman = service.NewHangmanService(repos.sessions, s.ai, cfg.Games.MaxHangmanAttempts)
	s.wordle = service.NewWordleService(repos.sessions, s.ai, cfg.Games.MaxWordleAttempts)
	s.logic = service.NewLogicService(repos.sessions, s.ai)
	s.assembly = service.NewAssemblyService(repos.sessions, s.ai, s.ai)
	s.games = service.NewGameService(repos.sessions, s.hangman, s.wordle, s.logic, s.assembly)

	s.exam = service.NewExamService(repos.exams, s.ai, cfg.Exam)
	s.chat = service.NewChatService(repos.chat, s.ai, s.images, s.documents, cfg.Chat)

	return s
}

func (a *App) initControllers(s *services, rdb *redis.Client) *controllers {
	return &controllers{
		game:   controller.NewGameController(s.games, s.hangman, s.wordle, s.logic, s.assembly),
		exam:   controller.NewExamController(s.exam),
		chat:   controller.NewChatController(s.chat),
		health: controller.NewHealthController(rdb),
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

// startBackgroundTasks runs the periodic session sweep so abandoned
// games age out of memory.
func (a *App) startBackgroundTasks(cfg *config.Config) {
	interval := time.Duration(cfg.Games.SweepIntervalMinutes) * time.Minute
	maxAge := time.Duration(cfg.Games.RetentionHours) * time.Hour

	go func() {
		ticker := time.NewTicker(interval)
		for range ticker.C {
			removed := a.store.Sweep(maxAge)
			monitoring.GamesActive.Set(float64(a.store.Len()))
			if removed > 0 {
				logger.Log.Info("session sweep", zap.Int("removed", removed))
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// Chat falls back to in-memory history; games and exams do not
		// need Redis at all.
		logger.Log.Warn("Redis unavailable, chat history will not survive restarts", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		Redis:  rdb,
	}

	repos := app.initRepositories(cfg, rdb)
	app.store = repos.sessions
	services := app.initServices(repos, cfg)
	controllers := app.initControllers(services, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("archtutor-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers)

	app.startBackgroundTasks(cfg)

	return app
}

// ApplyConfig swaps in a reloaded configuration. Only settings read
// per-request take effect; listener address and wiring need a restart.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	logger.Log.Info("configuration reloaded")
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
