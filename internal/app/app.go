package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnguard_backend/internal/config"
	"learnguard_backend/internal/controller"
	"learnguard_backend/internal/repository"
	"learnguard_backend/internal/service"
	"learnguard_backend/internal/util"
	"learnguard_backend/pkg/configwatcher"
	"learnguard_backend/pkg/database"
	"learnguard_backend/pkg/logger"
	"learnguard_backend/pkg/monitoring"
	"learnguard_backend/pkg/security"
	"learnguard_backend/pkg/tracing"

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
	user       *repository.UserRepository
	course     *repository.CourseRepository
	content    *repository.ContentRepository
	session    *repository.SessionRepository
	progress   *repository.ProgressRepository
	assignment *repository.AssignmentRepository
	quiz       *repository.QuizRepository
}

type services struct {
	auth      *service.AuthService
	storage   *service.StorageService
	content   *service.ContentService
	session   *service.SessionService
	integrity *service.IntegrityService
	progress  *service.ProgressService
	report    *service.ReportService
}

type controllers struct {
	auth      *controller.AuthController
	course    *controller.CourseController
	content   *controller.ContentController
	session   *controller.SessionController
	integrity *controller.IntegrityController
	progress  *controller.ProgressController
	report    *controller.ReportController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// watchConfig 热加载引擎与限流配置，其余配置项仍需重启生效
func (a *App) watchConfig() {
	go configwatcher.WatchConfig("configs/config.yaml", a.Config, func(raw interface{}) {
		newCfg, ok := raw.(*config.Config)
		if !ok {
			return
		}
		a.Config.Engine = newCfg.Engine
		a.Config.RateLimit = newCfg.RateLimit
		for _, cb := range a.configCallbacks {
			cb(newCfg)
		}
		logger.Log.Info("Config reloaded",
			zap.Int("sweepWorkers", newCfg.Engine.SweepWorkers),
			zap.Int("cacheTTLMinutes", newCfg.Engine.CacheTTLMinutes))
	})
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		course:     repository.NewCourseRepository(db),
		content:    repository.NewContentRepository(db),
		session:    repository.NewSessionRepository(db),
		progress:   repository.NewProgressRepository(db),
		assignment: repository.NewAssignmentRepository(db),
		quiz:       repository.NewQuizRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.content = service.NewContentService(repos.content, repos.course, s.storage, cfg)
	s.session = service.NewSessionService(repos.session, repos.content)
	s.integrity = service.NewIntegrityService(repos.session, repos.content, cfg, rdb)
	s.progress = service.NewProgressService(repos.content, repos.progress, repos.assignment, repos.session)
	s.report = service.NewReportService(repos.course, repos.assignment, repos.session, repos.quiz, s.progress, s.integrity)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth),
		course:    controller.NewCourseController(repos.course, s.progress),
		content:   controller.NewContentController(s.content),
		session:   controller.NewSessionController(s.session),
		integrity: controller.NewIntegrityController(s.integrity),
		progress:  controller.NewProgressController(s.progress),
		report:    controller.NewReportController(s.report, repos.course),
		health:    controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, database.ShouldMigrate(cfg.Server.Mode, cfg.ForceMigrate))
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, repos, db)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("learnguard-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
		router.Static("/api/uploads", cfg.Storage.LocalPath)
	}

	app.watchConfig()

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
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
