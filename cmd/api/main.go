package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/z12guilherme/gestao-atipicos/internal/handler"
	"github.com/z12guilherme/gestao-atipicos/internal/identity"
	"github.com/z12guilherme/gestao-atipicos/internal/middleware"
	"github.com/z12guilherme/gestao-atipicos/internal/models"
	"github.com/z12guilherme/gestao-atipicos/internal/repository"
	"github.com/z12guilherme/gestao-atipicos/internal/service"
	"github.com/z12guilherme/gestao-atipicos/pkg/cache"
	"github.com/z12guilherme/gestao-atipicos/pkg/config"
	"github.com/z12guilherme/gestao-atipicos/pkg/database"
	"github.com/z12guilherme/gestao-atipicos/pkg/logger"
	corsmiddleware "github.com/z12guilherme/gestao-atipicos/pkg/middleware/cors"
	reqidmiddleware "github.com/z12guilherme/gestao-atipicos/pkg/middleware/requestid"
)

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	// Redis is optional: when it is absent or unreachable the service runs
	// without read-side caching.
	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			store := repository.NewRedisCacheRepository(redisClient)
			cacheSvc = service.NewCacheService(store, metricsSvc, cfg.Cache.StudentsTTL, logr, true)
		}
	}

	validate := validator.New()
	identityClient := identity.NewClient(cfg.Identity)

	profileRepo := repository.NewProfileRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)

	authSvc := service.NewAuthService(cfg.JWT.Secret)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, logr)
	userSvc := service.NewUserService(profileRepo, identityClient, assignmentSvc, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, cacheSvc, logr)
	importSvc := service.NewImportService(profileRepo, studentRepo, identityClient, validate, cacheSvc, metricsSvc, logr)

	userHandler := handler.NewUserHandler(userSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc)
	importHandler := handler.NewImportHandler(importSvc, logr)
	templateHandler := handler.NewTemplateHandler()
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.Auth(authSvc, userSvc))

	admin := middleware.RequireRoles(models.RoleGestor)

	imports := api.Group("/imports", admin)
	{
		imports.POST("/users", importHandler.ImportUsers)
		imports.POST("/students", importHandler.ImportStudents)
		imports.GET("/users/template", templateHandler.UserTemplate)
		imports.GET("/students/template", templateHandler.StudentTemplate)
	}

	users := api.Group("/users", admin)
	{
		users.GET("", userHandler.List)
		users.GET("/:id", userHandler.Get)
		users.POST("", userHandler.Create)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)
	}

	students := api.Group("/students")
	{
		staff := middleware.RequireRoles(models.RoleGestor, models.RoleCuidador)
		anyRole := middleware.RequireRoles(models.RoleGestor, models.RoleCuidador, models.RoleResponsavel)
		students.GET("", staff, studentHandler.List)
		students.GET("/:id", anyRole, studentHandler.Get)
		students.POST("", admin, studentHandler.Create)
		students.PUT("/:id", admin, studentHandler.Update)
		students.DELETE("/:id", admin, studentHandler.Delete)
	}

	guardians := api.Group("/guardians")
	{
		// Guardians may read their own links; only admins rewrite them.
		guardians.GET("/:id/students", middleware.RBAC(string(models.RoleGestor), middleware.SelfAccess), assignmentHandler.ListStudents)
		guardians.PUT("/:id/students", admin, assignmentHandler.ReplaceStudents)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	srv := &http.Server{Addr: addr, Handler: r}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
