package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/forms-api/internal/config"
	"github.com/yourusername/forms-api/internal/handler"
	"github.com/yourusername/forms-api/internal/middleware"
	pgRepo "github.com/yourusername/forms-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/forms-api/internal/repository/redis"
	"github.com/yourusername/forms-api/internal/service"
	ws "github.com/yourusername/forms-api/internal/websocket"
	"github.com/yourusername/forms-api/pkg/auth"
	"github.com/yourusername/forms-api/pkg/database"
	"github.com/yourusername/forms-api/pkg/filestore"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	formRepo := pgRepo.NewFormRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	optionRepo := pgRepo.NewOptionRepo(db)
	responseRepo := pgRepo.NewResponseRepo(db)
	changeRepo := pgRepo.NewChangeRepo(db)
	refreshTokenRepo := pgRepo.NewRefreshTokenRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Хранилище загруженных файлов
	fileStore, err := filestore.NewStore(cfg.Uploads.Dir, cfg.Uploads.MaxSizeMB)
	if err != nil {
		log.Printf("Failed to initialize file store: %v", err)
		os.Exit(1)
	}

	// JWT
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Email-уведомления: без ключа Resend работаем в noop-режиме
	var emailService service.EmailService
	if cfg.Email.ResendAPIKey != "" {
		resendService, err := service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize ResendEmailService: %v", err)
			os.Exit(1)
		}
		emailService = resendService
		log.Println("Email notifications enabled (Resend)")
	} else {
		emailService = &service.NoopEmailService{}
		log.Println("RESEND_API_KEY не задан, email-уведомления отключены")
	}

	// Корневой контекст приложения для фоновых горутин
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// WebSocket hub live-ленты ответов
	hub := ws.NewHub()
	go hub.Run(ctx)

	// Инициализируем сервисы
	authService, err := service.NewAuthService(userRepo, refreshTokenRepo, jwtService, cfg.Auth.RefreshTokenLifetime)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}
	userService := service.NewUserService(userRepo)
	formService := service.NewFormService(formRepo)
	questionService := service.NewQuestionService(formRepo, questionRepo, optionRepo)
	responseService := service.NewResponseService(
		db, formRepo, userRepo, responseRepo, changeRepo,
		cacheRepo, emailService, hub, cfg.Server.BaseURL,
	)
	analyticsService := service.NewAnalyticsService(formRepo, responseRepo, cacheRepo)

	// Фоновая очистка истекших refresh-токенов
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		log.Println("Запуск периодической очистки истекших refresh-токенов (каждый час)")

		for {
			select {
			case <-ticker.C:
				deleted, err := authService.CleanupExpiredTokens()
				if err != nil {
					log.Printf("Ошибка при очистке refresh-токенов: %v", err)
				} else if deleted > 0 {
					log.Printf("Удалено истекших refresh-токенов: %d", deleted)
				}
			case <-ctx.Done():
				log.Println("Завершение работы горутины очистки токенов")
				return
			}
		}
	}()

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	formHandler := handler.NewFormHandler(formService)
	questionHandler := handler.NewQuestionHandler(questionService)
	publicHandler := handler.NewPublicHandler(responseService, fileStore)
	responseHandler := handler.NewResponseHandler(responseService, analyticsService, fileStore)
	wsHandler := handler.NewWSHandler(hub, formService, jwtService)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Инициализируем роутер Gin
	router := gin.Default()

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	isProduction := gin.Mode() == gin.ReleaseMode
	if isProduction {
		// Production: не доверять прокси-заголовкам
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		// Development: доверяем localhost
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Аутентификация
		authGroup := api.Group("/auth")
		authGroup.Use(rateLimiter.Limit(middleware.DefaultAuthRateLimitConfig()))
		{
			strict := rateLimiter.Limit(middleware.StrictAuthRateLimitConfig())
			authGroup.POST("/register", strict, authHandler.Register)
			authGroup.POST("/login", strict, authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)

			authedAuth := authGroup.Group("/")
			authedAuth.Use(authMiddleware.RequireAuth())
			{
				authedAuth.POST("/logout", authHandler.Logout)
			}
		}

		// Профиль пользователя
		users := api.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			users.GET("/me", userHandler.GetProfile)
			users.PUT("/me", userHandler.UpdateProfile)
			users.POST("/me/dark-mode", userHandler.ToggleDarkMode)
		}

		// Формы владельца
		forms := api.Group("/forms")
		forms.Use(authMiddleware.RequireAuth())
		{
			forms.GET("", formHandler.Dashboard)
			forms.POST("", formHandler.CreateForm)

			formWithUUID := forms.Group("/:uuid")
			formWithUUID.Use(middleware.ExtractUUIDParam("uuid", "formUUID"))
			{
				formWithUUID.GET("", formHandler.GetForm)
				formWithUUID.PUT("", formHandler.UpdateForm)
				formWithUUID.PATCH("/settings", formHandler.UpdateForm)
				formWithUUID.POST("/publish", formHandler.TogglePublish)
				formWithUUID.DELETE("", formHandler.DeleteForm)

				formWithUUID.POST("/questions", questionHandler.AddQuestion)

				formWithUUID.GET("/responses", responseHandler.ListResponses)
				formWithUUID.GET("/responses/export", responseHandler.ExportResponses)
				formWithUUID.GET("/analytics", responseHandler.GetAnalytics)

				responseWithID := formWithUUID.Group("/responses/:id")
				responseWithID.Use(middleware.ExtractUintParam("id", "responseID"))
				{
					responseWithID.GET("", responseHandler.GetResponse)
				}
			}
		}

		// Загруженные респондентами файлы
		uploads := api.Group("/uploads")
		uploads.Use(authMiddleware.RequireAuth())
		{
			uploads.GET("/:name", responseHandler.DownloadFile)
		}

		// Вопросы (адресуются собственным ID, принадлежность проверяет сервис)
		questions := api.Group("/questions")
		questions.Use(authMiddleware.RequireAuth())
		{
			questionWithID := questions.Group("/:id")
			questionWithID.Use(middleware.ExtractUintParam("id", "questionID"))
			{
				questionWithID.PUT("", questionHandler.UpdateQuestion)
				questionWithID.DELETE("", questionHandler.DeleteQuestion)
			}
		}

		// Публичные маршруты респондентов
		public := api.Group("/public/forms/:uuid")
		public.Use(middleware.ExtractUUIDParam("uuid", "formUUID"))
		{
			public.GET("", publicHandler.GetForm)
			public.POST("", rateLimiter.LimitByIP(middleware.SubmitRateLimitConfig()), publicHandler.SubmitForm)
		}

		// Live-лента новых ответов (токен через query, см. WSHandler)
		api.GET("/forms/:uuid/live",
			middleware.ExtractUUIDParam("uuid", "formUUID"),
			wsHandler.HandleConnection,
		)
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server started on port %s", cfg.Server.Port)

	// Ожидаем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Отправляем сигнал завершения для всех горутин
	cancel()

	// Graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
