package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/tazeembhat/PaymentsApp/internal/command"
	"github.com/tazeembhat/PaymentsApp/internal/config"
	"github.com/tazeembhat/PaymentsApp/internal/events"
	"github.com/tazeembhat/PaymentsApp/internal/handler"
	"github.com/tazeembhat/PaymentsApp/internal/middleware"
	"github.com/tazeembhat/PaymentsApp/internal/projection"
	"github.com/tazeembhat/PaymentsApp/internal/query"
	redisclient "github.com/tazeembhat/PaymentsApp/internal/redis"
	"github.com/tazeembhat/PaymentsApp/internal/repository"
	"github.com/tazeembhat/PaymentsApp/internal/token"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	// The signing secret is mandatory; refusing to start beats issuing
	// unverifiable tokens.
	tokens, err := token.NewService(cfg.Auth.JWTSecret)
	if err != nil {
		logrus.Fatalf("token service: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database connection (write store)
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		logrus.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		logrus.Fatalf("failed to ping database: %v", err)
	}

	// Redis connection (read model store + event streaming)
	redis, err := redisclient.NewClient(redisclient.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolSize:     cfg.Redis.PoolSize,
	})
	if err != nil {
		logrus.Fatalf("failed to connect to redis: %v", err)
	}
	defer redis.Close()

	// --- CQRS wiring ---
	publisher := events.NewPublisher(redis.Client)

	accountRepo := repository.NewAccountRepository(db)
	writeRepo := repository.NewUserWriteRepository(db, accountRepo)
	readRepo := repository.NewUserReadRepository(db, redis.Client)

	if err := writeRepo.Init(ctx); err != nil {
		logrus.Fatalf("init user repository: %v", err)
	}
	if err := accountRepo.Init(ctx); err != nil {
		logrus.Fatalf("init account repository: %v", err)
	}

	commandSvc := command.NewUserCommandService(writeRepo, accountRepo, readRepo, publisher, tokens)
	userQuerySvc := query.NewUserQueryService(readRepo)
	authQuerySvc := query.NewAuthQueryService(writeRepo, tokens)

	userHandler := handler.NewUserHandler(commandSvc, userQuerySvc)
	authHandler := handler.NewAuthHandler(authQuerySvc)

	// Setup router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())

	api := router.Group("/api/v1")
	{
		api.POST("/signup", userHandler.SignUp)
		api.POST("/signin", authHandler.SignIn)
		api.PUT("/user", middleware.AuthMiddleware(tokens), userHandler.UpdateUser)
		api.GET("/bulk", userHandler.SearchUsers)
		api.GET("/getuser", middleware.AuthMiddleware(tokens), userHandler.GetUser)
		api.DELETE("/delete", middleware.AuthMiddleware(tokens), userHandler.DeleteUser)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Start the read-model projector on both event streams
	projector := projection.NewUserProjector(readRepo)
	for _, stream := range []string{events.UserEventsStream, events.AccountEventsStream} {
		go func(stream string) {
			subscriber := events.NewSubscriber(redis.Client, events.SubscriberConfig{
				Group:    "wallet-service-group",
				Consumer: "wallet-consumer-1",
				Stream:   stream,
				Handler:  projector.Handle,
			})
			if err := subscriber.Start(ctx); err != nil {
				logrus.Infof("subscriber stopped: %v", err)
			}
		}(stream)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logrus.Info("shutting down...")
		cancel()
	}()

	logrus.Infof("wallet service starting on %s", cfg.Server.Addr)
	if err := router.Run(cfg.Server.Addr); err != nil {
		logrus.Fatalf("failed to start server: %v", err)
	}
}
