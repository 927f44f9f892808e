package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"like-service/config"
	"like-service/handler"
	"like-service/middleware"
	natsClient "like-service/nats"
	"like-service/pkg/jwt"
	"like-service/repository"
	"like-service/subscriber"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Println("failed to load Like .env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load Like service config: %v", err)
	}

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Like Redis: %v", err)
	}
	log.Println("Like Redis connected successfully")

	// Initialize NATS client
	nats, err := natsClient.NewClient(natsClient.Config{
		URL:           cfg.Nats.URL,
		MaxReconnects: cfg.Nats.MaxReconnects,
		ReconnectWait: cfg.Nats.ReconnectWait,
		ClientID:      cfg.Nats.ClientID,
	})
	if err != nil {
		log.Fatalf("Failed to initialize NATS client: %v", err)
	}
	defer nats.Close()
	log.Println("NATS client initialized successfully")

	// Initialize repository
	likeRepo := repository.NewLikeRepository(redisClient)

	// Start the cascade deletion subscriber
	sub := subscriber.NewPostDeletedSubscriber(nats, likeRepo)
	if err := sub.Start(); err != nil {
		log.Fatalf("Failed to start post deleted subscriber: %v", err)
	}

	// Initialize HTTP facade
	jwtManager := jwt.NewManager(cfg.JWTSecret)
	likeHandler := handler.NewLikeHandler(likeRepo)

	router := gin.Default()
	router.Use(cors.Default())
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	likeHandler.RegisterRoutes(router, middleware.Auth(jwtManager))

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	log.Printf("Like Service started")
	log.Printf("HTTP listening on port %s", cfg.HTTPPort)
	log.Printf("NATS subscriber active")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down Like Service...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	if err := sub.Stop(); err != nil {
		log.Printf("Subscriber shutdown error: %v", err)
	}
	nats.Close()
	redisClient.Close()

	log.Println("Like Service stopped cleanly")
}
