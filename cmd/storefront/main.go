package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/lighthouse/storefront/internal/auth"
	"github.com/lighthouse/storefront/internal/cache"
	"github.com/lighthouse/storefront/internal/catalog"
	h "github.com/lighthouse/storefront/internal/http"
	"github.com/lighthouse/storefront/internal/publisher"
	"github.com/lighthouse/storefront/internal/repository"
	"github.com/lighthouse/storefront/internal/service"
	"github.com/lighthouse/storefront/pkg/logger"
)

type Config struct {
	HTTPPort            string
	DBPath              string
	RedisAddr           string
	RedisPassword       string
	KafkaBrokers        []string
	FirebaseProjectID   string
	FirebaseCredentials string
	RequestTimeout      time.Duration
	ShutdownTimeout     time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		DBPath:              getEnv("DB_PATH", "./storefront.db"),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:        strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		FirebaseProjectID:   getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		RequestTimeout:      30 * time.Second,
		ShutdownTimeout:     10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	log.Println("Storefront service started")

	cfg := loadConfig()
	slogger := logger.New("storefront")
	ctx := context.Background()

	repo, err := repository.NewRepository(cfg.DBPath, 0)
	if err != nil {
		log.Fatal(err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	if cfg.FirebaseProjectID == "" {
		log.Fatal("FIREBASE_PROJECT_ID is required")
	}

	fsClient, err := catalog.Connect(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentials)
	if err != nil {
		log.Fatalf("Failed to connect to firestore: %v", err)
	}
	defer fsClient.Close()
	log.Printf("Connected to firestore (project: %s)", cfg.FirebaseProjectID)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Println("Redis ping succeeded")

	var verifier auth.TokenVerifier
	fbVerifier, err := auth.NewFirebaseVerifier(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentials)
	if err != nil {
		log.Printf("Auth verifier unavailable, requests are anonymous: %v", err)
	} else {
		verifier = fbVerifier
	}

	cartService := service.NewCartService(repo)
	catalogService := service.NewCatalogService(
		catalog.NewFirestoreCatalog(fsClient),
		cache.NewRedisCache(redisClient),
	)

	cartHandler := h.NewCartHandler(cartService, cfg.RequestTimeout)
	orderHandler := h.NewOrderHandler(cartService, cfg.RequestTimeout)
	catalogHandler := h.NewCatalogHandler(catalogService, cfg.RequestTimeout)

	// Outbox poller publishes order events in the background.
	pollerCtx, cancelPoller := context.WithCancel(ctx)
	defer cancelPoller()
	poller := publisher.NewOutboxPoller(repo, cfg.KafkaBrokers...)
	go poller.Run(pollerCtx)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestLogger(slogger))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(h.AuthMiddleware(verifier))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items", cartHandler.UpdateQuantity)
			r.Delete("/items", cartHandler.RemoveItem)
			r.Delete("/", cartHandler.ClearCart)
		})
		r.Post("/checkout", orderHandler.Checkout)
		r.Get("/orders", orderHandler.ListOrders)
		r.Route("/products", func(r chi.Router) {
			r.Get("/featured", catalogHandler.Featured)
			r.Get("/suggested", catalogHandler.Suggested)
			r.Get("/new", catalogHandler.Newest)
			r.Get("/{id}", catalogHandler.GetProduct)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	cancelPoller()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
