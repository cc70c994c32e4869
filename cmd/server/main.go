package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"notably-backend/internal/auth"
	"notably-backend/internal/cache"
	"notably-backend/internal/events"
	"notably-backend/internal/handlers"
	"notably-backend/internal/storage"
)

func main() {
	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// Database connection (with retries)
	var db *sqlx.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("postgres", buildDSN())
		if err == nil {
			break
		}
		log.Printf("DB connection attempt %d failed: %v", i+1, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	// Redis cache (optional, used for login rate limiting)
	var cacheClient cache.Client
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		redisClient, err := cache.NewRedisClient(redisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		cacheClient = redisClient
	} else {
		log.Println("WARN REDIS_URL not set; login rate limiting disabled")
	}

	// Audit event publisher (optional)
	var publisher events.Publisher = events.Nop{}
	if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		natsPublisher, err := events.Connect(natsURL)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
	} else {
		log.Println("WARN NATS_URL not set; audit events disabled")
	}

	// Storage + handlers
	store := storage.NewStorage(db)
	authHandler := auth.NewHandler(store)
	h := handlers.New(store, authHandler, publisher)

	// Router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	h.RegisterRoutes(r, cacheClient)

	server := &http.Server{
		Addr:    ":" + getEnv("PORT", "8080"),
		Handler: r,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Println("Shutting down...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("Server starting on %s", server.Addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}

func buildDSN() string {
	return "host=" + getEnv("DB_HOST", "localhost") +
		" user=" + getEnv("DB_USER", "notably_user") +
		" password=" + getEnv("DB_PASSWORD", "notably_pass") +
		" dbname=" + getEnv("DB_NAME", "notably") +
		" sslmode=disable"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
