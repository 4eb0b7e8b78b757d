package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	Event "github.com/i-amankitsingh/chai-backend/Events"
	Auth "github.com/i-amankitsingh/chai-backend/Services/Auth"
	ES "github.com/i-amankitsingh/chai-backend/Services/Elasticsearch"
	Mdb "github.com/i-amankitsingh/chai-backend/Services/Mdb"
	Storage "github.com/i-amankitsingh/chai-backend/Services/Storage"
	Views "github.com/i-amankitsingh/chai-backend/Services/Views"
)

var ServerPort string

func loadEnv() {
	if err := godotenv.Load(); err != nil {
		zap.S().Info("No .env file found, using environment variables")
	}

	port := os.Getenv("GO_SERVER_PORT")
	if port == "" {
		port = "8080"
	}
	ServerPort = ":" + port
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		zap.S().Infow("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	loadEnv()
	Mdb.InitPostgres()

	// Run migrations if RUN_MIGRATIONS env var is set
	if os.Getenv("RUN_MIGRATIONS") == "true" {
		zap.S().Info("Running database migrations...")
		if err := Mdb.RunMigrations(); err != nil {
			zap.S().Fatalf("Migration failed: %v", err)
		}
		zap.S().Info("Migrations completed successfully")
	}

	Auth.Initauth()
	Storage.InitStorage()
	ES.InitElasticsearch()
	Views.InitRedis()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if Views.RDB != nil {
		flusher := Views.NewFlusher(Mdb.DB, Views.RDB, 30*time.Second, logger)
		go flusher.Start(ctx)
	}

	mux := chi.NewRouter()
	mux.Use(corsMiddleware, loggingMiddleware, middleware.Timeout(25*time.Second))
	Event.Handler(mux)

	server := &http.Server{
		Addr:         ServerPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zap.S().Infof("Server started at %s", ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.S().Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	zap.S().Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zap.S().Errorf("Shutdown error: %v", err)
	}
}
