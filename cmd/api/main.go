package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"farmwise-backend/cmd"
	"farmwise-backend/internal/api"
	"farmwise-backend/internal/core"
	"farmwise-backend/internal/narrative"
	"farmwise-backend/internal/storage"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type APIConfig struct {
	MongoURI          string `env:"MONGODB_URI" envDefault:""`
	MongoDBName       string `env:"MONGODB_DB_NAME" envDefault:"farmwise_agricultural_ai"`
	ModelDir          string `env:"MODEL_DIR" envDefault:"./models"`
	GeminiAPIKey      string `env:"GEMINI_API_KEY" envDefault:""`
	GeminiModel       string `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash-lite"`
	OpenAIAPIKey      string `env:"OPENAI_API_KEY" envDefault:""`
	OpenAIModel       string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	NarrativeProvider string `env:"NARRATIVE_PROVIDER" envDefault:"gemini"`
	APIPort           string `env:"API_PORT" envDefault:"8001"`
	CORSOrigins       string `env:"CORS_ORIGINS" envDefault:"http://localhost:3000,http://localhost:3001"`
}

func main() {
	log.Println("Starting API Server...")

	cmd.LoadEnvFile()

	var cfg APIConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	models := core.LoadModels(cfg.ModelDir)

	// Predictions still work without a store; they just are not persisted.
	var store storage.PredictionStore
	if cfg.MongoURI != "" {
		mongoStore, err := storage.NewMongoStore(context.Background(), cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			log.Printf("MongoDB connection failed, running without persistence: %v", err)
		} else {
			store = mongoStore
			defer mongoStore.Close(context.Background()) //nolint:errcheck
		}
	} else {
		log.Println("MONGODB_URI not set, running without persistence")
	}

	narrator := narrative.NewNarrator(newLLM(cfg))

	// --- Chi Router Setup ---
	r := chi.NewRouter()

	// Middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)                    // Log requests
	r.Use(middleware.Recoverer)                 // Recover from panics
	r.Use(middleware.Timeout(60 * time.Second)) // Set request timeout

	apiHandler := api.NewBackendService(models, store, narrator)
	apiHandler.AddRoutes(r)
	r.Handle("/metrics", promhttp.Handler())

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: r,
	}

	// Goroutine for graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("API server listening on port %s", cfg.APIPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
	}

	log.Println("Server stopped.")
}

func newLLM(cfg APIConfig) narrative.LLM {
	switch cfg.NarrativeProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			log.Println("OPENAI_API_KEY not set, narrative generation disabled")
			return nil
		}
		return narrative.NewOpenAI(cfg.OpenAIModel)
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			log.Println("GEMINI_API_KEY not set, narrative generation disabled")
			return nil
		}
		return narrative.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel)
	default:
		log.Printf("unknown narrative provider %q, narrative generation disabled", cfg.NarrativeProvider)
		return nil
	}
}
