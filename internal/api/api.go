package api

import (
	"net/http"

	"farmwise-backend/internal/core"
	"farmwise-backend/internal/narrative"
	"farmwise-backend/internal/storage"
	"farmwise-backend/pkg/api"

	"github.com/go-chi/chi/v5"
)

// BackendService serves the prediction endpoints. Store may be nil when
// no database is configured; predictions still work but nothing is
// persisted and the history and report endpoints report unavailable.
type BackendService struct {
	models   *core.ModelArtifacts
	store    storage.PredictionStore
	narrator *narrative.Narrator
}

func NewBackendService(models *core.ModelArtifacts, store storage.PredictionStore, narrator *narrative.Narrator) *BackendService {
	return &BackendService{models: models, store: store, narrator: narrator}
}

func (s *BackendService) AddRoutes(r chi.Router) {
	r.Get("/", RestHandler(s.Root))
	r.Get("/health", RestHandler(s.Health))
	r.Route("/api", func(r chi.Router) {
		r.Post("/predict-crop", RestHandler(s.PredictCrop))
		r.Post("/predict-fertilizer", RestHandler(s.PredictFertilizer))
		r.Post("/predict-yield", RestHandler(s.PredictYield))
		r.Route("/user", func(r chi.Router) {
			r.Get("/profile", RestHandler(s.GetProfile))
			r.Post("/profile", RestHandler(s.CreateProfile))
			r.Put("/profile", RestHandler(s.UpdateProfile))
			r.Get("/prediction-history", RestHandler(s.GetPredictionHistory))
			r.Delete("/prediction-history", RestHandler(s.DeletePredictionHistory))
		})
		r.Post("/generate-detailed-report", RestHandler(s.GenerateDetailedReport))
	})
}

func (s *BackendService) Root(r *http.Request) (any, error) {
	databaseType := "In-Memory"
	if s.store != nil {
		databaseType = "MongoDB"
	}
	return map[string]any{
		"message":  "Agricultural AI Models API",
		"status":   "running",
		"database": databaseType,
		"available_endpoints": []string{
			"/api/predict-crop",
			"/api/predict-fertilizer",
			"/api/predict-yield",
			"/api/user/profile",
			"/api/user/prediction-history",
			"/api/generate-detailed-report",
		},
	}, nil
}

// Health reports which models loaded and whether persistence is up. It
// always returns 200; clients inspect the body for degraded components.
func (s *BackendService) Health(r *http.Request) (any, error) {
	databaseType := "In-Memory"
	connected := false
	if s.store != nil {
		databaseType = "MongoDB"
		connected = s.store.Ping(r.Context()) == nil
	}

	return api.HealthResponse{
		Status: "healthy",
		ModelsLoaded: api.ModelsLoaded{
			Crop:       s.models.Crop != nil,
			Fertilizer: s.models.Fertilizer != nil,
			Yield:      s.models.Yield != nil,
		},
		Database: api.DatabaseStatus{
			Connected: connected,
			Type:      databaseType,
		},
	}, nil
}

func (s *BackendService) requireStore() error {
	if s.store == nil {
		return CodedErrorf(http.StatusServiceUnavailable, "database not connected")
	}
	return nil
}
