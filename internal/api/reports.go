package api

import (
	"errors"
	"net/http"
	"time"

	"farmwise-backend/internal/metrics"
	"farmwise-backend/internal/narrative"
	"farmwise-backend/internal/storage"
)

var reportCollections = map[string]string{
	narrative.TypeCrop:       storage.CropCollection,
	narrative.TypeFertilizer: storage.FertilizerCollection,
	narrative.TypeYield:      storage.YieldCollection,
	narrative.TypeDisease:    storage.DiseaseCollection,
}

type reportParams struct {
	UserId         string `schema:"userId"`
	PredictionType string `schema:"predictionType"`
}

// GenerateDetailedReport builds an LLM report over the user's latest
// prediction of the requested type plus up to five earlier ones.
func (s *BackendService) GenerateDetailedReport(r *http.Request) (any, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}

	params, err := ParseRequestQueryParams[reportParams](r)
	if err != nil {
		return nil, err
	}
	if params.UserId == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "missing userId query parameter")
	}

	collection, ok := reportCollections[params.PredictionType]
	if !ok {
		return nil, CodedErrorf(http.StatusBadRequest, "invalid prediction type %q", params.PredictionType)
	}

	latest, err := s.store.LatestPrediction(r.Context(), collection, params.UserId)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, CodedErrorf(http.StatusNotFound, "no predictions found for this user")
	}
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to fetch latest prediction: %v", err)
	}

	history, err := s.store.RecentPredictions(r.Context(), collection, params.UserId, 5, true)
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to fetch prediction history: %v", err)
	}

	start := time.Now()
	report := s.narrator.DetailedReport(r.Context(), params.PredictionType, latest, history)
	metrics.ReportDuration.Observe(time.Since(start).Seconds())

	return report, nil
}
