package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"farmwise-backend/internal/core"
	"farmwise-backend/internal/metrics"
	"farmwise-backend/internal/narrative"
	"farmwise-backend/internal/storage"
	"farmwise-backend/pkg/api"

	"github.com/google/uuid"
)

const defaultUserId = "guest_user"

func (s *BackendService) PredictCrop(r *http.Request) (any, error) {
	if s.models.Crop == nil {
		return nil, CodedErrorf(http.StatusServiceUnavailable, "crop model not loaded")
	}

	req, err := ParseRequest[api.CropRequest](r)
	if err != nil {
		return nil, err
	}

	result, err := s.models.Crop.Recommend(core.CropInput{
		N:           req.N,
		P:           req.P,
		K:           req.K,
		Temperature: req.Temperature,
		Humidity:    req.Humidity,
		PH:          req.PH,
		Rainfall:    req.Rainfall,
	})
	if err != nil {
		metrics.PredictionErrors.WithLabelValues(narrative.TypeCrop).Inc()
		return nil, CodedErrorf(http.StatusInternalServerError, "crop prediction failed: %v", err)
	}
	metrics.PredictionsTotal.WithLabelValues(narrative.TypeCrop).Inc()

	alternatives := make([]api.CropAlternative, len(result.Alternatives))
	for i, alt := range result.Alternatives {
		alternatives[i] = api.CropAlternative{Crop: alt.Label, Confidence: alt.Confidence}
	}

	res := api.CropResponse{
		Success:         true,
		RecommendedCrop: result.Label,
		Confidence:      result.Confidence,
		Alternatives:    alternatives,
		SoilAnalysis: api.SoilAnalysis{
			Nitrogen:   req.N,
			Phosphorus: req.P,
			Potassium:  req.K,
			PH:         req.PH,
		},
		EnvironmentalConditions: api.EnvironmentalConditions{
			Temperature: req.Temperature,
			Humidity:    req.Humidity,
			Rainfall:    req.Rainfall,
		},
	}

	record := storage.PredictionRecord{
		Id:             uuid.NewString(),
		UserId:         userIdOrDefault(req.UserId),
		PredictionType: "crop_recommendation",
		Timestamp:      time.Now().UTC(),
		Input: map[string]any{
			"N":           req.N,
			"P":           req.P,
			"K":           req.K,
			"temperature": req.Temperature,
			"humidity":    req.Humidity,
			"ph":          req.PH,
			"rainfall":    req.Rainfall,
		},
		Result: cropResultDocument(res),
	}
	res.Notification = s.persistAndNarrate(r.Context(), storage.CropCollection, narrative.TypeCrop, record)

	return res, nil
}

func (s *BackendService) PredictFertilizer(r *http.Request) (any, error) {
	if s.models.Fertilizer == nil {
		return nil, CodedErrorf(http.StatusServiceUnavailable, "fertilizer model not loaded")
	}

	req, err := ParseRequest[api.FertilizerRequest](r)
	if err != nil {
		return nil, err
	}

	result, err := s.models.Fertilizer.Recommend(core.FertilizerInput{
		Temperature: req.Temperature,
		Humidity:    req.Humidity,
		Moisture:    req.Moisture,
		SoilType:    req.SoilType,
		CropType:    req.CropType,
		Nitrogen:    req.Nitrogen,
		Phosphorous: req.Phosphorous,
		Potassium:   req.Potassium,
	})
	if err != nil {
		metrics.PredictionErrors.WithLabelValues(narrative.TypeFertilizer).Inc()
		return nil, CodedErrorf(http.StatusInternalServerError, "fertilizer prediction failed: %v", err)
	}
	metrics.PredictionsTotal.WithLabelValues(narrative.TypeFertilizer).Inc()

	res := api.FertilizerResponse{
		Success:               true,
		RecommendedFertilizer: result.Label,
		Confidence:            result.Confidence,
		NPKValues: api.NPKValues{
			Nitrogen:    req.Nitrogen,
			Phosphorous: req.Phosphorous,
			Potassium:   req.Potassium,
		},
		SoilConditions: api.SoilConditions{
			SoilType:    req.SoilType,
			Moisture:    req.Moisture,
			Temperature: req.Temperature,
			Humidity:    req.Humidity,
		},
		CropType: req.CropType,
	}

	record := storage.PredictionRecord{
		Id:             uuid.NewString(),
		UserId:         userIdOrDefault(req.UserId),
		PredictionType: "fertilizer_recommendation",
		Timestamp:      time.Now().UTC(),
		PredictionDate: req.PredictionDate,
		Timeframe:      req.Timeframe,
		Input: map[string]any{
			"temperature": req.Temperature,
			"humidity":    req.Humidity,
			"moisture":    req.Moisture,
			"soil_type":   req.SoilType,
			"crop_type":   req.CropType,
			"nitrogen":    req.Nitrogen,
			"phosphorous": req.Phosphorous,
			"potassium":   req.Potassium,
		},
		Result: fertilizerResultDocument(res),
	}
	res.Notification = s.persistAndNarrate(r.Context(), storage.FertilizerCollection, narrative.TypeFertilizer, record)

	return res, nil
}

func (s *BackendService) PredictYield(r *http.Request) (any, error) {
	if s.models.Yield == nil {
		return nil, CodedErrorf(http.StatusServiceUnavailable, "yield model not loaded")
	}

	req, err := ParseRequest[api.YieldRequest](r)
	if err != nil {
		return nil, err
	}

	result, err := s.models.Yield.Predict(core.YieldInput{
		Crop:           req.Crop,
		Season:         req.Season,
		State:          req.State,
		Area:           req.Area,
		AnnualRainfall: req.AnnualRainfall,
		Fertilizer:     req.Fertilizer,
		Pesticide:      req.Pesticide,
	})
	if err != nil {
		metrics.PredictionErrors.WithLabelValues(narrative.TypeYield).Inc()
		return nil, CodedErrorf(http.StatusInternalServerError, "yield prediction failed: %v", err)
	}
	metrics.PredictionsTotal.WithLabelValues(narrative.TypeYield).Inc()

	res := api.YieldResponse{
		Success:        true,
		PredictedYield: result.Value,
		YieldUnit:      "tonnes per hectare",
		InputParameters: api.YieldInputParameters{
			Crop:           req.Crop,
			Season:         req.Season,
			State:          req.State,
			Area:           req.Area,
			AnnualRainfall: req.AnnualRainfall,
			Fertilizer:     req.Fertilizer,
			Pesticide:      req.Pesticide,
		},
	}

	record := storage.PredictionRecord{
		Id:             uuid.NewString(),
		UserId:         userIdOrDefault(req.UserId),
		PredictionType: "yield_prediction",
		Timestamp:      time.Now().UTC(),
		PredictionDate: req.PredictionDate,
		Timeframe:      req.Timeframe,
		Input: map[string]any{
			"crop":            req.Crop,
			"season":          req.Season,
			"state":           req.State,
			"area":            req.Area,
			"production":      req.Production,
			"annual_rainfall": req.AnnualRainfall,
			"fertilizer":      req.Fertilizer,
			"pesticide":       req.Pesticide,
		},
		Result: yieldResultDocument(res),
	}
	res.Notification = s.persistAndNarrate(r.Context(), storage.YieldCollection, narrative.TypeYield, record)

	return res, nil
}

// persistAndNarrate saves the record and produces the notification for
// the response. Both are best effort: a storage or LLM failure is logged
// and the prediction response goes out without the affected field.
func (s *BackendService) persistAndNarrate(ctx context.Context, collection, predictionType string, record storage.PredictionRecord) string {
	if s.store == nil {
		return ""
	}

	if err := s.store.SavePrediction(ctx, collection, record); err != nil {
		slog.Warn("failed to save prediction", "collection", collection, "user_id", record.UserId, "error", err)
		return ""
	}
	slog.Info("prediction saved", "collection", collection, "user_id", record.UserId)

	history, err := s.store.RecentPredictions(ctx, collection, record.UserId, 5, true)
	if err != nil {
		slog.Warn("failed to fetch prediction history", "collection", collection, "user_id", record.UserId, "error", err)
		history = nil
	}

	return s.narrator.Notification(ctx, predictionType, record, history)
}

func userIdOrDefault(userId string) string {
	if userId == "" {
		return defaultUserId
	}
	return userId
}
