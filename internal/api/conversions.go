package api

import (
	"farmwise-backend/internal/storage"
	"farmwise-backend/pkg/api"
)

// Result documents are stored as open maps so the narrative layer and
// older records with evolved shapes read uniformly. These converters
// mirror the JSON field names of the response types.

func cropResultDocument(res api.CropResponse) map[string]any {
	alternatives := make([]any, len(res.Alternatives))
	for i, alt := range res.Alternatives {
		alternatives[i] = map[string]any{"crop": alt.Crop, "confidence": alt.Confidence}
	}
	return map[string]any{
		"success":          res.Success,
		"recommended_crop": res.RecommendedCrop,
		"confidence":       res.Confidence,
		"alternatives":     alternatives,
		"soil_analysis": map[string]any{
			"nitrogen":   res.SoilAnalysis.Nitrogen,
			"phosphorus": res.SoilAnalysis.Phosphorus,
			"potassium":  res.SoilAnalysis.Potassium,
			"ph":         res.SoilAnalysis.PH,
		},
		"environmental_conditions": map[string]any{
			"temperature": res.EnvironmentalConditions.Temperature,
			"humidity":    res.EnvironmentalConditions.Humidity,
			"rainfall":    res.EnvironmentalConditions.Rainfall,
		},
	}
}

func fertilizerResultDocument(res api.FertilizerResponse) map[string]any {
	return map[string]any{
		"success":                res.Success,
		"recommended_fertilizer": res.RecommendedFertilizer,
		"confidence":             res.Confidence,
		"npk_values": map[string]any{
			"nitrogen":    res.NPKValues.Nitrogen,
			"phosphorous": res.NPKValues.Phosphorous,
			"potassium":   res.NPKValues.Potassium,
		},
		"soil_conditions": map[string]any{
			"soil_type":   res.SoilConditions.SoilType,
			"moisture":    res.SoilConditions.Moisture,
			"temperature": res.SoilConditions.Temperature,
			"humidity":    res.SoilConditions.Humidity,
		},
		"crop_type": res.CropType,
	}
}

func yieldResultDocument(res api.YieldResponse) map[string]any {
	return map[string]any{
		"success":         res.Success,
		"predicted_yield": res.PredictedYield,
		"yield_unit":      res.YieldUnit,
		"input_parameters": map[string]any{
			"crop":            res.InputParameters.Crop,
			"season":          res.InputParameters.Season,
			"state":           res.InputParameters.State,
			"area":            res.InputParameters.Area,
			"annual_rainfall": res.InputParameters.AnnualRainfall,
			"fertilizer":      res.InputParameters.Fertilizer,
			"pesticide":       res.InputParameters.Pesticide,
		},
	}
}

func toRecordResponse(record storage.PredictionRecord) api.PredictionRecord {
	return api.PredictionRecord{
		UserId:         record.UserId,
		PredictionType: record.PredictionType,
		Timestamp:      record.Timestamp,
		PredictionDate: record.PredictionDate,
		Timeframe:      record.Timeframe,
		Input:          record.Input,
		Result:         record.Result,
	}
}

func toRecordResponses(records []storage.PredictionRecord) []api.PredictionRecord {
	out := make([]api.PredictionRecord, len(records))
	for i, record := range records {
		out[i] = toRecordResponse(record)
	}
	return out
}

func toProfileResponse(profile storage.UserProfile) api.UserProfile {
	return api.UserProfile{
		UserId:     profile.UserId,
		Name:       profile.Name,
		Email:      profile.Email,
		Phone:      profile.Phone,
		Location:   profile.Location,
		FarmSize:   profile.FarmSize,
		Experience: profile.Experience,
	}
}
