package api

import "time"

// Request and response shapes for the prediction API. Field names follow
// the JSON contract the frontend already speaks, so several use
// snake_case or single-letter nutrient names.

type CropRequest struct {
	N           float64 `json:"N"`
	P           float64 `json:"P"`
	K           float64 `json:"K"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	PH          float64 `json:"ph"`
	Rainfall    float64 `json:"rainfall"`
	UserId      string  `json:"userId,omitempty"`
}

type FertilizerRequest struct {
	Temperature    float64 `json:"temperature"`
	Humidity       float64 `json:"humidity"`
	Moisture       float64 `json:"moisture"`
	SoilType       string  `json:"soil_type"`
	CropType       string  `json:"crop_type"`
	Nitrogen       float64 `json:"nitrogen"`
	Phosphorous    float64 `json:"phosphorous"`
	Potassium      float64 `json:"potassium"`
	UserId         string  `json:"userId,omitempty"`
	PredictionDate string  `json:"prediction_date,omitempty"`
	Timeframe      string  `json:"timeframe,omitempty"`
}

type YieldRequest struct {
	Crop           string  `json:"crop"`
	Season         string  `json:"season"`
	State          string  `json:"state"`
	Area           float64 `json:"area"`
	Production     float64 `json:"production"`
	AnnualRainfall float64 `json:"annual_rainfall"`
	Fertilizer     float64 `json:"fertilizer"`
	Pesticide      float64 `json:"pesticide"`
	UserId         string  `json:"userId,omitempty"`
	PredictionDate string  `json:"prediction_date,omitempty"`
	Timeframe      string  `json:"timeframe,omitempty"`
}

type CropAlternative struct {
	Crop       string  `json:"crop"`
	Confidence float64 `json:"confidence"`
}

type SoilAnalysis struct {
	Nitrogen   float64 `json:"nitrogen"`
	Phosphorus float64 `json:"phosphorus"`
	Potassium  float64 `json:"potassium"`
	PH         float64 `json:"ph"`
}

type EnvironmentalConditions struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Rainfall    float64 `json:"rainfall"`
}

type CropResponse struct {
	Success                 bool                    `json:"success"`
	RecommendedCrop         string                  `json:"recommended_crop"`
	Confidence              float64                 `json:"confidence"`
	Alternatives            []CropAlternative       `json:"alternatives"`
	SoilAnalysis            SoilAnalysis            `json:"soil_analysis"`
	EnvironmentalConditions EnvironmentalConditions `json:"environmental_conditions"`
	Notification            string                  `json:"notification,omitempty"`
}

type NPKValues struct {
	Nitrogen    float64 `json:"nitrogen"`
	Phosphorous float64 `json:"phosphorous"`
	Potassium   float64 `json:"potassium"`
}

type SoilConditions struct {
	SoilType    string  `json:"soil_type"`
	Moisture    float64 `json:"moisture"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
}

type FertilizerResponse struct {
	Success               bool           `json:"success"`
	RecommendedFertilizer string         `json:"recommended_fertilizer"`
	Confidence            float64        `json:"confidence"`
	NPKValues             NPKValues      `json:"npk_values"`
	SoilConditions        SoilConditions `json:"soil_conditions"`
	CropType              string         `json:"crop_type"`
	Notification          string         `json:"notification,omitempty"`
}

type YieldInputParameters struct {
	Crop           string  `json:"crop"`
	Season         string  `json:"season"`
	State          string  `json:"state"`
	Area           float64 `json:"area"`
	AnnualRainfall float64 `json:"annual_rainfall"`
	Fertilizer     float64 `json:"fertilizer"`
	Pesticide      float64 `json:"pesticide"`
}

type YieldResponse struct {
	Success         bool                 `json:"success"`
	PredictedYield  float64              `json:"predicted_yield"`
	YieldUnit       string               `json:"yield_unit"`
	InputParameters YieldInputParameters `json:"input_parameters"`
	Notification    string               `json:"notification,omitempty"`
}

// PredictionRecord is the wire form of a stored prediction; the database
// id is deliberately not exposed.
type PredictionRecord struct {
	UserId         string         `json:"userId"`
	PredictionType string         `json:"predictionType"`
	Timestamp      time.Time      `json:"timestamp"`
	PredictionDate string         `json:"prediction_date,omitempty"`
	Timeframe      string         `json:"timeframe,omitempty"`
	Input          map[string]any `json:"input"`
	Result         map[string]any `json:"result"`
}

type HistoryResponse struct {
	UserId                string             `json:"userId"`
	CropPredictions       []PredictionRecord `json:"crop_predictions"`
	FertilizerPredictions []PredictionRecord `json:"fertilizer_predictions"`
	YieldPredictions      []PredictionRecord `json:"yield_predictions"`
}

type DeleteHistoryResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Deleted map[string]int64 `json:"deleted"`
}

type UserProfile struct {
	UserId     string `json:"userId"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Location   string `json:"location,omitempty"`
	FarmSize   string `json:"farmSize,omitempty"`
	Experience string `json:"experience,omitempty"`
}

type ProfileResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Profile UserProfile `json:"profile"`
}

type ModelsLoaded struct {
	Crop       bool `json:"crop"`
	Fertilizer bool `json:"fertilizer"`
	Yield      bool `json:"yield"`
}

type DatabaseStatus struct {
	Connected bool   `json:"connected"`
	Type      string `json:"type"`
}

type HealthResponse struct {
	Status       string         `json:"status"`
	ModelsLoaded ModelsLoaded   `json:"models_loaded"`
	Database     DatabaseStatus `json:"database"`
}
