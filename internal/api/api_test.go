package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"farmwise-backend/internal/core"
	"farmwise-backend/internal/narrative"
	"farmwise-backend/internal/storage"
	"farmwise-backend/pkg/api"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type constEstimator float64

func (c constEstimator) Predict([]float64) (float64, error) { return float64(c), nil }

type echoLLM struct{}

func (echoLLM) Generate(ctx context.Context, prompt string) (string, error) {
	return "Generated narrative.", nil
}

func identityScaler(columns ...int) *core.StandardScaler {
	scaler := &core.StandardScaler{Columns: columns}
	for range columns {
		scaler.Mean = append(scaler.Mean, 0)
		scaler.Std = append(scaler.Std, 1)
	}
	return scaler
}

func testModels() *core.ModelArtifacts {
	return &core.ModelArtifacts{
		Crop: &core.CropModel{
			Scaler:    identityScaler(0, 1, 2, 3, 4, 5, 6),
			Labels:    &core.LabelEncoder{Classes: []string{"Maize", "Rice", "Wheat"}},
			BaseNames: []string{"rf", "gb", "et"},
			Base:      []core.Estimator{constEstimator(1), constEstimator(1), constEstimator(0)},
		},
		Fertilizer: &core.FertilizerModel{
			Scaler:    identityScaler(0, 1, 2, 3, 4, 5),
			Labels:    &core.LabelEncoder{Classes: []string{"DAP", "Urea"}},
			BaseNames: []string{"rf", "gb", "et"},
			Base:      []core.Estimator{constEstimator(1), constEstimator(1), constEstimator(1)},
		},
		Yield: &core.YieldModel{
			Scaler:    identityScaler(0, 1, 2, 3),
			BaseNames: []string{"rf", "gb"},
			Base:      []core.Estimator{constEstimator(4), constEstimator(5)},
			Meta:      &core.LinearModel{Weights: []float64{0.5, 0.5}},
		},
	}
}

func setupBackend(t *testing.T, store storage.PredictionStore, llm narrative.LLM) *httptest.Server {
	t.Helper()
	service := NewBackendService(testModels(), store, narrative.NewNarrator(llm))

	router := chi.NewRouter()
	service.AddRoutes(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, payload any, expectedStatus int, out any) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	res, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, expectedStatus, res.StatusCode)

	if out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
}

func getStatus(t *testing.T, url string, expectedStatus int, out any) {
	t.Helper()
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, expectedStatus, res.StatusCode)

	if out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
}

func cropRequest() api.CropRequest {
	return api.CropRequest{
		N: 90, P: 42, K: 43,
		Temperature: 21, Humidity: 82, PH: 6.5, Rainfall: 203,
		UserId: "farmer1",
	}
}

func TestPredictCrop(t *testing.T) {
	store := storage.NewMemoryStore()
	server := setupBackend(t, store, echoLLM{})

	var res api.CropResponse
	postJSON(t, server.URL+"/api/predict-crop", cropRequest(), http.StatusOK, &res)

	assert.True(t, res.Success)
	assert.Equal(t, "Rice", res.RecommendedCrop)
	assert.InDelta(t, 66.67, res.Confidence, 0.001)
	require.Len(t, res.Alternatives, 1)
	assert.Equal(t, "Maize", res.Alternatives[0].Crop)
	assert.InDelta(t, 33.33, res.Alternatives[0].Confidence, 0.001)
	assert.Equal(t, 90.0, res.SoilAnalysis.Nitrogen)
	assert.Equal(t, 203.0, res.EnvironmentalConditions.Rainfall)
	assert.Equal(t, "Generated narrative.", res.Notification)

	saved, err := store.LatestPrediction(context.Background(), storage.CropCollection, "farmer1")
	require.NoError(t, err)
	assert.Equal(t, "crop_recommendation", saved.PredictionType)
	assert.Equal(t, "Rice", saved.Result["recommended_crop"])
}

func TestPredictCropDefaultsUser(t *testing.T) {
	store := storage.NewMemoryStore()
	server := setupBackend(t, store, nil)

	req := cropRequest()
	req.UserId = ""
	postJSON(t, server.URL+"/api/predict-crop", req, http.StatusOK, nil)

	_, err := store.LatestPrediction(context.Background(), storage.CropCollection, "guest_user")
	assert.NoError(t, err)
}

func TestPredictCropModelUnavailable(t *testing.T) {
	models := testModels()
	models.Crop = nil
	service := NewBackendService(models, nil, narrative.NewNarrator(nil))

	router := chi.NewRouter()
	service.AddRoutes(router)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	postJSON(t, server.URL+"/api/predict-crop", cropRequest(), http.StatusServiceUnavailable, nil)
}

func TestPredictCropWithoutStore(t *testing.T) {
	server := setupBackend(t, nil, nil)

	var res api.CropResponse
	postJSON(t, server.URL+"/api/predict-crop", cropRequest(), http.StatusOK, &res)
	assert.True(t, res.Success)
	assert.Empty(t, res.Notification)
}

func TestPredictFertilizer(t *testing.T) {
	store := storage.NewMemoryStore()
	server := setupBackend(t, store, nil)

	req := api.FertilizerRequest{
		Temperature: 26, Humidity: 52, Moisture: 38,
		SoilType: "Loamy", CropType: "Wheat",
		Nitrogen: 37, Phosphorous: 0, Potassium: 0,
		UserId: "farmer1", PredictionDate: "2026-03-01", Timeframe: "3 months",
	}

	var res api.FertilizerResponse
	postJSON(t, server.URL+"/api/predict-fertilizer", req, http.StatusOK, &res)

	assert.True(t, res.Success)
	assert.Equal(t, "Urea", res.RecommendedFertilizer)
	assert.Equal(t, 100.0, res.Confidence)
	assert.Equal(t, 37.0, res.NPKValues.Nitrogen)
	assert.Equal(t, "Loamy", res.SoilConditions.SoilType)
	assert.Equal(t, "Wheat", res.CropType)

	saved, err := store.LatestPrediction(context.Background(), storage.FertilizerCollection, "farmer1")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", saved.PredictionDate)
	assert.Equal(t, "3 months", saved.Timeframe)
}

func TestPredictYield(t *testing.T) {
	store := storage.NewMemoryStore()
	server := setupBackend(t, store, nil)

	req := api.YieldRequest{
		Crop: "Rice", Season: "Kharif", State: "West Bengal",
		Area: 1000, Production: 3500, AnnualRainfall: 1500,
		Fertilizer: 120, Pesticide: 15,
		UserId: "farmer1",
	}

	var res api.YieldResponse
	postJSON(t, server.URL+"/api/predict-yield", req, http.StatusOK, &res)

	assert.True(t, res.Success)
	assert.Equal(t, 4.5, res.PredictedYield)
	assert.Equal(t, "tonnes per hectare", res.YieldUnit)
	assert.Equal(t, "Rice", res.InputParameters.Crop)

	saved, err := store.LatestPrediction(context.Background(), storage.YieldCollection, "farmer1")
	require.NoError(t, err)
	assert.Equal(t, 3500.0, saved.Input["production"])
}

func TestPredictionHistory(t *testing.T) {
	store := storage.NewMemoryStore()
	server := setupBackend(t, store, nil)

	for i := 0; i < 3; i++ {
		postJSON(t, server.URL+"/api/predict-crop", cropRequest(), http.StatusOK, nil)
	}

	var history api.HistoryResponse
	getStatus(t, server.URL+"/api/user/prediction-history?userId=farmer1", http.StatusOK, &history)
	assert.Equal(t, "farmer1", history.UserId)
	assert.Len(t, history.CropPredictions, 3)
	assert.Empty(t, history.FertilizerPredictions)

	// Type filter leaves other pipelines empty.
	getStatus(t, server.URL+"/api/user/prediction-history?userId=farmer1&predictionType=fertilizer&limit=2", http.StatusOK, &history)
	assert.Empty(t, history.CropPredictions)

	getStatus(t, server.URL+"/api/user/prediction-history", http.StatusBadRequest, nil)
}

func TestDeletePredictionHistory(t *testing.T) {
	store := storage.NewMemoryStore()
	server := setupBackend(t, store, nil)

	postJSON(t, server.URL+"/api/predict-crop", cropRequest(), http.StatusOK, nil)

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/user/prediction-history?userId=farmer1", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var out api.DeleteHistoryResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	assert.True(t, out.Success)
	assert.Equal(t, int64(1), out.Deleted[storage.CropCollection])

	_, err = store.LatestPrediction(context.Background(), storage.CropCollection, "farmer1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestHistoryUnavailableWithoutStore(t *testing.T) {
	server := setupBackend(t, nil, nil)

	getStatus(t, server.URL+"/api/user/prediction-history?userId=farmer1", http.StatusServiceUnavailable, nil)
	getStatus(t, server.URL+"/api/user/profile?userId=farmer1", http.StatusServiceUnavailable, nil)
}

func TestProfileLifecycle(t *testing.T) {
	store := storage.NewMemoryStore()
	server := setupBackend(t, store, nil)

	getStatus(t, server.URL+"/api/user/profile?userId=farmer1", http.StatusNotFound, nil)

	profile := api.UserProfile{UserId: "farmer1", Name: "Asha", Location: "Karnataka", FarmSize: "2 hectares"}
	var created api.ProfileResponse
	postJSON(t, server.URL+"/api/user/profile", profile, http.StatusOK, &created)
	assert.True(t, created.Success)

	// Second create is rejected.
	postJSON(t, server.URL+"/api/user/profile", profile, http.StatusBadRequest, nil)

	var fetched api.UserProfile
	getStatus(t, server.URL+"/api/user/profile?userId=farmer1", http.StatusOK, &fetched)
	assert.Equal(t, "Asha", fetched.Name)

	profile.Location = "Tamil Nadu"
	body, err := json.Marshal(profile)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPut, server.URL+"/api/user/profile", bytes.NewReader(body))
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	getStatus(t, server.URL+"/api/user/profile?userId=farmer1", http.StatusOK, &fetched)
	assert.Equal(t, "Tamil Nadu", fetched.Location)
}

func TestGenerateDetailedReport(t *testing.T) {
	store := storage.NewMemoryStore()
	server := setupBackend(t, store, echoLLM{})

	getStatus(t, server.URL+"/api/generate-detailed-report", http.StatusMethodNotAllowed, nil)

	postJSON(t, server.URL+"/api/generate-detailed-report?userId=farmer1&predictionType=weather", nil, http.StatusBadRequest, nil)
	postJSON(t, server.URL+"/api/generate-detailed-report?userId=farmer1&predictionType=crop", nil, http.StatusNotFound, nil)

	postJSON(t, server.URL+"/api/predict-crop", cropRequest(), http.StatusOK, nil)

	var report narrative.Report
	postJSON(t, server.URL+"/api/generate-detailed-report?userId=farmer1&predictionType=crop", nil, http.StatusOK, &report)
	assert.True(t, report.Success)
	assert.Equal(t, "crop_recommendation", report.ReportType)
	assert.Equal(t, "Generated narrative.", report.DetailedReport)
	assert.Equal(t, 0, report.HistoryCount)
}

func TestHealth(t *testing.T) {
	server := setupBackend(t, storage.NewMemoryStore(), nil)

	var health api.HealthResponse
	getStatus(t, server.URL+"/health", http.StatusOK, &health)
	assert.Equal(t, "healthy", health.Status)
	assert.True(t, health.ModelsLoaded.Crop)
	assert.True(t, health.Database.Connected)

	serverNoStore := setupBackend(t, nil, nil)
	getStatus(t, serverNoStore.URL+"/health", http.StatusOK, &health)
	assert.False(t, health.Database.Connected)
	assert.Equal(t, "In-Memory", health.Database.Type)
}

func TestRoot(t *testing.T) {
	server := setupBackend(t, storage.NewMemoryStore(), nil)

	var root map[string]any
	getStatus(t, server.URL+"/", http.StatusOK, &root)
	assert.Equal(t, "running", root["status"])
	assert.Contains(t, root["available_endpoints"], "/api/predict-crop")
}
