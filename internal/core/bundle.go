package core

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// CropModel bundles everything the crop recommendation pipeline needs:
// the frozen scaler, the crop label encoder, and the ordered base
// estimators. Bundles are loaded once at startup and never mutated, so
// they are shared across all concurrent requests without locking.
type CropModel struct {
	Scaler    *StandardScaler
	Labels    *LabelEncoder
	BaseNames []string
	Base      []Estimator
}

func (m *CropModel) Recommend(in CropInput) (Classification, error) {
	features, err := m.Encode(in)
	if err != nil {
		return Classification{}, err
	}
	return classify(m.Base, m.Labels, features)
}

type FertilizerModel struct {
	Scaler    *StandardScaler
	Labels    *LabelEncoder
	BaseNames []string
	Base      []Estimator
}

func (m *FertilizerModel) Recommend(in FertilizerInput) (Classification, error) {
	features, err := m.Encode(in)
	if err != nil {
		return Classification{}, err
	}
	return classify(m.Base, m.Labels, features)
}

type YieldModel struct {
	Scaler    *StandardScaler
	BaseNames []string
	Base      []Estimator
	Meta      Estimator
}

func (m *YieldModel) Predict(in YieldInput) (Regression, error) {
	features, err := m.Encode(in)
	if err != nil {
		return Regression{}, err
	}
	return regress(m.Base, m.Meta, features)
}

// ModelArtifacts holds the loaded bundles for all three pipelines. A nil
// field means that artifact failed to load; the corresponding endpoint
// reports service-unavailable instead of attempting inference.
type ModelArtifacts struct {
	Crop       *CropModel
	Fertilizer *FertilizerModel
	Yield      *YieldModel
}

const (
	CropArtifactFile       = "crop_recommendation_ensemble.json"
	FertilizerArtifactFile = "fertilizer_recommendation_ensemble.json"
	YieldArtifactFile      = "yield_prediction_ensemble.json"
)

type artifactFile struct {
	Features   []string        `json:"features"`
	Scaler     *StandardScaler `json:"scaler"`
	Labels     *LabelEncoder   `json:"labels"`
	BaseModels []estimatorSpec `json:"base_models"`
	MetaModel  *estimatorSpec  `json:"meta_model"`
}

// LoadModels loads whichever artifacts exist under dir. A missing or
// corrupt artifact is logged and leaves its bundle nil; the server still
// starts so the remaining pipelines stay available.
func LoadModels(dir string) *ModelArtifacts {
	models := &ModelArtifacts{}

	crop, err := LoadCropModel(filepath.Join(dir, CropArtifactFile))
	if err != nil {
		slog.Warn("crop recommendation model not loaded", "error", err)
	} else {
		models.Crop = crop
		slog.Info("crop recommendation model loaded", "base_models", crop.BaseNames, "classes", len(crop.Labels.Classes))
	}

	fertilizer, err := LoadFertilizerModel(filepath.Join(dir, FertilizerArtifactFile))
	if err != nil {
		slog.Warn("fertilizer recommendation model not loaded", "error", err)
	} else {
		models.Fertilizer = fertilizer
		slog.Info("fertilizer recommendation model loaded", "base_models", fertilizer.BaseNames, "classes", len(fertilizer.Labels.Classes))
	}

	yield, err := LoadYieldModel(filepath.Join(dir, YieldArtifactFile))
	if err != nil {
		slog.Warn("yield prediction model not loaded", "error", err)
	} else {
		models.Yield = yield
		slog.Info("yield prediction model loaded", "base_models", yield.BaseNames)
	}

	return models
}

func LoadCropModel(path string) (*CropModel, error) {
	artifact, err := readArtifact(path)
	if err != nil {
		return nil, err
	}
	if artifact.Labels == nil || len(artifact.Labels.Classes) == 0 {
		return nil, fmt.Errorf("artifact %s has no label encoder", path)
	}
	names, base, err := loadBaseEstimators(artifact)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", path, err)
	}
	return &CropModel{Scaler: artifact.Scaler, Labels: artifact.Labels, BaseNames: names, Base: base}, nil
}

func LoadFertilizerModel(path string) (*FertilizerModel, error) {
	artifact, err := readArtifact(path)
	if err != nil {
		return nil, err
	}
	if artifact.Labels == nil || len(artifact.Labels.Classes) == 0 {
		return nil, fmt.Errorf("artifact %s has no label encoder", path)
	}
	names, base, err := loadBaseEstimators(artifact)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", path, err)
	}
	return &FertilizerModel{Scaler: artifact.Scaler, Labels: artifact.Labels, BaseNames: names, Base: base}, nil
}

func LoadYieldModel(path string) (*YieldModel, error) {
	artifact, err := readArtifact(path)
	if err != nil {
		return nil, err
	}
	if artifact.MetaModel == nil {
		return nil, fmt.Errorf("artifact %s has no meta model", path)
	}
	names, base, err := loadBaseEstimators(artifact)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", path, err)
	}
	meta, err := loadEstimator(*artifact.MetaModel)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", path, err)
	}
	return &YieldModel{Scaler: artifact.Scaler, BaseNames: names, Base: base, Meta: meta}, nil
}

func readArtifact(path string) (*artifactFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model artifact: %w", err)
	}

	var artifact artifactFile
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("parsing model artifact %s: %w", path, err)
	}
	if artifact.Scaler == nil {
		return nil, fmt.Errorf("artifact %s has no scaler", path)
	}
	if len(artifact.BaseModels) == 0 {
		return nil, fmt.Errorf("artifact %s has no base models", path)
	}
	return &artifact, nil
}

func loadBaseEstimators(artifact *artifactFile) ([]string, []Estimator, error) {
	names := make([]string, len(artifact.BaseModels))
	base := make([]Estimator, len(artifact.BaseModels))
	for i, spec := range artifact.BaseModels {
		est, err := loadEstimator(spec)
		if err != nil {
			return nil, nil, err
		}
		names[i] = spec.Name
		base[i] = est
	}
	return names, base, nil
}
