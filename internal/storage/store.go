package storage

import (
	"context"
	"errors"
	"time"
)

// Collection names, one per prediction pipeline plus user profiles.
// History and report queries address pipelines by these names.
const (
	CropCollection       = "crop_predictions"
	FertilizerCollection = "fertilizer_predictions"
	YieldCollection      = "yield_predictions"
	DiseaseCollection    = "disease_predictions"
	ProfileCollection    = "user_profiles"
)

// PredictionCollections lists the collections that hold prediction
// records, in the order bulk operations report them.
var PredictionCollections = []string{
	CropCollection,
	FertilizerCollection,
	YieldCollection,
	DiseaseCollection,
}

var ErrNotFound = errors.New("record not found")

// PredictionRecord is one persisted prediction: the request fields as
// received, the full result payload returned to the caller, and routing
// metadata. Input and Result are stored as open documents so record
// shapes can evolve with the pipelines without schema migrations.
type PredictionRecord struct {
	Id             string         `bson:"_id"`
	UserId         string         `bson:"userId"`
	PredictionType string         `bson:"predictionType"`
	Timestamp      time.Time      `bson:"timestamp"`
	PredictionDate string         `bson:"prediction_date,omitempty"`
	Timeframe      string         `bson:"timeframe,omitempty"`
	Input          map[string]any `bson:"input"`
	Result         map[string]any `bson:"result"`
}

// UserProfile carries the farmer details used to personalize generated
// reports. Profiles are keyed by the same userId prediction records use.
type UserProfile struct {
	UserId     string    `bson:"_id" json:"userId"`
	Name       string    `bson:"name,omitempty" json:"name,omitempty"`
	Email      string    `bson:"email,omitempty" json:"email,omitempty"`
	Phone      string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Location   string    `bson:"location,omitempty" json:"location,omitempty"`
	FarmSize   string    `bson:"farmSize,omitempty" json:"farmSize,omitempty"`
	Experience string    `bson:"experience,omitempty" json:"experience,omitempty"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PredictionStore persists prediction records and user profiles.
// Implementations must be safe for concurrent use; the API server calls
// them from per-request goroutines.
type PredictionStore interface {
	SavePrediction(ctx context.Context, collection string, record PredictionRecord) error

	// LatestPrediction returns the most recent record for the user, or
	// ErrNotFound when the user has no history in the collection.
	LatestPrediction(ctx context.Context, collection, userId string) (PredictionRecord, error)

	// RecentPredictions returns up to limit records for the user, newest
	// first. When skipLatest is set the newest record is excluded, which
	// report generation uses to separate the current prediction from the
	// history it is compared against.
	RecentPredictions(ctx context.Context, collection, userId string, limit int, skipLatest bool) ([]PredictionRecord, error)

	// DeleteUserPredictions removes the user's records from every
	// prediction collection and reports the deleted count per collection.
	DeleteUserPredictions(ctx context.Context, userId string) (map[string]int64, error)

	GetProfile(ctx context.Context, userId string) (UserProfile, error)
	SaveProfile(ctx context.Context, profile UserProfile) error

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
