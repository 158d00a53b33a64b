package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore is the production PredictionStore backed by a MongoDB
// database. One store owns one client; Close releases it.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ PredictionStore = (*MongoStore)(nil)

// NewMongoStore connects to uri, pings the deployment, and ensures the
// timestamp indexes the history queries rely on.
func NewMongoStore(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	store := &MongoStore{client: client, db: client.Database(dbName)}
	if err := store.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	slog.Info("connected to mongodb", "database", dbName)
	return store, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "timestamp", Value: -1}},
	}
	for _, collection := range PredictionCollections {
		if _, err := s.db.Collection(collection).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("creating index on %s: %w", collection, err)
		}
	}
	return nil
}

func (s *MongoStore) SavePrediction(ctx context.Context, collection string, record PredictionRecord) error {
	if _, err := s.db.Collection(collection).InsertOne(ctx, record); err != nil {
		return fmt.Errorf("inserting into %s: %w", collection, err)
	}
	return nil
}

func (s *MongoStore) LatestPrediction(ctx context.Context, collection, userId string) (PredictionRecord, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})

	var record PredictionRecord
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"userId": userId}, opts).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return PredictionRecord{}, ErrNotFound
	}
	if err != nil {
		return PredictionRecord{}, fmt.Errorf("querying %s: %w", collection, err)
	}
	return record, nil
}

func (s *MongoStore) RecentPredictions(ctx context.Context, collection, userId string, limit int, skipLatest bool) ([]PredictionRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))
	if skipLatest {
		opts = opts.SetSkip(1)
	}

	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{"userId": userId}, opts)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	records := []PredictionRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("reading %s results: %w", collection, err)
	}
	return records, nil
}

func (s *MongoStore) DeleteUserPredictions(ctx context.Context, userId string) (map[string]int64, error) {
	deleted := make(map[string]int64, len(PredictionCollections))
	for _, collection := range PredictionCollections {
		result, err := s.db.Collection(collection).DeleteMany(ctx, bson.M{"userId": userId})
		if err != nil {
			return nil, fmt.Errorf("deleting from %s: %w", collection, err)
		}
		deleted[collection] = result.DeletedCount
	}
	return deleted, nil
}

func (s *MongoStore) GetProfile(ctx context.Context, userId string) (UserProfile, error) {
	var profile UserProfile
	err := s.db.Collection(ProfileCollection).FindOne(ctx, bson.M{"_id": userId}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return UserProfile{}, ErrNotFound
	}
	if err != nil {
		return UserProfile{}, fmt.Errorf("querying %s: %w", ProfileCollection, err)
	}
	return profile, nil
}

func (s *MongoStore) SaveProfile(ctx context.Context, profile UserProfile) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.db.Collection(ProfileCollection).ReplaceOne(ctx, bson.M{"_id": profile.UserId}, profile, opts)
	if err != nil {
		return fmt.Errorf("upserting profile: %w", err)
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
