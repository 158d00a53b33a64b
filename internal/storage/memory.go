package storage

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-process PredictionStore used by tests and by
// local development when no MongoDB is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	records  map[string][]PredictionRecord
	profiles map[string]UserProfile
}

var _ PredictionStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records:  make(map[string][]PredictionRecord),
		profiles: make(map[string]UserProfile),
	}
}

func (s *MemoryStore) SavePrediction(_ context.Context, collection string, record PredictionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[collection] = append(s.records[collection], record)
	return nil
}

func (s *MemoryStore) userRecords(collection, userId string) []PredictionRecord {
	var matched []PredictionRecord
	for _, record := range s.records[collection] {
		if record.UserId == userId {
			matched = append(matched, record)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})
	return matched
}

func (s *MemoryStore) LatestPrediction(_ context.Context, collection, userId string) (PredictionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.userRecords(collection, userId)
	if len(matched) == 0 {
		return PredictionRecord{}, ErrNotFound
	}
	return matched[0], nil
}

func (s *MemoryStore) RecentPredictions(_ context.Context, collection, userId string, limit int, skipLatest bool) ([]PredictionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.userRecords(collection, userId)
	if skipLatest && len(matched) > 0 {
		matched = matched[1:]
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}

	out := make([]PredictionRecord, len(matched))
	copy(out, matched)
	return out, nil
}

func (s *MemoryStore) DeleteUserPredictions(_ context.Context, userId string) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := make(map[string]int64, len(PredictionCollections))
	for _, collection := range PredictionCollections {
		var kept []PredictionRecord
		for _, record := range s.records[collection] {
			if record.UserId == userId {
				deleted[collection]++
			} else {
				kept = append(kept, record)
			}
		}
		s.records[collection] = kept
	}
	return deleted, nil
}

func (s *MemoryStore) GetProfile(_ context.Context, userId string) (UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[userId]
	if !ok {
		return UserProfile{}, ErrNotFound
	}
	return profile, nil
}

func (s *MemoryStore) SaveProfile(_ context.Context, profile UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserId] = profile
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close(context.Context) error { return nil }
