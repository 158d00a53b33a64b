package api

import (
	"errors"
	"net/http"
	"time"

	"farmwise-backend/internal/storage"
	"farmwise-backend/pkg/api"
)

type historyParams struct {
	UserId         string `schema:"userId"`
	PredictionType string `schema:"predictionType"`
	Limit          int    `schema:"limit"`
}

func (s *BackendService) GetPredictionHistory(r *http.Request) (any, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}

	params, err := ParseRequestQueryParams[historyParams](r)
	if err != nil {
		return nil, err
	}
	if params.UserId == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "missing userId query parameter")
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	history := api.HistoryResponse{
		UserId:                params.UserId,
		CropPredictions:       []api.PredictionRecord{},
		FertilizerPredictions: []api.PredictionRecord{},
		YieldPredictions:      []api.PredictionRecord{},
	}

	fetch := func(collection string) ([]api.PredictionRecord, error) {
		records, err := s.store.RecentPredictions(r.Context(), collection, params.UserId, limit, false)
		if err != nil {
			return nil, CodedErrorf(http.StatusInternalServerError, "failed to fetch prediction history: %v", err)
		}
		return toRecordResponses(records), nil
	}

	if params.PredictionType == "" || params.PredictionType == "crop" {
		if history.CropPredictions, err = fetch(storage.CropCollection); err != nil {
			return nil, err
		}
	}
	if params.PredictionType == "" || params.PredictionType == "fertilizer" {
		if history.FertilizerPredictions, err = fetch(storage.FertilizerCollection); err != nil {
			return nil, err
		}
	}
	if params.PredictionType == "" || params.PredictionType == "yield" {
		if history.YieldPredictions, err = fetch(storage.YieldCollection); err != nil {
			return nil, err
		}
	}

	return history, nil
}

type userIdParams struct {
	UserId string `schema:"userId"`
}

func (s *BackendService) DeletePredictionHistory(r *http.Request) (any, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}

	params, err := ParseRequestQueryParams[userIdParams](r)
	if err != nil {
		return nil, err
	}
	if params.UserId == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "missing userId query parameter")
	}

	deleted, err := s.store.DeleteUserPredictions(r.Context(), params.UserId)
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to delete prediction history: %v", err)
	}

	return api.DeleteHistoryResponse{
		Success: true,
		Message: "Prediction history deleted",
		Deleted: deleted,
	}, nil
}

func (s *BackendService) GetProfile(r *http.Request) (any, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}

	params, err := ParseRequestQueryParams[userIdParams](r)
	if err != nil {
		return nil, err
	}
	if params.UserId == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "missing userId query parameter")
	}

	profile, err := s.store.GetProfile(r.Context(), params.UserId)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, CodedErrorf(http.StatusNotFound, "profile not found")
	}
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to fetch profile: %v", err)
	}

	return toProfileResponse(profile), nil
}

func (s *BackendService) CreateProfile(r *http.Request) (any, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}

	req, err := ParseRequest[api.UserProfile](r)
	if err != nil {
		return nil, err
	}
	if req.UserId == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "missing userId field")
	}

	if _, err := s.store.GetProfile(r.Context(), req.UserId); err == nil {
		return nil, CodedErrorf(http.StatusBadRequest, "profile already exists, use PUT to update")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to check profile: %v", err)
	}

	now := time.Now().UTC()
	profile := storage.UserProfile{
		UserId:     req.UserId,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Location:   req.Location,
		FarmSize:   req.FarmSize,
		Experience: req.Experience,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.SaveProfile(r.Context(), profile); err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to create profile: %v", err)
	}

	return api.ProfileResponse{
		Success: true,
		Message: "Profile created successfully",
		Profile: req,
	}, nil
}

func (s *BackendService) UpdateProfile(r *http.Request) (any, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}

	req, err := ParseRequest[api.UserProfile](r)
	if err != nil {
		return nil, err
	}
	if req.UserId == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "missing userId field")
	}

	profile := storage.UserProfile{
		UserId:     req.UserId,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Location:   req.Location,
		FarmSize:   req.FarmSize,
		Experience: req.Experience,
		UpdatedAt:  time.Now().UTC(),
	}
	if existing, err := s.store.GetProfile(r.Context(), req.UserId); err == nil {
		profile.CreatedAt = existing.CreatedAt
	} else {
		profile.CreatedAt = profile.UpdatedAt
	}

	if err := s.store.SaveProfile(r.Context(), profile); err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to update profile: %v", err)
	}

	return api.ProfileResponse{
		Success: true,
		Message: "Profile updated successfully",
		Profile: req,
	}, nil
}
