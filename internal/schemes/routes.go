package schemes

import (
	"net/http"

	"farmwise-backend/internal/api"

	"github.com/go-chi/chi/v5"
)

type Service struct {
	registry *Registry
}

func NewService(registry *Registry) *Service {
	return &Service{registry: registry}
}

func (s *Service) AddRoutes(r chi.Router) {
	r.Get("/", api.RestHandler(s.Root))
	r.Get("/health", api.RestHandler(s.Health))
	r.Route("/api/schemes", func(r chi.Router) {
		r.Get("/", api.RestHandler(s.ListSchemes))
		r.Get("/search", api.RestHandler(s.SearchSchemes))
		r.Get("/filters", api.RestHandler(s.FilterOptions))
		r.Get("/stats", api.RestHandler(s.SchemeStats))
		r.Get("/category/{category}", api.RestHandler(s.SchemesByCategory))
		r.Get("/state/{state}", api.RestHandler(s.SchemesByState))
		r.Get("/{scheme_id}", api.RestHandler(s.SchemeById))
	})
}

func (s *Service) Root(r *http.Request) (any, error) {
	return map[string]any{
		"message":       "Government Schemes API",
		"version":       "1.0.0",
		"total_schemes": s.registry.Count(),
		"endpoints": map[string]string{
			"schemes":        "/api/schemes",
			"scheme_detail":  "/api/schemes/{scheme_id}",
			"filter_options": "/api/schemes/filters",
			"search":         "/api/schemes/search",
		},
	}, nil
}

func (s *Service) Health(r *http.Request) (any, error) {
	return map[string]any{
		"status":         "healthy",
		"schemes_loaded": s.registry.Count(),
		"categories":     len(s.registry.Categories()),
		"states":         len(s.registry.States()),
	}, nil
}

type listParams struct {
	State    string `schema:"state"`
	Category string `schema:"category"`
	Limit    int    `schema:"limit"`
	Offset   int    `schema:"offset"`
}

func (s *Service) ListSchemes(r *http.Request) (any, error) {
	params, err := api.ParseRequestQueryParams[listParams](r)
	if err != nil {
		return nil, err
	}
	if params.Limit < 0 || params.Offset < 0 {
		return nil, api.CodedErrorf(http.StatusBadRequest, "limit and offset must be non-negative")
	}

	matched, total := s.registry.Filter(params.State, params.Category, params.Offset, params.Limit)
	return map[string]any{
		"total":      total,
		"schemes":    matched,
		"categories": s.registry.Categories(),
		"states":     s.registry.States(),
	}, nil
}

type searchParams struct {
	Query    string `schema:"q"`
	State    string `schema:"state"`
	Category string `schema:"category"`
}

func (s *Service) SearchSchemes(r *http.Request) (any, error) {
	params, err := api.ParseRequestQueryParams[searchParams](r)
	if err != nil {
		return nil, err
	}
	if params.Query == "" {
		return nil, api.CodedErrorf(http.StatusBadRequest, "missing search query parameter 'q'")
	}

	matched := s.registry.Search(params.Query, params.State, params.Category)
	return map[string]any{
		"total":      len(matched),
		"query":      params.Query,
		"schemes":    matched,
		"categories": s.registry.Categories(),
		"states":     s.registry.States(),
	}, nil
}

func (s *Service) FilterOptions(r *http.Request) (any, error) {
	return map[string]any{
		"categories": s.registry.Categories(),
		"states":     s.registry.States(),
	}, nil
}

func (s *Service) SchemeStats(r *http.Request) (any, error) {
	return s.registry.Stats(), nil
}

func (s *Service) SchemesByCategory(r *http.Request) (any, error) {
	category := chi.URLParam(r, "category")

	matched := s.registry.ByCategory(category)
	if len(matched) == 0 {
		return nil, api.CodedErrorf(http.StatusNotFound, "no schemes found in category '%s'", category)
	}
	return map[string]any{
		"category": category,
		"total":    len(matched),
		"schemes":  matched,
	}, nil
}

func (s *Service) SchemesByState(r *http.Request) (any, error) {
	state := chi.URLParam(r, "state")

	matched := s.registry.ByState(state)
	if len(matched) == 0 {
		return nil, api.CodedErrorf(http.StatusNotFound, "no schemes found for state '%s'", state)
	}
	return map[string]any{
		"state":   state,
		"total":   len(matched),
		"schemes": matched,
	}, nil
}

func (s *Service) SchemeById(r *http.Request) (any, error) {
	id := chi.URLParam(r, "scheme_id")

	scheme, err := s.registry.ById(id)
	if err != nil {
		return nil, api.CodedErrorf(http.StatusNotFound, "scheme with ID '%s' not found", id)
	}
	return scheme, nil
}
