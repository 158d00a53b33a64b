package schemes

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Scheme is one government agricultural scheme as published in the
// curated dataset. Schemes with state "All India" apply everywhere.
type Scheme struct {
	Id                string   `json:"id"`
	Name              string   `json:"name"`
	Category          string   `json:"category"`
	Description       string   `json:"description"`
	Benefits          string   `json:"benefits"`
	Eligibility       []string `json:"eligibility"`
	DocumentsRequired []string `json:"documents_required"`
	HowToApply        string   `json:"how_to_apply"`
	State             string   `json:"state"`
	Department        string   `json:"department"`
	OfficialWebsite   string   `json:"official_website"`
	Helpline          string   `json:"helpline"`
	LastUpdated       string   `json:"last_updated"`
}

const AllIndia = "All India"

type Dataset struct {
	Schemes    []Scheme `json:"schemes"`
	Categories []string `json:"categories"`
	States     []string `json:"states"`
}

// LoadDataset reads the schemes JSON file. A missing file is logged and
// yields an empty dataset so the service starts and serves empty lists,
// matching how the rest of the system degrades when data is absent.
func LoadDataset(path string) *Dataset {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("schemes dataset not loaded", "path", path, "error", err)
		return &Dataset{}
	}

	var dataset Dataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		slog.Warn("schemes dataset is malformed", "path", path, "error", err)
		return &Dataset{}
	}

	slog.Info("loaded government schemes", "count", len(dataset.Schemes))
	return &dataset
}

// Registry answers scheme queries over an immutable dataset.
type Registry struct {
	dataset *Dataset
}

func NewRegistry(dataset *Dataset) *Registry {
	return &Registry{dataset: dataset}
}

func (r *Registry) Categories() []string { return r.dataset.Categories }

func (r *Registry) States() []string { return r.dataset.States }

func (r *Registry) Count() int { return len(r.dataset.Schemes) }

// Filter returns schemes matching the optional state and category, plus
// the total match count before pagination. State filtering always admits
// nation-wide schemes; "All" in either filter means no filter.
func (r *Registry) Filter(state, category string, offset, limit int) ([]Scheme, int) {
	matched := []Scheme{}
	for _, scheme := range r.dataset.Schemes {
		if !matchesState(scheme, state) || !matchesCategory(scheme, category) {
			continue
		}
		matched = append(matched, scheme)
	}

	total := len(matched)
	if offset > len(matched) {
		offset = len(matched)
	}
	matched = matched[offset:]
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total
}

// Search matches the query case-insensitively against name, description,
// benefits, category, and eligibility entries.
func (r *Registry) Search(query, state, category string) []Scheme {
	q := strings.ToLower(query)

	matched := []Scheme{}
	for _, scheme := range r.dataset.Schemes {
		if !schemeMatchesQuery(scheme, q) {
			continue
		}
		if !matchesState(scheme, state) || !matchesCategory(scheme, category) {
			continue
		}
		matched = append(matched, scheme)
	}
	return matched
}

func (r *Registry) ByCategory(category string) []Scheme {
	matched := []Scheme{}
	for _, scheme := range r.dataset.Schemes {
		if strings.EqualFold(scheme.Category, category) {
			matched = append(matched, scheme)
		}
	}
	return matched
}

func (r *Registry) ByState(state string) []Scheme {
	matched := []Scheme{}
	for _, scheme := range r.dataset.Schemes {
		if scheme.State == state || scheme.State == AllIndia {
			matched = append(matched, scheme)
		}
	}
	return matched
}

func (r *Registry) ById(id string) (Scheme, error) {
	for _, scheme := range r.dataset.Schemes {
		if scheme.Id == id {
			return scheme, nil
		}
	}
	return Scheme{}, fmt.Errorf("scheme %q not found", id)
}

// Stats summarizes the dataset: per-category and per-state counts plus
// the most recent update date across all schemes.
func (r *Registry) Stats() map[string]any {
	byCategory := make(map[string]int, len(r.dataset.Categories))
	for _, category := range r.dataset.Categories {
		byCategory[category] = 0
	}
	byState := make(map[string]int, len(r.dataset.States))
	for _, state := range r.dataset.States {
		byState[state] = 0
	}

	lastUpdated := ""
	for _, scheme := range r.dataset.Schemes {
		if _, ok := byCategory[scheme.Category]; ok {
			byCategory[scheme.Category]++
		}
		if _, ok := byState[scheme.State]; ok {
			byState[scheme.State]++
		}
		if scheme.LastUpdated > lastUpdated {
			lastUpdated = scheme.LastUpdated
		}
	}

	stats := map[string]any{
		"total_schemes":       len(r.dataset.Schemes),
		"total_categories":    len(r.dataset.Categories),
		"total_states":        len(r.dataset.States),
		"schemes_by_category": byCategory,
		"schemes_by_state":    byState,
	}
	if lastUpdated != "" {
		stats["last_updated"] = lastUpdated
	}
	return stats
}

func matchesState(scheme Scheme, state string) bool {
	if state == "" || state == "All" {
		return true
	}
	return scheme.State == state || scheme.State == AllIndia
}

func matchesCategory(scheme Scheme, category string) bool {
	if category == "" || category == "All" {
		return true
	}
	return scheme.Category == category
}

func schemeMatchesQuery(scheme Scheme, q string) bool {
	if strings.Contains(strings.ToLower(scheme.Name), q) ||
		strings.Contains(strings.ToLower(scheme.Description), q) ||
		strings.Contains(strings.ToLower(scheme.Benefits), q) ||
		strings.Contains(strings.ToLower(scheme.Category), q) {
		return true
	}
	for _, entry := range scheme.Eligibility {
		if strings.Contains(strings.ToLower(entry), q) {
			return true
		}
	}
	return false
}
