package webhooks

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"farmwise-backend/internal/api"

	"github.com/go-chi/chi/v5"
)

// historyCapacity bounds the in-memory webhook log; older entries are
// dropped once the receiver has seen more than this many alerts.
const historyCapacity = 100

type Entry struct {
	ReceivedAt string         `json:"received_at"`
	Payload    map[string]any `json:"payload"`
}

// Receiver collects disease detection alert webhooks in memory so they
// can be inspected during development. It is intentionally stateless
// across restarts.
type Receiver struct {
	mu      sync.Mutex
	history []Entry
	now     func() time.Time
}

func NewReceiver() *Receiver {
	return &Receiver{now: time.Now}
}

func (rc *Receiver) AddRoutes(r chi.Router) {
	r.Get("/", api.RestHandler(rc.Root))
	r.Get("/health", api.RestHandler(rc.Health))
	r.Post("/webhook-test/trigger-email-alert", api.RestHandler(rc.ReceiveAlert))
	r.Get("/webhook-history", api.RestHandler(rc.History))
	r.Get("/webhook-latest", api.RestHandler(rc.Latest))
	r.Delete("/webhook-history", api.RestHandler(rc.ClearHistory))
}

func (rc *Receiver) count() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return len(rc.history)
}

func (rc *Receiver) Root(r *http.Request) (any, error) {
	return map[string]any{
		"service": "Webhook Receiver",
		"status":  "running",
		"endpoints": map[string]string{
			"webhook": "/webhook-test/trigger-email-alert",
			"history": "/webhook-history",
			"latest":  "/webhook-latest",
		},
		"received_count": rc.count(),
	}, nil
}

func (rc *Receiver) Health(r *http.Request) (any, error) {
	return map[string]any{
		"status":            "healthy",
		"service":           "webhook_receiver",
		"webhooks_received": rc.count(),
	}, nil
}

func (rc *Receiver) ReceiveAlert(r *http.Request) (any, error) {
	payload, err := api.ParseRequest[map[string]any](r)
	if err != nil {
		return nil, err
	}

	entry := Entry{
		ReceivedAt: rc.now().Format(time.RFC3339),
		Payload:    payload,
	}

	rc.mu.Lock()
	rc.history = append(rc.history, entry)
	if len(rc.history) > historyCapacity {
		rc.history = rc.history[len(rc.history)-historyCapacity:]
	}
	total := len(rc.history)
	rc.mu.Unlock()

	logAlert(entry, total)

	return map[string]any{
		"status":         "success",
		"message":        "Webhook received successfully",
		"received_at":    entry.ReceivedAt,
		"total_received": total,
	}, nil
}

type historyParams struct {
	Limit int `schema:"limit"`
}

func (rc *Receiver) History(r *http.Request) (any, error) {
	params, err := api.ParseRequestQueryParams[historyParams](r)
	if err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 10
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	start := len(rc.history) - limit
	if start < 0 {
		start = 0
	}
	recent := make([]Entry, len(rc.history)-start)
	copy(recent, rc.history[start:])

	return map[string]any{
		"total_count": len(rc.history),
		"limit":       limit,
		"webhooks":    recent,
	}, nil
}

func (rc *Receiver) Latest(r *http.Request) (any, error) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if len(rc.history) == 0 {
		return map[string]any{
			"found":   false,
			"message": "No webhooks received yet",
		}, nil
	}
	return map[string]any{
		"found":   true,
		"webhook": rc.history[len(rc.history)-1],
	}, nil
}

func (rc *Receiver) ClearHistory(r *http.Request) (any, error) {
	rc.mu.Lock()
	count := len(rc.history)
	rc.history = nil
	rc.mu.Unlock()

	return map[string]any{
		"status":  "success",
		"message": fmt.Sprintf("Cleared %d webhooks from history", count),
	}, nil
}

func logAlert(entry Entry, total int) {
	attrs := []any{"received_at", entry.ReceivedAt, "total_received", total}
	if pred, ok := entry.Payload["prediction"].(map[string]any); ok {
		attrs = append(attrs,
			"plant", pred["plant"],
			"disease", pred["disease"],
			"confidence", pred["confidence"],
			"severity", pred["severity"],
		)
	}
	slog.Info("webhook alert received", attrs...)
}
