package webhooks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupReceiver(t *testing.T) *httptest.Server {
	t.Helper()
	router := chi.NewRouter()
	NewReceiver().AddRoutes(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func postAlert(t *testing.T, url string, payload map[string]any) map[string]any {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	res, err := http.Post(url+"/webhook-test/trigger-email-alert", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return out
}

func getJSON(t *testing.T, url string) map[string]any {
	t.Helper()
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return out
}

func TestReceiveAlert(t *testing.T) {
	server := setupReceiver(t)

	out := postAlert(t, server.URL, map[string]any{
		"prediction": map[string]any{
			"plant": "Tomato", "disease": "Early Blight", "confidence": 92.5, "severity": "Moderate",
		},
	})
	assert.Equal(t, "success", out["status"])
	assert.Equal(t, float64(1), out["total_received"])
	assert.NotEmpty(t, out["received_at"])

	latest := getJSON(t, server.URL+"/webhook-latest")
	assert.Equal(t, true, latest["found"])
	webhook := latest["webhook"].(map[string]any)
	prediction := webhook["payload"].(map[string]any)["prediction"].(map[string]any)
	assert.Equal(t, "Early Blight", prediction["disease"])
}

func TestReceiveAlertRejectsBadJSON(t *testing.T) {
	server := setupReceiver(t)

	res, err := http.Post(server.URL+"/webhook-test/trigger-email-alert", "application/json", bytes.NewReader([]byte("not json")))
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestHistoryLimit(t *testing.T) {
	server := setupReceiver(t)

	for i := 0; i < 15; i++ {
		postAlert(t, server.URL, map[string]any{"index": i})
	}

	out := getJSON(t, server.URL+"/webhook-history")
	assert.Equal(t, float64(15), out["total_count"])
	webhooks := out["webhooks"].([]any)
	require.Len(t, webhooks, 10)

	// Default window holds the newest entries.
	last := webhooks[9].(map[string]any)["payload"].(map[string]any)
	assert.Equal(t, float64(14), last["index"])

	out = getJSON(t, server.URL+"/webhook-history?limit=3")
	assert.Len(t, out["webhooks"], 3)
}

func TestHistoryCapacity(t *testing.T) {
	receiver := NewReceiver()
	receiver.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

	router := chi.NewRouter()
	receiver.AddRoutes(router)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	for i := 0; i < historyCapacity+20; i++ {
		postAlert(t, server.URL, map[string]any{"index": i})
	}

	assert.Equal(t, historyCapacity, receiver.count())

	out := getJSON(t, server.URL+fmt.Sprintf("/webhook-history?limit=%d", historyCapacity))
	webhooks := out["webhooks"].([]any)
	first := webhooks[0].(map[string]any)["payload"].(map[string]any)
	assert.Equal(t, float64(20), first["index"])
}

func TestLatestEmpty(t *testing.T) {
	server := setupReceiver(t)

	out := getJSON(t, server.URL+"/webhook-latest")
	assert.Equal(t, false, out["found"])
	assert.Equal(t, "No webhooks received yet", out["message"])
}

func TestClearHistory(t *testing.T) {
	server := setupReceiver(t)

	postAlert(t, server.URL, map[string]any{"a": 1})
	postAlert(t, server.URL, map[string]any{"b": 2})

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/webhook-history", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	assert.Equal(t, "Cleared 2 webhooks from history", out["message"])

	history := getJSON(t, server.URL+"/webhook-history")
	assert.Equal(t, float64(0), history["total_count"])
}

func TestRootAndHealth(t *testing.T) {
	server := setupReceiver(t)
	postAlert(t, server.URL, map[string]any{"a": 1})

	root := getJSON(t, server.URL+"/")
	assert.Equal(t, "running", root["status"])
	assert.Equal(t, float64(1), root["received_count"])

	health := getJSON(t, server.URL+"/health")
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, float64(1), health["webhooks_received"])
}
