package narrative

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"farmwise-backend/internal/storage"
)

// Prediction type names accepted by the notification and report
// endpoints. They double as the predictionType field on stored records.
const (
	TypeCrop       = "crop"
	TypeFertilizer = "fertilizer"
	TypeYield      = "yield"
	TypeDisease    = "disease"
)

const defaultTimeout = 5 * time.Second

// Report is the envelope for a generated detailed report. On failure only
// Success and Message are set and the caller decides the HTTP status.
type Report struct {
	Success           bool           `json:"success"`
	Message           string         `json:"message,omitempty"`
	ReportType        string         `json:"report_type,omitempty"`
	GeneratedAt       string         `json:"generated_at,omitempty"`
	PredictionSummary map[string]any `json:"prediction_summary,omitempty"`
	DetailedReport    string         `json:"detailed_report,omitempty"`
	HistoryCount      int            `json:"history_count"`
}

// Narrator turns prediction records into farmer-facing text. With no LLM
// configured, or when the provider errs or exceeds the timeout, it falls
// back to a deterministic message so predictions are never blocked on the
// narrative layer.
type Narrator struct {
	llm     LLM
	timeout time.Duration
}

func NewNarrator(llm LLM) *Narrator {
	return &Narrator{llm: llm, timeout: defaultTimeout}
}

func (n *Narrator) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()
	return n.llm.Generate(ctx, prompt)
}

// Notification returns a short message summarizing the prediction against
// the user's recent history. It never fails; degraded modes return canned
// text naming the result.
func (n *Narrator) Notification(ctx context.Context, predictionType string, current storage.PredictionRecord, history []storage.PredictionRecord) string {
	if n.llm == nil {
		return disabledNotification(predictionType)
	}

	var prompt string
	switch predictionType {
	case TypeCrop:
		prompt = cropNotificationPrompt(current, history)
	case TypeFertilizer:
		prompt = fertilizerNotificationPrompt(current, history)
	case TypeYield:
		prompt = yieldNotificationPrompt(current, history)
	case TypeDisease:
		prompt = diseaseNotificationPrompt(current, history)
	default:
		return disabledNotification(predictionType)
	}

	text, err := n.generate(ctx, prompt)
	if err != nil {
		slog.Warn("notification generation failed", "type", predictionType, "error", err)
		return fallbackNotification(predictionType, current)
	}
	return text
}

// DetailedReport generates the full consultant-style report for the
// prediction. Provider failures return an unsuccessful Report rather than
// an error so the handler can relay the message as-is.
func (n *Narrator) DetailedReport(ctx context.Context, predictionType string, current storage.PredictionRecord, history []storage.PredictionRecord) Report {
	if n.llm == nil {
		return Report{Success: false, Message: "Report generation not configured. Please set an LLM API key."}
	}

	var prompt string
	var reportType string
	switch predictionType {
	case TypeCrop:
		prompt, reportType = cropReportPrompt(current, history), "crop_recommendation"
	case TypeFertilizer:
		prompt, reportType = fertilizerReportPrompt(current, history), "fertilizer_recommendation"
	case TypeYield:
		prompt, reportType = yieldReportPrompt(current, history), "yield_prediction"
	case TypeDisease:
		prompt, reportType = diseaseReportPrompt(current, history), "disease_detection"
	default:
		return Report{Success: false, Message: fmt.Sprintf("unknown prediction type %q", predictionType)}
	}

	text, err := n.generate(ctx, prompt)
	if err != nil {
		slog.Warn("report generation failed", "type", predictionType, "error", err)
		return Report{Success: false, Message: fmt.Sprintf("Error generating report: %v", err)}
	}

	return Report{
		Success:           true,
		ReportType:        reportType,
		GeneratedAt:       time.Now().UTC().Format(time.RFC3339),
		PredictionSummary: predictionSummary(predictionType, current),
		DetailedReport:    text,
		HistoryCount:      len(history),
	}
}

func predictionSummary(predictionType string, current storage.PredictionRecord) map[string]any {
	switch predictionType {
	case TypeCrop:
		return map[string]any{
			"recommended_crop": sval(current.Result, "recommended_crop"),
			"confidence":       fval(current.Result, "confidence"),
			"soil_conditions":  current.Input,
		}
	case TypeFertilizer:
		return map[string]any{
			"recommended_fertilizer": sval(current.Result, "recommended_fertilizer"),
			"confidence":             fval(current.Result, "confidence"),
			"npk_values":             mval(current.Result, "npk_values"),
			"soil_type":              sval(current.Input, "soil_type"),
			"crop_type":              sval(current.Input, "crop_type"),
		}
	case TypeYield:
		return map[string]any{
			"predicted_yield": fval(current.Result, "predicted_yield"),
			"crop":            sval(current.Input, "crop"),
			"season":          sval(current.Input, "season"),
			"area":            fval(current.Input, "area"),
		}
	case TypeDisease:
		return map[string]any{
			"plant":          sval(current.Result, "plant"),
			"disease":        sval(current.Result, "disease"),
			"is_healthy":     bval(current.Result, "is_healthy"),
			"confidence":     fval(current.Result, "confidence"),
			"severity":       sval(current.Result, "severity"),
			"detection_date": recordDate(current, "Current date"),
		}
	default:
		return nil
	}
}

func disabledNotification(predictionType string) string {
	switch predictionType {
	case TypeCrop:
		return "Crop recommendation completed. Enable the LLM API for intelligent insights."
	case TypeFertilizer:
		return "Fertilizer recommendation completed. Enable the LLM API for intelligent insights."
	case TypeYield:
		return "Yield prediction completed. Enable the LLM API for intelligent insights."
	case TypeDisease:
		return "Disease detection completed. Enable the LLM API for intelligent insights."
	default:
		return "Prediction completed."
	}
}

func fallbackNotification(predictionType string, current storage.PredictionRecord) string {
	switch predictionType {
	case TypeCrop:
		return fmt.Sprintf("Crop recommendation: %s. Detailed analysis available.", sval(current.Result, "recommended_crop"))
	case TypeFertilizer:
		return fmt.Sprintf("Fertilizer recommendation: %s. Detailed analysis available.", sval(current.Result, "recommended_fertilizer"))
	case TypeYield:
		return fmt.Sprintf("Predicted yield: %g t/ha. Detailed analysis available.", fval(current.Result, "predicted_yield"))
	case TypeDisease:
		return fmt.Sprintf("Detection: %s. Confidence: %g%%. Detailed analysis available.", sval(current.Result, "disease"), fval(current.Result, "confidence"))
	default:
		return "Prediction completed."
	}
}
