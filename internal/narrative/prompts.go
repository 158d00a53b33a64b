package narrative

import (
	"fmt"
	"strings"
	"time"

	"farmwise-backend/internal/storage"
)

// Prompt builders assemble the context an LLM needs from the current
// prediction record and the user's recent history. Records come back from
// the store as open documents, so field access goes through the tolerant
// helpers below; a missing field renders as a zero value rather than
// aborting the narrative.

const maxHistoryEntries = 5

func fval(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func sval(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func bval(m map[string]any, key string) bool {
	v, _ := m[key].(bool)
	return v
}

func mval(m map[string]any, key string) map[string]any {
	if v, ok := m[key].(map[string]any); ok {
		return v
	}
	return map[string]any{}
}

func recordDate(r storage.PredictionRecord, fallback string) string {
	if r.PredictionDate != "" {
		return r.PredictionDate
	}
	if !r.Timestamp.IsZero() {
		return r.Timestamp.UTC().Format(time.RFC3339)
	}
	return fallback
}

func recordTimeframe(r storage.PredictionRecord, fallback string) string {
	if r.Timeframe != "" {
		return r.Timeframe
	}
	return fallback
}

func signed(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+%.1f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

func signed2(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+%.2f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func nutrientTrend(change float64) string {
	switch {
	case change > 0:
		return "improved"
	case change < 0:
		return "depleted"
	default:
		return "stable"
	}
}

func cropNotificationPrompt(current storage.PredictionRecord, history []storage.PredictionRecord) string {
	historySummary := ""
	if len(history) > 0 {
		historySummary = fmt.Sprintf("Previous recommendation: %s. ", sval(history[0].Result, "recommended_crop"))
	}

	return fmt.Sprintf(`You are an agricultural AI assistant. Generate a brief, friendly notification message (max 2 sentences) for a farmer.

Current Recommendation: %s
Soil NPK: N=%g, P=%g, K=%g
pH: %g, Temperature: %g°C
%s

Create a short, actionable notification that highlights the key insight. Be encouraging and professional.`,
		sval(current.Result, "recommended_crop"),
		fval(current.Input, "N"), fval(current.Input, "P"), fval(current.Input, "K"),
		fval(current.Input, "ph"), fval(current.Input, "temperature"),
		historySummary)
}

func fertilizerNotificationPrompt(current storage.PredictionRecord, history []storage.PredictionRecord) string {
	npk := mval(current.Result, "npk_values")

	historyContext := ""
	if len(history) > 0 {
		prevNPK := mval(history[0].Result, "npk_values")
		prevDate := recordDate(history[0], "previously")

		historyContext = fmt.Sprintf(`Previous Test (%s): N=%g, P=%g, K=%g
Changes: N%s, P%s, K%s. `,
			prevDate,
			fval(prevNPK, "nitrogen"), fval(prevNPK, "phosphorous"), fval(prevNPK, "potassium"),
			signed(fval(npk, "nitrogen")-fval(prevNPK, "nitrogen")),
			signed(fval(npk, "phosphorous")-fval(prevNPK, "phosphorous")),
			signed(fval(npk, "potassium")-fval(prevNPK, "potassium")))
	}

	return fmt.Sprintf(`You are an agricultural AI assistant. Generate a brief notification (max 2-3 sentences) for a farmer about fertilizer recommendation.

Test Date: %s
Expected Results Timeframe: %s
Recommended Fertilizer: %s
Current NPK Levels: N=%g, P=%g, K=%g
Soil Type: %s, Crop: %s
%s

Task: Explain what happened to the soil since the last test (if available). Mention if NPK levels improved, declined, or stayed stable. Provide brief guidance.

Create a short, actionable notification. Be professional and encouraging.`,
		recordDate(current, "today"),
		recordTimeframe(current, "Not specified"),
		sval(current.Result, "recommended_fertilizer"),
		fval(npk, "nitrogen"), fval(npk, "phosphorous"), fval(npk, "potassium"),
		sval(current.Input, "soil_type"), sval(current.Input, "crop_type"),
		historyContext)
}

func yieldNotificationPrompt(current storage.PredictionRecord, history []storage.PredictionRecord) string {
	predictedYield := fval(current.Result, "predicted_yield")

	historyContext := ""
	if len(history) > 0 {
		prevYield := fval(history[0].Result, "predicted_yield")
		change := predictedYield - prevYield
		changePct := 0.0
		if prevYield > 0 {
			changePct = change / prevYield * 100
		}
		historyContext = fmt.Sprintf(`Previous Prediction (%s): %g t/ha
Change: %s t/ha (%s%%). `,
			recordDate(history[0], "previously"), prevYield, signed2(change), signed(changePct))
	}

	return fmt.Sprintf(`You are an agricultural AI assistant. Generate a brief notification (max 2-3 sentences) for a farmer about yield prediction.

Prediction Date: %s
Expected Harvest Timeframe: %s
Predicted Yield: %g tonnes/hectare
Crop: %s, Season: %s, State: %s
%s

Task: Analyze the yield trend. If it's improving, congratulate and explain why. If declining, provide brief guidance. Mention the timeframe.

Create a short, actionable notification. Be professional and encouraging.`,
		recordDate(current, "today"),
		recordTimeframe(current, "Not specified"),
		predictedYield,
		sval(current.Input, "crop"), sval(current.Input, "season"), sval(current.Input, "state"),
		historyContext)
}

func diseaseNotificationPrompt(current storage.PredictionRecord, history []storage.PredictionRecord) string {
	healthStatus := func(healthy bool) string {
		if healthy {
			return "Healthy"
		}
		return "Diseased"
	}

	historyContext := ""
	if len(history) > 0 {
		prev := history[0].Result
		historyContext = fmt.Sprintf(`
Previous Detection (%s): %s - %s
Previous Health Status: %s
`,
			recordDate(history[0], "previously"),
			sval(prev, "plant"), sval(prev, "disease"),
			healthStatus(bval(prev, "is_healthy")))
	}

	return fmt.Sprintf(`You are a plant pathology AI assistant. Generate a brief notification (max 2-3 sentences) for a farmer.

Current Detection (%s):
- Plant: %s
- Disease: %s
- Health Status: %s
- Confidence: %g%%
%s

Task: If there's previous data, ACKNOWLEDGE THE PROGRESS or DETERIORATION of the disease compared to the previous prediction.
If the plant was diseased before and is now healthy, congratulate the farmer on recovery.
If it's getting worse, provide urgent advice.
If it's a new detection, give a brief assessment.

Create a short, actionable notification. Be professional and empathetic.`,
		recordDate(current, "today"),
		sval(current.Result, "plant"), sval(current.Result, "disease"),
		healthStatus(bval(current.Result, "is_healthy")),
		fval(current.Result, "confidence"),
		historyContext)
}

func cropReportPrompt(current storage.PredictionRecord, history []storage.PredictionRecord) string {
	var historyText strings.Builder
	if len(history) > 0 {
		historyText.WriteString("\n\nPREVIOUS PREDICTIONS:\n")
		for i, pred := range truncate(history) {
			fmt.Fprintf(&historyText, "\n%d. Date: %s\n", i+1, recordDate(pred, "Unknown"))
			fmt.Fprintf(&historyText, "   Crop: %s\n", sval(pred.Result, "recommended_crop"))
			fmt.Fprintf(&historyText, "   NPK: N=%g, P=%g, K=%g\n",
				fval(pred.Input, "N"), fval(pred.Input, "P"), fval(pred.Input, "K"))
			fmt.Fprintf(&historyText, "   pH: %g, Temp: %g°C\n",
				fval(pred.Input, "ph"), fval(pred.Input, "temperature"))
		}
	}

	return fmt.Sprintf(`You are an expert agricultural consultant AI. Generate a comprehensive, professional report for a farmer about their crop recommendation.

CURRENT RECOMMENDATION:
- Recommended Crop: %s
- Confidence: %g%%
- Soil NPK Values: N=%g, P=%g, K=%g
- pH Level: %g
- Temperature: %g°C
- Humidity: %g%%
- Rainfall: %gmm
%s

Generate a detailed report with the following sections:

1. EXECUTIVE SUMMARY (2-3 sentences)
2. SOIL HEALTH ANALYSIS
   - Compare current NPK levels with previous predictions (if available)
   - Analyze pH trends and soil condition improvements/deteriorations
3. CROP RECOMMENDATION RATIONALE
   - Why this specific crop is recommended
   - Expected benefits and considerations
4. COMPARISON WITH PREVIOUS RECOMMENDATIONS
   - Changes from past recommendations
   - Progress in soil conditions
5. ACTIONABLE STEPS
   - List 4-5 specific, practical steps the farmer should take
6. PROFESSIONAL ADVICE
   - Best practices for the recommended crop
   - Risk mitigation strategies
   - Expected timeline

Format the report in a professional, farmer-friendly manner. Use bullet points and clear sections.`,
		sval(current.Result, "recommended_crop"),
		fval(current.Result, "confidence"),
		fval(current.Input, "N"), fval(current.Input, "P"), fval(current.Input, "K"),
		fval(current.Input, "ph"),
		fval(current.Input, "temperature"),
		fval(current.Input, "humidity"),
		fval(current.Input, "rainfall"),
		historyText.String())
}

func fertilizerReportPrompt(current storage.PredictionRecord, history []storage.PredictionRecord) string {
	npk := mval(current.Result, "npk_values")
	currentDate := recordDate(current, "Current date")

	var historyText, soilChanges, timeBetween strings.Builder
	if len(history) > 0 {
		historyText.WriteString("\n\nPREVIOUS FERTILIZER APPLICATIONS:\n")
		for i, pred := range truncate(history) {
			prevNPK := mval(pred.Result, "npk_values")
			fmt.Fprintf(&historyText, "\n%d. Test Date: %s (Timeframe: %s)\n",
				i+1, recordDate(pred, "Unknown"), recordTimeframe(pred, "N/A"))
			fmt.Fprintf(&historyText, "   Fertilizer: %s\n", sval(pred.Result, "recommended_fertilizer"))
			fmt.Fprintf(&historyText, "   NPK: N=%g, P=%g, K=%g\n",
				fval(prevNPK, "nitrogen"), fval(prevNPK, "phosphorous"), fval(prevNPK, "potassium"))
		}

		prevNPK := mval(history[0].Result, "npk_values")
		prevDate := recordDate(history[0], "Previous test")
		nChange := fval(npk, "nitrogen") - fval(prevNPK, "nitrogen")
		pChange := fval(npk, "phosphorous") - fval(prevNPK, "phosphorous")
		kChange := fval(npk, "potassium") - fval(prevNPK, "potassium")

		fmt.Fprintf(&timeBetween, "\nTime Between Tests: %s to %s", prevDate, currentDate)
		fmt.Fprintf(&soilChanges, "\n\nSOIL NUTRIENT CHANGES (Since %s):\n", prevDate)
		fmt.Fprintf(&soilChanges, "- Nitrogen: %s (%s)\n", signed2(nChange), nutrientTrend(nChange))
		fmt.Fprintf(&soilChanges, "- Phosphorous: %s (%s)\n", signed2(pChange), nutrientTrend(pChange))
		fmt.Fprintf(&soilChanges, "- Potassium: %s (%s)\n", signed2(kChange), nutrientTrend(kChange))
	}

	return fmt.Sprintf(`You are an expert soil scientist and agricultural consultant. Generate a comprehensive report about fertilizer recommendation and soil health.

CURRENT RECOMMENDATION:
- Test Date: %s
- Expected Results Timeframe: %s
- Recommended Fertilizer: %s
- Confidence: %g%%
- Current NPK Levels: N=%g, P=%g, K=%g
- Soil Type: %s
- Crop Type: %s
- Temperature: %g°C
- Humidity: %g%%
- Moisture: %g%%
%s
%s
%s

Generate a detailed report with the following sections:

1. EXECUTIVE SUMMARY (2-3 sentences)
2. SOIL HEALTH ASSESSMENT
   - Current NPK status and what it means
   - Soil type characteristics and their impact
3. WHAT HAPPENED TO THE SOIL SINCE LAST APPLICATION
   - Analyze nutrient changes from previous prediction
   - Identify improvements or depletions
   - Explain causes of changes
4. CURRENT SOIL IMPROVEMENT ANALYSIS
   - How the soil has improved or changed
   - Impact of previous fertilizer applications
   - Current soil fertility status
5. FERTILIZER RECOMMENDATION RATIONALE
   - Why this specific fertilizer is recommended
   - Expected benefits and outcomes
6. APPLICATION GUIDELINES
   - Timing and dosage recommendations
   - Application method
   - Precautions
7. ACTIONABLE STEPS
   - 4-5 specific steps for the farmer
8. PROFESSIONAL ADVICE
   - Best practices for soil management
   - Long-term soil health strategies

Format professionally with clear sections and bullet points.`,
		currentDate,
		recordTimeframe(current, "Not specified"),
		sval(current.Result, "recommended_fertilizer"),
		fval(current.Result, "confidence"),
		fval(npk, "nitrogen"), fval(npk, "phosphorous"), fval(npk, "potassium"),
		sval(current.Input, "soil_type"),
		sval(current.Input, "crop_type"),
		fval(current.Input, "temperature"),
		fval(current.Input, "humidity"),
		fval(current.Input, "moisture"),
		timeBetween.String(), soilChanges.String(), historyText.String())
}

func yieldReportPrompt(current storage.PredictionRecord, history []storage.PredictionRecord) string {
	predictedYield := fval(current.Result, "predicted_yield")
	currentDate := recordDate(current, "Current date")

	var historyText, yieldTrend, timeAnalysis strings.Builder
	if len(history) > 0 {
		historyText.WriteString("\n\nPREVIOUS YIELD PREDICTIONS:\n")
		for i, pred := range truncate(history) {
			fmt.Fprintf(&historyText, "\n%d. Prediction Date: %s (Harvest Timeframe: %s)\n",
				i+1, recordDate(pred, "Unknown"), recordTimeframe(pred, "N/A"))
			fmt.Fprintf(&historyText, "   Predicted Yield: %g t/ha\n", fval(pred.Result, "predicted_yield"))
			fmt.Fprintf(&historyText, "   Crop: %s, Season: %s\n",
				sval(pred.Input, "crop"), sval(pred.Input, "season"))
			fmt.Fprintf(&historyText, "   Fertilizer: %g kg/ha, Pesticide: %g kg/ha\n",
				fval(pred.Input, "fertilizer"), fval(pred.Input, "pesticide"))
		}

		prevYield := fval(history[0].Result, "predicted_yield")
		prevDate := recordDate(history[0], "Previous prediction")
		change := predictedYield - prevYield
		changePct := 0.0
		if prevYield > 0 {
			changePct = change / prevYield * 100
		}
		trend := "Stable"
		if change > 0 {
			trend = "Improving"
		} else if change < 0 {
			trend = "Declining"
		}

		fmt.Fprintf(&timeAnalysis, "\nTime Between Predictions: %s to %s", prevDate, currentDate)
		yieldTrend.WriteString("\n\nYIELD TREND ANALYSIS:\n")
		fmt.Fprintf(&yieldTrend, "- Previous Prediction (%s): %g t/ha\n", prevDate, prevYield)
		fmt.Fprintf(&yieldTrend, "- Current Prediction (%s): %g t/ha\n", currentDate, predictedYield)
		fmt.Fprintf(&yieldTrend, "- Change: %s t/ha (%s%%)\n", signed2(change), signed(changePct))
		fmt.Fprintf(&yieldTrend, "- Trend: %s\n", trend)
	}

	return fmt.Sprintf(`You are an expert agricultural economist and crop yield specialist. Generate a comprehensive yield prediction report.

CURRENT PREDICTION:
- Prediction Date: %s
- Expected Harvest Timeframe: %s
- Predicted Yield: %g tonnes per hectare
- Crop: %s
- Season: %s
- State: %s
- Cultivation Area: %g hectares
- Annual Rainfall: %g mm
- Fertilizer Usage: %g kg/ha
- Pesticide Usage: %g kg/ha
%s
%s
%s

Generate a detailed report with the following sections:

1. EXECUTIVE SUMMARY (2-3 sentences)
2. YIELD PREDICTION ANALYSIS
   - What the predicted yield means
   - Comparison with typical yields for this crop
3. COMPARISON WITH PREVIOUS PREDICTIONS
   - How yield has changed from previous predictions
   - Factors contributing to improvement or decline
   - Impact of input changes (fertilizer, pesticide)
4. FACTORS INFLUENCING YIELD
   - Rainfall impact
   - Fertilizer effectiveness
   - Regional considerations
5. OPTIMIZATION OPPORTUNITIES
   - How to potentially improve yield
   - Input adjustment recommendations
6. ACTIONABLE STEPS
   - 4-5 specific steps to achieve or exceed predicted yield
7. PROFESSIONAL ADVICE
   - Best practices for yield maximization
   - Risk management strategies
   - Market considerations
8. FINANCIAL PROJECTION
   - Expected production volume
   - Considerations for planning

Format professionally with clear sections and actionable insights.`,
		currentDate,
		recordTimeframe(current, "Not specified"),
		predictedYield,
		sval(current.Input, "crop"),
		sval(current.Input, "season"),
		sval(current.Input, "state"),
		fval(current.Input, "area"),
		fval(current.Input, "annual_rainfall"),
		fval(current.Input, "fertilizer"),
		fval(current.Input, "pesticide"),
		timeAnalysis.String(), yieldTrend.String(), historyText.String())
}

func diseaseReportPrompt(current storage.PredictionRecord, history []storage.PredictionRecord) string {
	healthStatus := func(healthy bool) string {
		if healthy {
			return "Healthy"
		}
		return "Diseased"
	}

	disease := sval(current.Result, "disease")
	isHealthy := bval(current.Result, "is_healthy")
	currentDate := recordDate(current, "Current date")

	var historyText, progress strings.Builder
	if len(history) > 0 {
		historyText.WriteString("\n\nPREVIOUS DISEASE DETECTIONS:\n")
		for i, pred := range truncate(history) {
			fmt.Fprintf(&historyText, "\n%d. Detection Date: %s (Timeframe: %s)\n",
				i+1, recordDate(pred, "Date unknown"), recordTimeframe(pred, "N/A"))
			fmt.Fprintf(&historyText, "   Plant: %s\n", sval(pred.Result, "plant"))
			fmt.Fprintf(&historyText, "   Disease: %s\n", sval(pred.Result, "disease"))
			fmt.Fprintf(&historyText, "   Health Status: %s\n", healthStatus(bval(pred.Result, "is_healthy")))
			fmt.Fprintf(&historyText, "   Confidence: %g%%\n", fval(pred.Result, "confidence"))
			fmt.Fprintf(&historyText, "   Severity: %s\n", sval(pred.Result, "severity"))
		}

		prev := history[0].Result
		prevDate := recordDate(history[0], "Previous date")
		prevHealthy := bval(prev, "is_healthy")
		switch {
		case prevHealthy && !isHealthy:
			fmt.Fprintf(&progress, "\n\nDISEASE PROGRESSION:\nALERT: Plant was healthy on %s but now shows %s. Early stage disease detected.", prevDate, disease)
		case !prevHealthy && isHealthy:
			fmt.Fprintf(&progress, "\n\nDISEASE PROGRESSION:\nRECOVERY: Plant was affected by %s on %s. Now showing healthy status - treatment successful!", sval(prev, "disease"), prevDate)
		case !prevHealthy && !isHealthy && sval(prev, "disease") == disease:
			fmt.Fprintf(&progress, "\n\nDISEASE PROGRESSION:\nONGOING: Same disease (%s) detected on %s and %s. Continue treatment.", disease, prevDate, currentDate)
		case !prevHealthy && !isHealthy:
			fmt.Fprintf(&progress, "\n\nDISEASE PROGRESSION:\nCHANGED: Previous disease was %s (%s). Now showing %s (%s).", sval(prev, "disease"), prevDate, disease, currentDate)
		}
	}

	var topPredictions strings.Builder
	if tops, ok := current.Result["top_predictions"].([]any); ok {
		for i, entry := range tops {
			top, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			fmt.Fprintf(&topPredictions, "  %d. %s - %s (%g%%)\n",
				i+1, sval(top, "plant"), sval(top, "disease"), fval(top, "confidence"))
		}
	}

	recommendations := mval(current.Result, "recommendations")
	joinList := func(key string) string {
		items, ok := recommendations[key].([]any)
		if !ok {
			return ""
		}
		parts := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	treatment := sval(recommendations, "treatment")
	if treatment == "" {
		treatment = "N/A"
	}

	return fmt.Sprintf(`You are an expert plant pathologist and agricultural consultant. Generate a comprehensive disease detection report for a farmer.

CURRENT DETECTION:
- Detection Date: %s
- Expected Timeframe: %s
- Plant: %s
- Disease: %s
- Health Status: %s
- Confidence: %g%%
- Severity: %s

TOP PREDICTIONS:
%s
CURRENT RECOMMENDATIONS:
Treatment: %s
Prevention: %s
Pesticides: %s
%s
%s

Generate a detailed report with the following sections:

1. EXECUTIVE SUMMARY (2-3 sentences)
   - Current health status and main finding

2. DISEASE PROGRESSION ANALYSIS (CRITICAL SECTION)
   - Compare current detection with previous detections (dates mentioned)
   - Analyze if disease is NEW, ONGOING, RECOVERING, or WORSENING
   - Calculate time between detections and disease development speed
   - Acknowledge farmer's efforts if improvement is seen

3. CURRENT DISEASE ASSESSMENT
   - Detailed analysis of the detected disease
   - Severity level and risk factors
   - Expected impact if untreated

4. COMPARISON WITH PREVIOUS DETECTIONS
   - Timeline of disease history
   - Pattern analysis (recurring, seasonal, etc.)
   - Success or failure of previous treatments

5. TREATMENT RECOMMENDATIONS
   - Immediate actions required
   - Recommended pesticides and application method
   - Treatment timeline based on timeframe

6. PREVENTION STRATEGIES
   - Steps to prevent recurrence
   - Long-term plant health management
   - Environmental factors to monitor

7. ACTIONABLE STEPS (4-6 specific steps)
   - Prioritized action items with timeline

8. PROFESSIONAL ADVICE
   - Expert guidance for this specific situation
   - When to seek additional help
   - Expected recovery timeline

Format professionally with clear sections, bullet points, and empathetic language. If the plant is recovering, congratulate the farmer. If disease is worsening, provide urgent guidance.`,
		currentDate,
		recordTimeframe(current, "Not specified"),
		sval(current.Result, "plant"),
		disease,
		healthStatus(isHealthy),
		fval(current.Result, "confidence"),
		sval(current.Result, "severity"),
		topPredictions.String(),
		treatment,
		joinList("prevention"),
		joinList("pesticides"),
		progress.String(), historyText.String())
}

func truncate(history []storage.PredictionRecord) []storage.PredictionRecord {
	if len(history) > maxHistoryEntries {
		return history[:maxHistoryEntries]
	}
	return history
}
