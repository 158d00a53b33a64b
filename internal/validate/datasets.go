package validate

// DatasetSummary reports how a cleaning pipeline reshaped a training
// dataset.
type DatasetSummary struct {
	OriginalRows int      `json:"original_rows"`
	CleanedRows  int      `json:"cleaned_rows"`
	UniqueLabels int      `json:"unique_labels"`
	Labels       []string `json:"labels,omitempty"`
}

// CleanCropRecommendation cleans the crop recommendation training set:
// duplicates removed, IQR outliers dropped from every numeric column,
// crop labels normalized, and crops with fewer than 50 samples dropped.
func CleanCropRecommendation(t *Table) (DatasetSummary, error) {
	summary := DatasetSummary{OriginalRows: len(t.Rows)}

	t.Dedupe()
	if err := t.FilterIQROutliers("N", "P", "K", "temperature", "humidity", "ph", "rainfall"); err != nil {
		return summary, err
	}
	if err := t.TitleCase("label"); err != nil {
		return summary, err
	}
	if err := t.MinSupport("label", 50); err != nil {
		return summary, err
	}

	labels, err := t.UniqueValues("label")
	if err != nil {
		return summary, err
	}
	summary.CleanedRows = len(t.Rows)
	summary.UniqueLabels = len(labels)
	summary.Labels = labels
	return summary, nil
}

// CleanFertilizer cleans the fertilizer recommendation training set.
// Crops need at least 20 samples to survive.
func CleanFertilizer(t *Table) (DatasetSummary, error) {
	summary := DatasetSummary{OriginalRows: len(t.Rows)}

	t.Dedupe()
	if err := t.TitleCase("Crop", "Fertilizer"); err != nil {
		return summary, err
	}
	if err := t.FilterIQROutliers("Nitrogen", "Phosphorus", "Potassium"); err != nil {
		return summary, err
	}
	if err := t.MinSupport("Crop", 20); err != nil {
		return summary, err
	}

	labels, err := t.UniqueValues("Fertilizer")
	if err != nil {
		return summary, err
	}
	summary.CleanedRows = len(t.Rows)
	summary.UniqueLabels = len(labels)
	summary.Labels = labels
	return summary, nil
}

// CleanYield cleans the crop yield training set. Yield measurements
// are heavy tailed, so outliers are trimmed to the 5th-95th percentile
// band instead of the IQR rule. Crops need 100 samples and states 50.
func CleanYield(t *Table) (DatasetSummary, error) {
	summary := DatasetSummary{OriginalRows: len(t.Rows)}

	if err := t.DropMissing("Crop", "State", "Area", "Production", "Yield"); err != nil {
		return summary, err
	}
	t.Dedupe()
	if err := t.TitleCase("Crop", "State", "Season"); err != nil {
		return summary, err
	}
	if err := t.FilterPercentileOutliers(0.05, 0.95,
		"Area", "Production", "Annual_Rainfall", "Fertilizer", "Pesticide", "Yield"); err != nil {
		return summary, err
	}
	if err := t.MinSupport("Crop", 100); err != nil {
		return summary, err
	}
	if err := t.MinSupport("State", 50); err != nil {
		return summary, err
	}

	labels, err := t.UniqueValues("Crop")
	if err != nil {
		return summary, err
	}
	summary.CleanedRows = len(t.Rows)
	summary.UniqueLabels = len(labels)
	summary.Labels = labels
	return summary, nil
}
