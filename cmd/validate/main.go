package main

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"farmwise-backend/cmd"
	"farmwise-backend/internal/validate"

	"github.com/caarlos0/env/v11"
)

type ValidateConfig struct {
	DataDir   string `env:"DATA_DIR" envDefault:"extracted_datasets"`
	OutputDir string `env:"OUTPUT_DIR" envDefault:"cleaned_datasets"`
}

type pipeline struct {
	name    string
	input   string
	output  string
	cleanFn func(*validate.Table) (validate.DatasetSummary, error)
}

func main() {
	log.Println("Starting dataset validation...")

	cmd.LoadEnvFile()

	var cfg ValidateConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		log.Fatalf("error creating output dir: %v", err)
	}

	pipelines := []pipeline{
		{"crop_recommendation", "Crop_recommendation.csv", "crop_recommendation_clean.csv", validate.CleanCropRecommendation},
		{"fertilizer_recommendation", "Crop and fertilizer dataset.csv", "fertilizer_recommendation_clean.csv", validate.CleanFertilizer},
		{"crop_yield", "crop_yield.csv", "crop_yield_clean.csv", validate.CleanYield},
	}

	summaries := make(map[string]validate.DatasetSummary)
	for _, p := range pipelines {
		summary, err := runPipeline(cfg, p)
		if err != nil {
			log.Printf("skipping %s: %v", p.name, err)
			continue
		}
		log.Printf("%s: %d -> %d rows, %d labels", p.name, summary.OriginalRows, summary.CleanedRows, summary.UniqueLabels)
		summaries[p.name] = summary
	}

	summaryPath := filepath.Join(cfg.OutputDir, "validation_summary.json")
	data, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		log.Fatalf("error encoding summary: %v", err)
	}
	if err := os.WriteFile(summaryPath, data, 0644); err != nil {
		log.Fatalf("error writing summary: %v", err)
	}

	log.Printf("Validation complete, summary written to %s", summaryPath)
}

func runPipeline(cfg ValidateConfig, p pipeline) (validate.DatasetSummary, error) {
	in, err := os.Open(filepath.Join(cfg.DataDir, p.input))
	if err != nil {
		return validate.DatasetSummary{}, err
	}
	defer in.Close()

	table, err := validate.ReadCSV(in)
	if err != nil {
		return validate.DatasetSummary{}, err
	}

	summary, err := p.cleanFn(table)
	if err != nil {
		return validate.DatasetSummary{}, err
	}

	out, err := os.Create(filepath.Join(cfg.OutputDir, p.output))
	if err != nil {
		return validate.DatasetSummary{}, err
	}
	defer out.Close()

	if err := table.WriteCSV(out); err != nil {
		return validate.DatasetSummary{}, err
	}
	return summary, nil
}
