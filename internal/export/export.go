// Package export renders finished analyses for download: a JSON object that
// mirrors the CallAnalysis shape field for field, and a spreadsheet report.
// Rating labels are display sugar derived from configured thresholds and play
// no part in pipeline decisions.
package export

import (
	"encoding/json"
	"fmt"

	"github.com/ayushitiwary/CallSense/internal/config"
	"github.com/ayushitiwary/CallSense/internal/types"
)

// Marshal serializes an analysis to the export JSON format. Parsing the
// output back yields a field-for-field equal analysis.
func Marshal(a *types.CallAnalysis) ([]byte, error) {
	return json.MarshalIndent(a, "", "  ")
}

// Unmarshal parses export JSON back into an analysis.
func Unmarshal(data []byte) (*types.CallAnalysis, error) {
	var a types.CallAnalysis
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse exported analysis: %w", err)
	}
	return &a, nil
}

// Label maps a 0-10 score to its display rating.
func Label(score float64, cfg config.Config) string {
	switch {
	case score >= cfg.ExcellentThreshold:
		return "Excellent"
	case score >= cfg.GoodThreshold:
		return "Good"
	case score >= cfg.NeedsWorkThreshold:
		return "Needs Improvement"
	default:
		return "Poor"
	}
}

// FormatScore renders a score the way the UI shows it.
func FormatScore(score float64) string {
	return fmt.Sprintf("%.1f/10", score)
}

// ScoreLabels is the labeled view of a QAScore, attached to API responses for
// display alongside the raw numbers.
type ScoreLabels struct {
	Empathy         string `json:"empathy"`
	Professionalism string `json:"professionalism"`
	Resolution      string `json:"resolution"`
	Compliance      string `json:"compliance"`
	Overall         string `json:"overall"`
}

func LabelScores(q types.QAScore, cfg config.Config) ScoreLabels {
	return ScoreLabels{
		Empathy:         Label(q.Empathy, cfg),
		Professionalism: Label(q.Professionalism, cfg),
		Resolution:      Label(q.Resolution, cfg),
		Compliance:      Label(q.Compliance, cfg),
		Overall:         Label(q.Overall(), cfg),
	}
}
