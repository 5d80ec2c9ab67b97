package domain

import (
	"time"
)

// ClassificationResult represents the outcome of risk classification for one
// snapshot. Produced exactly once per analysis and immutable thereafter.
type ClassificationResult struct {
	IsOutlier    bool      `json:"is_outlier"`
	Confidence   float64   `json:"confidence"`
	RiskLevel    RiskLevel `json:"risk_level"`
	ClassifiedAt time.Time `json:"classified_at"`
}

// LogFields returns structured logging fields for the classification.
func (c ClassificationResult) LogFields() map[string]any {
	return map[string]any{
		"is_outlier": c.IsOutlier,
		"confidence": c.Confidence,
		"risk_level": c.RiskLevel.String(),
	}
}

// RecommendationContent is the action plan produced for an outlier patient.
// Absent when the patient is not classified as an outlier.
type RecommendationContent struct {
	Content     string    `json:"content"`
	Priority    Priority  `json:"priority"`
	GeneratedBy Producer  `json:"generated_by"`
	GeneratedAt time.Time `json:"generated_at"`
}

// AnalysisResult is the terminal artifact of one patient analysis. It is
// created once, handed to the transport boundary and then discarded.
type AnalysisResult struct {
	AnalysisID       string                 `json:"analysis_id"`
	PatientData      VitalsSnapshot         `json:"patient_data"`
	Classification   ClassificationResult   `json:"classification"`
	Recommendation   *RecommendationContent `json:"recommendation,omitempty"`
	AnalyzedAt       time.Time              `json:"analyzed_at"`
	ProcessingTimeMs int64                  `json:"processing_time_ms"`
}

// HasRecommendation reports whether a recommendation was produced.
func (a AnalysisResult) HasRecommendation() bool {
	return a.Recommendation != nil
}
