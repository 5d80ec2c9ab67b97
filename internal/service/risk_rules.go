// Package service implements the risk-classification-and-recommendation
// pipeline: the threshold rule engine, the recommendation assembler and the
// orchestrators that decide between remote collaborators and local fallback.
package service

import (
	"github.com/sirupsen/logrus"

	"github.com/patient-analysis-server/internal/domain"
)

// Clinical thresholds for the risk rules. A single reading past a critical
// threshold short-circuits to CRITICAL regardless of the other vitals.
const (
	glucoseCritical   = 300.0
	systolicCritical  = 180
	diastolicCritical = 110

	glucoseSevere   = 200.0
	systolicSevere  = 160
	diastolicSevere = 100

	glucoseElevated  = 126.0
	systolicElevated = 140

	glucoseElderlyRisk = 140.0
	ageElderlyRisk     = 70
	ageAdvanced        = 80
)

// baseConfidence maps each risk level to the engine's base confidence before
// the data-completeness adjustment.
var baseConfidence = map[domain.RiskLevel]float64{
	domain.CRITICAL: 0.95,
	domain.HIGH:     0.85,
	domain.MEDIUM:   0.75,
	domain.LOW:      0.70,
}

// RiskRuleEngine computes a risk level, outlier flag and confidence from a
// validated vitals snapshot. All methods are total and deterministic: same
// snapshot, same result, no I/O and no error paths.
type RiskRuleEngine struct {
	logger *logrus.Logger
}

// NewRiskRuleEngine creates a new risk rule engine
func NewRiskRuleEngine(logger *logrus.Logger) *RiskRuleEngine {
	return &RiskRuleEngine{logger: logger}
}

// ClassifyRisk evaluates the threshold rules top to bottom, first match wins.
func (e *RiskRuleEngine) ClassifyRisk(vitals domain.VitalsSnapshot) domain.RiskLevel {
	// Rule 1: critical readings
	if vitals.GlucoseLevel > glucoseCritical ||
		vitals.SystolicPressure > systolicCritical ||
		vitals.DiastolicPressure > diastolicCritical {
		return domain.CRITICAL
	}

	// Rule 2: two or more severe conditions
	count := e.severityCount(vitals)
	if count >= 2 {
		return domain.HIGH
	}

	// Rule 3: one severe condition, or family history with elevated readings
	if count == 1 ||
		(vitals.FamilyHistory && (vitals.GlucoseLevel > glucoseElevated || vitals.SystolicPressure > systolicElevated)) {
		return domain.MEDIUM
	}

	return domain.LOW
}

// severityCount counts the severe conditions present in the snapshot.
func (e *RiskRuleEngine) severityCount(vitals domain.VitalsSnapshot) int {
	// The systolic boundary is inclusive: a reading of exactly 160 counts as
	// severe hypertension.
	conditions := []bool{
		vitals.GlucoseLevel > glucoseSevere,
		vitals.SystolicPressure >= systolicSevere,
		vitals.DiastolicPressure > diastolicSevere,
		vitals.Age > ageElderlyRisk && vitals.GlucoseLevel > glucoseElderlyRisk,
		vitals.Age > ageAdvanced,
	}

	count := 0
	for _, met := range conditions {
		if met {
			count++
		}
	}
	return count
}

// IsOutlier reports whether the risk level marks the patient as an outlier.
func (e *RiskRuleEngine) IsOutlier(level domain.RiskLevel) bool {
	return level.IsOutlier()
}

// Confidence computes the classification confidence: the base value for the
// risk level scaled by data completeness and capped at 0.99. With a fully
// populated, schema-validated snapshot it equals the base value.
func (e *RiskRuleEngine) Confidence(level domain.RiskLevel, vitals domain.VitalsSnapshot) float64 {
	base, ok := baseConfidence[level]
	if !ok {
		base = baseConfidence[domain.LOW]
	}

	confidence := base * e.completeness(vitals)
	if confidence > 0.99 {
		confidence = 0.99
	}
	return confidence
}

// completeness returns the ratio of required vitals fields present. The
// snapshot arrives schema-validated so all four fields are normally set;
// zero values for age and glucose are still counted as present because they
// are inside the accepted ranges.
func (e *RiskRuleEngine) completeness(vitals domain.VitalsSnapshot) float64 {
	required := []bool{
		vitals.Age >= 0,
		vitals.GlucoseLevel >= 0,
		vitals.SystolicPressure > 0,
		vitals.DiastolicPressure > 0,
	}

	present := 0
	for _, set := range required {
		if set {
			present++
		}
	}
	return float64(present) / float64(len(required))
}

// Classify runs the full local pipeline: risk level, outlier flag and
// confidence, stamped with the given time.
func (e *RiskRuleEngine) Classify(vitals domain.VitalsSnapshot, clock domain.Clock) domain.ClassificationResult {
	level := e.ClassifyRisk(vitals)
	result := domain.ClassificationResult{
		IsOutlier:    e.IsOutlier(level),
		Confidence:   e.Confidence(level, vitals),
		RiskLevel:    level,
		ClassifiedAt: clock.Now(),
	}

	e.logger.WithFields(logrus.Fields{
		"risk_level": result.RiskLevel.String(),
		"is_outlier": result.IsOutlier,
		"confidence": result.Confidence,
	}).Info("Local classification completed")

	return result
}
