// Package domain contains the core business entities and types for patient
// vital-sign risk analysis: the validated vitals snapshot, the risk
// classification result and the recommendation artifacts produced for
// outlier patients.
package domain

import (
	"errors"
)

// RiskLevel represents the ordered severity tier computed from a patient's
// vital signs. Ordering is LOW < MEDIUM < HIGH < CRITICAL.
type RiskLevel string

const (
	LOW      RiskLevel = "low"
	MEDIUM   RiskLevel = "medium"
	HIGH     RiskLevel = "high"
	CRITICAL RiskLevel = "critical"
)

// Priority represents the action priority attached to a recommendation.
// It is derived from the risk level but is a distinct scale.
type Priority string

const (
	PRIORITY_NORMAL   Priority = "normal"
	PRIORITY_HIGH     Priority = "high"
	PRIORITY_URGENT   Priority = "urgent"
	PRIORITY_CRITICAL Priority = "critical"
)

// Producer identifies which code path generated a recommendation.
type Producer string

const (
	REMOTE_MODEL Producer = "remote-model"
	LOCAL_RULES  Producer = "local-rules"
	FALLBACK     Producer = "fallback"
)

// Validation errors for patient data integrity
var (
	ErrInvalidRiskLevel = errors.New("invalid risk level")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrInvalidProducer  = errors.New("invalid producer tag")
)

// IsValid validates that the RiskLevel is one of the known severity tiers.
func (r RiskLevel) IsValid() bool {
	switch r {
	case LOW, MEDIUM, HIGH, CRITICAL:
		return true
	default:
		return false
	}
}

// String returns the string representation of the risk level.
func (r RiskLevel) String() string {
	return string(r)
}

// Severity returns the ordinal position of the risk level, used for
// ordering comparisons. Unknown levels rank below LOW.
func (r RiskLevel) Severity() int {
	switch r {
	case LOW:
		return 0
	case MEDIUM:
		return 1
	case HIGH:
		return 2
	case CRITICAL:
		return 3
	default:
		return -1
	}
}

// IsOutlier reports whether the risk level marks the patient as a medical
// outlier requiring an action plan.
func (r RiskLevel) IsOutlier() bool {
	return r == HIGH || r == CRITICAL
}

// LogFields returns structured logging fields for audit trails.
func (r RiskLevel) LogFields() map[string]any {
	return map[string]any{
		"risk_level": string(r),
		"severity":   r.Severity(),
		"is_outlier": r.IsOutlier(),
		"is_valid":   r.IsValid(),
	}
}

// IsValid validates the priority tag.
func (p Priority) IsValid() bool {
	switch p {
	case PRIORITY_NORMAL, PRIORITY_HIGH, PRIORITY_URGENT, PRIORITY_CRITICAL:
		return true
	default:
		return false
	}
}

// String returns the string representation of the priority.
func (p Priority) String() string {
	return string(p)
}

// IsValid validates the producer tag.
func (p Producer) IsValid() bool {
	switch p {
	case REMOTE_MODEL, LOCAL_RULES, FALLBACK:
		return true
	default:
		return false
	}
}

// String returns the string representation of the producer tag.
func (p Producer) String() string {
	return string(p)
}
