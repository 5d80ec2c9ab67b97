package domain

import (
	"fmt"
	"time"
)

// VitalsSnapshot is the validated vital-sign reading for one patient.
// It is immutable once Validate has accepted it; all downstream components
// receive it by value.
type VitalsSnapshot struct {
	Age               int     `json:"age"`
	GlucoseLevel      float64 `json:"glucose_level"`
	SystolicPressure  int     `json:"systolic_pressure"`
	DiastolicPressure int     `json:"diastolic_pressure"`
	FamilyHistory     bool    `json:"family_history"`
}

// Validate ensures the snapshot meets the accepted physiological ranges.
// Violations here are input errors and never reach the classification
// pipeline.
func (v VitalsSnapshot) Validate() error {
	if v.Age < 0 || v.Age > 120 {
		return NewValidationError("age", "age must be between 0 and 120", v.Age)
	}
	if v.GlucoseLevel < 0 {
		return NewValidationError("glucose_level", "glucose level cannot be negative", v.GlucoseLevel)
	}
	if v.GlucoseLevel > 800 {
		// Readings above 800 mg/dL are treated as data-entry errors.
		return NewValidationError("glucose_level", "glucose level implausibly high, verify data", v.GlucoseLevel)
	}
	if v.SystolicPressure < 60 || v.SystolicPressure > 300 {
		return NewValidationError("systolic_pressure", "systolic pressure must be between 60 and 300", v.SystolicPressure)
	}
	if v.DiastolicPressure < 40 || v.DiastolicPressure > 200 {
		return NewValidationError("diastolic_pressure", "diastolic pressure must be between 40 and 200", v.DiastolicPressure)
	}
	if v.SystolicPressure <= v.DiastolicPressure {
		return NewValidationError("systolic_pressure", "systolic pressure must be greater than diastolic", v.SystolicPressure)
	}
	return nil
}

// BloodPressure returns the reading in the conventional systolic/diastolic form.
func (v VitalsSnapshot) BloodPressure() string {
	return fmt.Sprintf("%d/%d", v.SystolicPressure, v.DiastolicPressure)
}

// RiskIndicators returns coarse boolean indicators derived from the raw
// vitals, used for structured logging and readiness reporting.
func (v VitalsSnapshot) RiskIndicators() map[string]bool {
	return map[string]bool{
		"high_glucose":        v.GlucoseLevel > 200,
		"hypertension":        v.SystolicPressure > 140 || v.DiastolicPressure > 90,
		"severe_hypertension": v.SystolicPressure > 160 || v.DiastolicPressure > 100,
		"elderly":             v.Age > 65,
		"family_history":      v.FamilyHistory,
	}
}

// PatientRecord binds a validated snapshot to an identity and creation
// timestamp. Both are assigned exactly once at record creation.
type PatientRecord struct {
	ID        string         `json:"id"`
	Vitals    VitalsSnapshot `json:"vitals"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewPatientRecord creates a record for one analysis. The record is owned
// by the caller for the duration of that analysis and is never persisted.
func NewPatientRecord(vitals VitalsSnapshot, ids IDGenerator, clock Clock) PatientRecord {
	return PatientRecord{
		ID:        ids.NewID(),
		Vitals:    vitals,
		CreatedAt: clock.Now(),
	}
}
