package domain

import (
	"errors"
	"testing"
	"time"
)

func validSnapshot() VitalsSnapshot {
	return VitalsSnapshot{
		Age:               65,
		GlucoseLevel:      140.5,
		SystolicPressure:  130,
		DiastolicPressure: 85,
		FamilyHistory:     true,
	}
}

func TestVitalsSnapshotValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*VitalsSnapshot)
		wantErr   bool
		wantField string
	}{
		{
			name:    "valid snapshot",
			mutate:  func(v *VitalsSnapshot) {},
			wantErr: false,
		},
		{
			name:      "negative age",
			mutate:    func(v *VitalsSnapshot) { v.Age = -1 },
			wantErr:   true,
			wantField: "age",
		},
		{
			name:      "age above 120",
			mutate:    func(v *VitalsSnapshot) { v.Age = 121 },
			wantErr:   true,
			wantField: "age",
		},
		{
			name:      "negative glucose",
			mutate:    func(v *VitalsSnapshot) { v.GlucoseLevel = -0.1 },
			wantErr:   true,
			wantField: "glucose_level",
		},
		{
			name:      "implausibly high glucose",
			mutate:    func(v *VitalsSnapshot) { v.GlucoseLevel = 801 },
			wantErr:   true,
			wantField: "glucose_level",
		},
		{
			name:    "glucose at plausibility boundary",
			mutate:  func(v *VitalsSnapshot) { v.GlucoseLevel = 800 },
			wantErr: false,
		},
		{
			name:      "systolic below range",
			mutate:    func(v *VitalsSnapshot) { v.SystolicPressure = 59 },
			wantErr:   true,
			wantField: "systolic_pressure",
		},
		{
			name:      "systolic above range",
			mutate:    func(v *VitalsSnapshot) { v.SystolicPressure = 301 },
			wantErr:   true,
			wantField: "systolic_pressure",
		},
		{
			name:      "diastolic below range",
			mutate:    func(v *VitalsSnapshot) { v.DiastolicPressure = 39 },
			wantErr:   true,
			wantField: "diastolic_pressure",
		},
		{
			name:      "diastolic above range",
			mutate:    func(v *VitalsSnapshot) { v.DiastolicPressure = 201 },
			wantErr:   true,
			wantField: "diastolic_pressure",
		},
		{
			name: "systolic equal to diastolic",
			mutate: func(v *VitalsSnapshot) {
				v.SystolicPressure = 90
				v.DiastolicPressure = 90
			},
			wantErr:   true,
			wantField: "systolic_pressure",
		},
		{
			name: "systolic below diastolic with otherwise healthy vitals",
			mutate: func(v *VitalsSnapshot) {
				v.Age = 30
				v.GlucoseLevel = 90
				v.SystolicPressure = 80
				v.DiastolicPressure = 95
				v.FamilyHistory = false
			},
			wantErr:   true,
			wantField: "systolic_pressure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := validSnapshot()
			tt.mutate(&snapshot)

			err := snapshot.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				var validationErr *ValidationError
				if !errors.As(err, &validationErr) {
					t.Fatalf("Expected *ValidationError, got %T", err)
				}
				if validationErr.Field != tt.wantField {
					t.Errorf("Expected field %q, got %q", tt.wantField, validationErr.Field)
				}
			}
		})
	}
}

func TestVitalsSnapshotRiskIndicators(t *testing.T) {
	snapshot := VitalsSnapshot{
		Age:               82,
		GlucoseLevel:      250,
		SystolicPressure:  165,
		DiastolicPressure: 95,
		FamilyHistory:     true,
	}

	indicators := snapshot.RiskIndicators()

	expected := map[string]bool{
		"high_glucose":        true,
		"hypertension":        true,
		"severe_hypertension": true,
		"elderly":             true,
		"family_history":      true,
	}

	for key, want := range expected {
		if got := indicators[key]; got != want {
			t.Errorf("indicator %s = %v, want %v", key, got, want)
		}
	}
}

func TestVitalsSnapshotBloodPressure(t *testing.T) {
	snapshot := validSnapshot()
	if got := snapshot.BloodPressure(); got != "130/85" {
		t.Errorf("BloodPressure() = %q, want %q", got, "130/85")
	}
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type sequenceIDs struct {
	ids  []string
	next int
}

func (s *sequenceIDs) NewID() string {
	id := s.ids[s.next%len(s.ids)]
	s.next++
	return id
}

func TestNewPatientRecord(t *testing.T) {
	now := time.Date(2025, 9, 30, 10, 30, 0, 0, time.UTC)
	clock := fixedClock{now: now}
	ids := &sequenceIDs{ids: []string{"patient-1"}}

	record := NewPatientRecord(validSnapshot(), ids, clock)

	if record.ID != "patient-1" {
		t.Errorf("Expected ID patient-1, got %s", record.ID)
	}
	if !record.CreatedAt.Equal(now) {
		t.Errorf("Expected CreatedAt %v, got %v", now, record.CreatedAt)
	}
	if record.Vitals != validSnapshot() {
		t.Error("Expected snapshot to be embedded unchanged")
	}
}

func TestUUIDGeneratorUniqueness(t *testing.T) {
	gen := UUIDGenerator{}
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := gen.NewID()
		if id == "" {
			t.Fatal("Expected non-empty ID")
		}
		if seen[id] {
			t.Fatalf("Duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}
