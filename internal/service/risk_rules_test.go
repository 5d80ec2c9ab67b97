package service

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/patient-analysis-server/internal/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func TestClassifyRisk(t *testing.T) {
	engine := NewRiskRuleEngine(testLogger())

	tests := []struct {
		name   string
		vitals domain.VitalsSnapshot
		want   domain.RiskLevel
	}{
		{
			name:   "healthy adult",
			vitals: domain.VitalsSnapshot{Age: 30, GlucoseLevel: 90, SystolicPressure: 110, DiastolicPressure: 70},
			want:   domain.LOW,
		},
		{
			name:   "critical glucose",
			vitals: domain.VitalsSnapshot{Age: 30, GlucoseLevel: 301, SystolicPressure: 110, DiastolicPressure: 70},
			want:   domain.CRITICAL,
		},
		{
			name:   "critical systolic",
			vitals: domain.VitalsSnapshot{Age: 30, GlucoseLevel: 90, SystolicPressure: 181, DiastolicPressure: 70},
			want:   domain.CRITICAL,
		},
		{
			name:   "critical diastolic",
			vitals: domain.VitalsSnapshot{Age: 30, GlucoseLevel: 90, SystolicPressure: 150, DiastolicPressure: 111},
			want:   domain.CRITICAL,
		},
		{
			name:   "two severe conditions at the systolic boundary",
			vitals: domain.VitalsSnapshot{Age: 65, GlucoseLevel: 280, SystolicPressure: 160, DiastolicPressure: 95},
			want:   domain.HIGH,
		},
		{
			name:   "severe glucose just below the systolic boundary",
			vitals: domain.VitalsSnapshot{Age: 65, GlucoseLevel: 280, SystolicPressure: 159, DiastolicPressure: 95},
			want:   domain.MEDIUM,
		},
		{
			name:   "elderly diabetic pair counts twice",
			vitals: domain.VitalsSnapshot{Age: 81, GlucoseLevel: 150, SystolicPressure: 120, DiastolicPressure: 80},
			want:   domain.HIGH,
		},
		{
			name:   "single severe condition",
			vitals: domain.VitalsSnapshot{Age: 30, GlucoseLevel: 210, SystolicPressure: 120, DiastolicPressure: 80},
			want:   domain.MEDIUM,
		},
		{
			name:   "family history with elevated glucose",
			vitals: domain.VitalsSnapshot{Age: 40, GlucoseLevel: 130, SystolicPressure: 120, DiastolicPressure: 80, FamilyHistory: true},
			want:   domain.MEDIUM,
		},
		{
			name:   "family history with elevated systolic",
			vitals: domain.VitalsSnapshot{Age: 40, GlucoseLevel: 100, SystolicPressure: 145, DiastolicPressure: 90, FamilyHistory: true},
			want:   domain.MEDIUM,
		},
		{
			name:   "family history without elevated readings stays low",
			vitals: domain.VitalsSnapshot{Age: 40, GlucoseLevel: 100, SystolicPressure: 120, DiastolicPressure: 80, FamilyHistory: true},
			want:   domain.LOW,
		},
		{
			name:   "elevated readings without family history stay low",
			vitals: domain.VitalsSnapshot{Age: 40, GlucoseLevel: 130, SystolicPressure: 145, DiastolicPressure: 90},
			want:   domain.LOW,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := engine.ClassifyRisk(tt.vitals); got != tt.want {
				t.Errorf("ClassifyRisk() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClassifyRiskDeterministic(t *testing.T) {
	engine := NewRiskRuleEngine(testLogger())
	vitals := domain.VitalsSnapshot{Age: 72, GlucoseLevel: 145, SystolicPressure: 150, DiastolicPressure: 92, FamilyHistory: true}

	first := engine.ClassifyRisk(vitals)
	for i := 0; i < 50; i++ {
		if got := engine.ClassifyRisk(vitals); got != first {
			t.Fatalf("Classification not deterministic: got %s then %s", first, got)
		}
	}
}

// Increasing any single vital while holding the others fixed must never
// decrease the computed risk level.
func TestClassifyRiskMonotonic(t *testing.T) {
	engine := NewRiskRuleEngine(testLogger())
	base := domain.VitalsSnapshot{Age: 30, GlucoseLevel: 90, SystolicPressure: 110, DiastolicPressure: 70}

	t.Run("glucose", func(t *testing.T) {
		previous := -1
		for _, glucose := range []float64{90, 126, 127, 140, 141, 200, 201, 300, 301, 500} {
			vitals := base
			vitals.GlucoseLevel = glucose
			severity := engine.ClassifyRisk(vitals).Severity()
			if severity < previous {
				t.Errorf("Risk decreased at glucose %.0f", glucose)
			}
			previous = severity
		}
	})

	t.Run("systolic", func(t *testing.T) {
		previous := -1
		for _, systolic := range []int{110, 140, 141, 160, 161, 180, 181, 250} {
			vitals := base
			vitals.SystolicPressure = systolic
			severity := engine.ClassifyRisk(vitals).Severity()
			if severity < previous {
				t.Errorf("Risk decreased at systolic %d", systolic)
			}
			previous = severity
		}
	})

	t.Run("diastolic", func(t *testing.T) {
		previous := -1
		for _, diastolic := range []int{70, 90, 91, 100, 101, 110, 111, 150} {
			vitals := base
			vitals.DiastolicPressure = diastolic
			severity := engine.ClassifyRisk(vitals).Severity()
			if severity < previous {
				t.Errorf("Risk decreased at diastolic %d", diastolic)
			}
			previous = severity
		}
	})

	t.Run("age", func(t *testing.T) {
		previous := -1
		for _, age := range []int{30, 65, 70, 71, 80, 81, 100} {
			vitals := base
			vitals.Age = age
			severity := engine.ClassifyRisk(vitals).Severity()
			if severity < previous {
				t.Errorf("Risk decreased at age %d", age)
			}
			previous = severity
		}
	})
}

func TestIsOutlier(t *testing.T) {
	engine := NewRiskRuleEngine(testLogger())

	tests := []struct {
		level   domain.RiskLevel
		outlier bool
	}{
		{domain.LOW, false},
		{domain.MEDIUM, false},
		{domain.HIGH, true},
		{domain.CRITICAL, true},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			if got := engine.IsOutlier(tt.level); got != tt.outlier {
				t.Errorf("IsOutlier(%s) = %v, want %v", tt.level, got, tt.outlier)
			}
		})
	}
}

func TestConfidence(t *testing.T) {
	engine := NewRiskRuleEngine(testLogger())
	vitals := domain.VitalsSnapshot{Age: 65, GlucoseLevel: 140.5, SystolicPressure: 130, DiastolicPressure: 85}

	tests := []struct {
		level domain.RiskLevel
		want  float64
	}{
		{domain.CRITICAL, 0.95},
		{domain.HIGH, 0.85},
		{domain.MEDIUM, 0.75},
		{domain.LOW, 0.70},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			got := engine.Confidence(tt.level, vitals)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 0.99)
		})
	}

	t.Run("unknown level falls back to low base", func(t *testing.T) {
		got := engine.Confidence(domain.RiskLevel("unknown"), vitals)
		assert.InDelta(t, 0.70, got, 1e-9)
	})
}

// Snapshot fixtures from the triage acceptance checklist.
func TestClassifyKnownSnapshots(t *testing.T) {
	engine := NewRiskRuleEngine(testLogger())
	clock := fixedClock{now: time.Date(2025, 9, 30, 10, 30, 0, 0, time.UTC)}

	t.Run("high risk outlier", func(t *testing.T) {
		vitals := domain.VitalsSnapshot{
			Age:               65,
			GlucoseLevel:      280,
			SystolicPressure:  160,
			DiastolicPressure: 95,
			FamilyHistory:     true,
		}

		result := engine.Classify(vitals, clock)

		assert.Equal(t, domain.HIGH, result.RiskLevel)
		assert.True(t, result.IsOutlier)
		assert.InDelta(t, 0.85, result.Confidence, 1e-9)
		assert.Equal(t, domain.PRIORITY_URGENT, PriorityForRisk(result.RiskLevel))
		assert.True(t, result.ClassifiedAt.Equal(clock.now))
	})

	t.Run("low risk non-outlier", func(t *testing.T) {
		vitals := domain.VitalsSnapshot{
			Age:               30,
			GlucoseLevel:      90,
			SystolicPressure:  110,
			DiastolicPressure: 70,
			FamilyHistory:     false,
		}

		result := engine.Classify(vitals, clock)

		assert.Equal(t, domain.LOW, result.RiskLevel)
		assert.False(t, result.IsOutlier)
		assert.InDelta(t, 0.70, result.Confidence, 1e-9)
	})
}
