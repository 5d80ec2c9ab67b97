package service

import (
	"fmt"
	"strings"

	"github.com/patient-analysis-server/internal/domain"
)

// contact windows in hours by risk level
const (
	contactWindowCritical = 2
	contactWindowHigh     = 12
	contactWindowDefault  = 24
)

// followUpDays maps risk level to the mandatory follow-up interval.
var followUpDays = map[domain.RiskLevel]int{
	domain.CRITICAL: 3,
	domain.HIGH:     7,
	domain.MEDIUM:   15,
	domain.LOW:      30,
}

// priorityByRisk maps risk level to recommendation priority. The mapping is
// a pure function of risk level, independent of the assembled content.
var priorityByRisk = map[domain.RiskLevel]domain.Priority{
	domain.CRITICAL: domain.PRIORITY_CRITICAL,
	domain.HIGH:     domain.PRIORITY_URGENT,
	domain.MEDIUM:   domain.PRIORITY_HIGH,
	domain.LOW:      domain.PRIORITY_NORMAL,
}

// recommendationSection is one conditionally rendered block of the action
// plan. Sections are evaluated in fixed order and each returns zero or more
// unnumbered action lines.
type recommendationSection struct {
	name   string
	render func(vitals domain.VitalsSnapshot, classification domain.ClassificationResult) []string
}

// RecommendationAssembler builds an ordered, prioritized action plan from a
// vitals snapshot and its classification. It is pure: a fresh line list is
// produced per call, with no shared builder state.
type RecommendationAssembler struct {
	sections []recommendationSection
}

// NewRecommendationAssembler creates a new recommendation assembler
func NewRecommendationAssembler() *RecommendationAssembler {
	return &RecommendationAssembler{
		sections: []recommendationSection{
			{name: "urgent_contact", render: renderUrgentContact},
			{name: "appointment", render: renderAppointment},
			{name: "glucose_monitoring", render: renderGlucoseMonitoring},
			{name: "pressure_monitoring", render: renderPressureMonitoring},
			{name: "elderly_care", render: renderElderlyCare},
			{name: "family_guidance", render: renderFamilyGuidance},
			{name: "lifestyle_guidance", render: renderLifestyleGuidance},
			{name: "follow_up", render: renderFollowUp},
		},
	}
}

// Assemble renders every section in order, numbers the resulting lines
// sequentially and returns the joined action plan with its priority.
func (a *RecommendationAssembler) Assemble(vitals domain.VitalsSnapshot, classification domain.ClassificationResult) (string, domain.Priority) {
	lines := make([]string, 0, 12)
	for _, section := range a.sections {
		lines = append(lines, section.render(vitals, classification)...)
	}

	numbered := make([]string, len(lines))
	for i, line := range lines {
		numbered[i] = fmt.Sprintf("%d. %s", i+1, line)
	}

	return strings.Join(numbered, "\n"), PriorityForRisk(classification.RiskLevel)
}

// PriorityForRisk maps a risk level to its action priority. Unknown levels
// map to normal.
func PriorityForRisk(level domain.RiskLevel) domain.Priority {
	if priority, ok := priorityByRisk[level]; ok {
		return priority
	}
	return domain.PRIORITY_NORMAL
}

func renderUrgentContact(_ domain.VitalsSnapshot, classification domain.ClassificationResult) []string {
	window := contactWindowDefault
	switch classification.RiskLevel {
	case domain.CRITICAL:
		window = contactWindowCritical
	case domain.HIGH:
		window = contactWindowHigh
	}
	return []string{fmt.Sprintf("URGENT: Contact patient within %dh for priority scheduling", window)}
}

func renderAppointment(_ domain.VitalsSnapshot, classification domain.ClassificationResult) []string {
	urgency := "routine"
	if classification.IsOutlier {
		urgency = "urgency"
	}
	return []string{fmt.Sprintf("Schedule %s medical appointment", urgency)}
}

// renderGlucoseMonitoring is gated at glucose > 140 but only renders content
// above 200. Readings strictly between 140 and 200 trigger the section and
// produce no lines; this gap matches the observed source rule set and is
// pinned by a regression test.
func renderGlucoseMonitoring(vitals domain.VitalsSnapshot, _ domain.ClassificationResult) []string {
	if vitals.GlucoseLevel <= 140 {
		return nil
	}
	switch {
	case vitals.GlucoseLevel > 300:
		return []string{
			"URGENT: Capillary glucose every 2h until stabilization",
			"Request IMMEDIATE: Glycated hemoglobin (HbA1c)",
			"IMMEDIATE referral to endocrinologist",
		}
	case vitals.GlucoseLevel > 200:
		return []string{
			"Request: Glycated hemoglobin, fasting and postprandial glucose",
			"Refer to endocrinologist within 7 days",
		}
	default:
		return nil
	}
}

func renderPressureMonitoring(vitals domain.VitalsSnapshot, _ domain.ClassificationResult) []string {
	if vitals.SystolicPressure <= 140 && vitals.DiastolicPressure <= 90 {
		return nil
	}
	switch {
	case vitals.SystolicPressure > 180 || vitals.DiastolicPressure > 110:
		return []string{
			"Blood pressure monitoring every 2h",
			"URGENT reassessment of antihypertensive medication",
			"Advise on signs of hypertensive crisis",
		}
	case vitals.SystolicPressure > 160 || vitals.DiastolicPressure > 100:
		return []string{
			"Daily blood pressure monitoring",
			"Review antihypertensive medication",
		}
	default:
		return nil
	}
}

func renderElderlyCare(vitals domain.VitalsSnapshot, _ domain.ClassificationResult) []string {
	switch {
	case vitals.Age > 80:
		return []string{"URGENT geriatric follow-up"}
	case vitals.Age > 65:
		return []string{"Specialized geriatric follow-up"}
	default:
		return nil
	}
}

func renderFamilyGuidance(vitals domain.VitalsSnapshot, _ domain.ClassificationResult) []string {
	if !vitals.FamilyHistory {
		return nil
	}
	return []string{"Advise family on hereditary risk factors"}
}

func renderLifestyleGuidance(_ domain.VitalsSnapshot, classification domain.ClassificationResult) []string {
	if classification.RiskLevel == domain.CRITICAL {
		return []string{"URGENT nutritional guidance"}
	}
	return []string{"Advise on dietary habits and exercise"}
}

func renderFollowUp(_ domain.VitalsSnapshot, classification domain.ClassificationResult) []string {
	days, ok := followUpDays[classification.RiskLevel]
	if !ok {
		days = followUpDays[domain.LOW]
	}
	return []string{fmt.Sprintf("Mandatory follow-up in %d days", days)}
}
