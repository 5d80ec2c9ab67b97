package service

import (
	"fmt"

	"github.com/patient-analysis-server/internal/domain"
)

// riskContext maps each risk level to the framing line used in the
// generation prompt.
var riskContext = map[domain.RiskLevel]string{
	domain.CRITICAL: "CRITICAL CASE - REQUIRES IMMEDIATE ACTION",
	domain.HIGH:     "HIGH RISK CASE - HIGH PRIORITY",
	domain.MEDIUM:   "MEDIUM RISK CASE - FOLLOW-UP REQUIRED",
	domain.LOW:      "LOW RISK CASE - ROUTINE FOLLOW-UP",
}

// BuildMedicalPrompt renders the vitals snapshot and its classification into
// the prompt sent to the narrative generator.
func BuildMedicalPrompt(vitals domain.VitalsSnapshot, classification domain.ClassificationResult) string {
	context, ok := riskContext[classification.RiskLevel]
	if !ok {
		context = "UNCLASSIFIED CASE"
	}

	familyHistory := "No"
	if vitals.FamilyHistory {
		familyHistory = "Yes"
	}

	return fmt.Sprintf(`You are a public health specialist supporting a primary care team.

**CLASSIFICATION: %s**
**CONFIDENCE: %.1f%%**

**PATIENT DATA:**
- Age: %d years
- Glucose: %.1f mg/dL
- Blood Pressure: %s mmHg
- Family History: %s

**TASK:**
Produce an objective action plan in numbered items for the care team.

**GUIDELINES:**
- Be direct and practical
- Order actions by urgency
- Include concrete deadlines
- Focus on executable actions

**FORMAT:** Numbered list of specific actions.
`,
		context,
		classification.Confidence*100,
		vitals.Age,
		vitals.GlucoseLevel,
		vitals.BloodPressure(),
		familyHistory,
	)
}
