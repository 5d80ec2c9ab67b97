package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/patient-analysis-server/internal/domain"
)

// basicRecommendation is the minimal action plan returned when even the
// local assembler fails. Recommendation production is best-effort and never
// fails an analysis.
const basicRecommendation = "1. Contact patient for scheduling\n" +
	"2. Schedule medical appointment\n" +
	"3. Advise on regular follow-up"

// RecommendationService decides between the narrative generator delegate and
// the local assembler. Narrative failures are swallowed: the caller only
// observes the producer tag changing.
type RecommendationService struct {
	logger    *logrus.Logger
	narrative domain.NarrativeGenerator
	assembler *RecommendationAssembler
	clock     domain.Clock
}

// NewRecommendationService creates a new recommendation orchestrator. A nil
// narrative generator means the delegate is absent and plans are assembled
// locally; absence is a normal configuration, not a degraded one.
func NewRecommendationService(
	logger *logrus.Logger,
	narrative domain.NarrativeGenerator,
	assembler *RecommendationAssembler,
	clock domain.Clock,
) *RecommendationService {
	return &RecommendationService{
		logger:    logger,
		narrative: narrative,
		assembler: assembler,
		clock:     clock,
	}
}

// Recommend produces an action plan for an outlier patient. It never returns
// an error: narrative failures fall back to local assembly and an assembler
// fault degrades to the hardcoded minimal plan.
func (s *RecommendationService) Recommend(ctx context.Context, vitals domain.VitalsSnapshot, classification domain.ClassificationResult) domain.RecommendationContent {
	s.logger.WithFields(logrus.Fields{
		"risk_level":           classification.RiskLevel.String(),
		"is_outlier":           classification.IsOutlier,
		"narrative_configured": s.narrative != nil,
	}).Info("Generating recommendation")

	if s.narrative != nil && classification.IsOutlier {
		if content, ok := s.generateNarrative(ctx, vitals, classification); ok {
			return content
		}
	}

	return s.assembleLocal(vitals, classification)
}

// generateNarrative attempts the generative delegate. Any failure, including
// timeout, is logged and reported as not-ok so the caller falls back.
func (s *RecommendationService) generateNarrative(ctx context.Context, vitals domain.VitalsSnapshot, classification domain.ClassificationResult) (domain.RecommendationContent, bool) {
	prompt := BuildMedicalPrompt(vitals, classification)

	text, err := s.narrative.Generate(ctx, prompt)
	if err != nil {
		s.logger.WithError(err).Warn("Narrative generation failed, falling back to local assembler")
		return domain.RecommendationContent{}, false
	}

	s.logger.WithField("generated_by", domain.REMOTE_MODEL.String()).Info("Recommendation generated")
	return domain.RecommendationContent{
		Content:     text,
		Priority:    PriorityForRisk(classification.RiskLevel),
		GeneratedBy: domain.REMOTE_MODEL,
		GeneratedAt: s.clock.Now(),
	}, true
}

// assembleLocal runs the local assembler, degrading to the hardcoded minimal
// plan if the assembler faults.
func (s *RecommendationService) assembleLocal(vitals domain.VitalsSnapshot, classification domain.ClassificationResult) (content domain.RecommendationContent) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithField("panic", r).Error("Local assembler fault, returning basic recommendation")
			content = domain.RecommendationContent{
				Content:     basicRecommendation,
				Priority:    domain.PRIORITY_NORMAL,
				GeneratedBy: domain.FALLBACK,
				GeneratedAt: s.clock.Now(),
			}
		}
	}()

	text, priority := s.assembler.Assemble(vitals, classification)

	s.logger.WithFields(logrus.Fields{
		"generated_by": domain.LOCAL_RULES.String(),
		"priority":     priority.String(),
	}).Info("Recommendation generated")

	return domain.RecommendationContent{
		Content:     text,
		Priority:    priority,
		GeneratedBy: domain.LOCAL_RULES,
		GeneratedAt: s.clock.Now(),
	}
}
