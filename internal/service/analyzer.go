package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/patient-analysis-server/internal/domain"
)

// analysisMetrics tracks per-stage timing for one analysis.
type analysisMetrics struct {
	clock          domain.Clock
	start          time.Time
	classification time.Duration
	recommendation time.Duration
	total          time.Duration
}

func newAnalysisMetrics(clock domain.Clock) *analysisMetrics {
	return &analysisMetrics{clock: clock, start: clock.Now()}
}

func (m *analysisMetrics) markClassificationComplete() {
	m.classification = m.clock.Now().Sub(m.start)
}

func (m *analysisMetrics) markRecommendationComplete() {
	m.recommendation = m.clock.Now().Sub(m.start) - m.classification
}

func (m *analysisMetrics) markComplete() {
	m.total = m.clock.Now().Sub(m.start)
}

func (m *analysisMetrics) logFields() logrus.Fields {
	return logrus.Fields{
		"classification_time_ms": m.classification.Milliseconds(),
		"recommendation_time_ms": m.recommendation.Milliseconds(),
		"total_time_ms":          m.total.Milliseconds(),
	}
}

// PatientAnalysisService coordinates one full analysis: identity assignment,
// classification, best-effort recommendation and response assembly.
type PatientAnalysisService struct {
	logger      *logrus.Logger
	classifier  *ClassificationService
	recommender *RecommendationService
	clock       domain.Clock
	ids         domain.IDGenerator
}

// NewPatientAnalysisService creates a new analysis coordinator
func NewPatientAnalysisService(
	logger *logrus.Logger,
	classifier *ClassificationService,
	recommender *RecommendationService,
	clock domain.Clock,
	ids domain.IDGenerator,
) *PatientAnalysisService {
	return &PatientAnalysisService{
		logger:      logger,
		classifier:  classifier,
		recommender: recommender,
		clock:       clock,
		ids:         ids,
	}
}

// Analyze runs the full pipeline for one validated snapshot. Classification
// failure is the only fatal path, reported as *AnalysisError wrapping the
// cause; the recommendation stage is best-effort and its absence never fails
// the analysis.
func (s *PatientAnalysisService) Analyze(ctx context.Context, vitals domain.VitalsSnapshot) (*domain.AnalysisResult, error) {
	metrics := newAnalysisMetrics(s.clock)
	record := domain.NewPatientRecord(vitals, s.ids, s.clock)

	s.logger.WithFields(logrus.Fields{
		"patient_id":     record.ID,
		"patient_age":    record.Vitals.Age,
		"glucose_level":  record.Vitals.GlucoseLevel,
		"blood_pressure": record.Vitals.BloodPressure(),
	}).Info("Starting patient analysis")

	classification, err := s.classifier.Classify(ctx, record.Vitals)
	if err != nil {
		s.logger.WithError(err).WithField("patient_id", record.ID).Error("Patient analysis failed")
		return nil, domain.NewAnalysisError("classification stage failed", err)
	}
	metrics.markClassificationComplete()

	recommendation := s.recommend(ctx, record, classification)
	metrics.markRecommendationComplete()

	metrics.markComplete()

	result := &domain.AnalysisResult{
		AnalysisID:       s.ids.NewID(),
		PatientData:      record.Vitals,
		Classification:   classification,
		Recommendation:   recommendation,
		AnalyzedAt:       s.clock.Now(),
		ProcessingTimeMs: metrics.total.Milliseconds(),
	}

	s.logger.WithFields(logrus.Fields{
		"patient_id":         record.ID,
		"analysis_id":        result.AnalysisID,
		"is_outlier":         classification.IsOutlier,
		"risk_level":         classification.RiskLevel.String(),
		"has_recommendation": result.HasRecommendation(),
	}).WithFields(metrics.logFields()).Info("Patient analysis completed")

	return result, nil
}

// recommend produces the optional recommendation. Non-outliers get none; for
// outliers the orchestrator cannot fail by construction, and an escaped
// panic is downgraded to an absent recommendation.
func (s *PatientAnalysisService) recommend(ctx context.Context, record domain.PatientRecord, classification domain.ClassificationResult) (content *domain.RecommendationContent) {
	if !classification.IsOutlier {
		s.logger.WithField("patient_id", record.ID).Info("Patient within normal parameters, no recommendation needed")
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.WithFields(logrus.Fields{
				"patient_id": record.ID,
				"panic":      r,
			}).Error("Recommendation stage fault, continuing without recommendation")
			content = nil
		}
	}()

	recommendation := s.recommender.Recommend(ctx, record.Vitals, classification)
	return &recommendation
}
