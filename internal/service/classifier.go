package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/patient-analysis-server/internal/domain"
)

// ClassificationService decides between remote and local classification.
// A failed remote attempt falls back to the local rule engine immediately,
// with no retry; only an unexpected fault in the local path can fail the
// analysis.
type ClassificationService struct {
	logger *logrus.Logger
	remote domain.RemoteClassifier
	engine *RiskRuleEngine
	clock  domain.Clock
}

// NewClassificationService creates a new classification orchestrator. A nil
// remote classifier means no remote endpoint is configured and every
// classification runs locally.
func NewClassificationService(
	logger *logrus.Logger,
	remote domain.RemoteClassifier,
	engine *RiskRuleEngine,
	clock domain.Clock,
) *ClassificationService {
	return &ClassificationService{
		logger: logger,
		remote: remote,
		engine: engine,
		clock:  clock,
	}
}

// Classify produces a ClassificationResult for the snapshot. The remote
// service is attempted first when configured; any of its failures degrade to
// the local rule engine rather than propagating.
func (s *ClassificationService) Classify(ctx context.Context, vitals domain.VitalsSnapshot) (domain.ClassificationResult, error) {
	s.logger.WithFields(logrus.Fields{
		"patient_age":       vitals.Age,
		"glucose_level":     vitals.GlucoseLevel,
		"blood_pressure":    vitals.BloodPressure(),
		"remote_configured": s.remote != nil,
	}).Info("Starting classification")

	if s.remote == nil {
		return s.localClassify(vitals)
	}

	result, err := s.remote.Classify(ctx, vitals)
	if err != nil {
		s.logger.WithError(err).Warn("Remote classification failed, falling back to local rules")
		return s.localClassify(vitals)
	}

	s.logger.WithFields(logrus.Fields(result.LogFields())).Info("Remote classification completed")
	return *result, nil
}

// localClassify runs the total, deterministic rule engine. The engine cannot
// fail under validated input, so any escaped panic here is converted into a
// ClassificationError, the only fault that fails a whole analysis.
func (s *ClassificationService) localClassify(vitals domain.VitalsSnapshot) (result domain.ClassificationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = domain.NewClassificationError("local rule engine fault", fmt.Errorf("%v", r))
		}
	}()

	result = s.engine.Classify(vitals, s.clock)
	return result, nil
}
