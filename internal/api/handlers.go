package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/patient-analysis-server/internal/domain"
)

// handleAnalyze handles the main analysis endpoint: it validates the vitals
// snapshot before the pipeline runs, then maps failure kinds onto status
// codes (validation to 400, analysis failure to 500).
func (s *Server) handleAnalyze(c *gin.Context) {
	requestID := c.GetString("request_id")

	var vitals domain.VitalsSnapshot
	if err := c.ShouldBindJSON(&vitals); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      domain.ErrCodeValidation,
			"message":    "malformed request body: " + err.Error(),
			"request_id": requestID,
		})
		return
	}

	if err := vitals.Validate(); err != nil {
		var validationErr *domain.ValidationError
		field := ""
		if errors.As(err, &validationErr) {
			field = validationErr.Field
		}
		s.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"field":      field,
			"error":      err.Error(),
		}).Warn("Snapshot validation failed")
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      domain.ErrCodeValidation,
			"message":    err.Error(),
			"field":      field,
			"request_id": requestID,
		})
		return
	}

	result, err := s.analysis.Analyze(c.Request.Context(), vitals)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Analysis failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      domain.ErrCodeAnalysis,
			"message":    "patient analysis failed",
			"request_id": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleHealth handles liveness requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "patient-analysis-server",
		"timestamp": time.Now().UTC(),
	})
}

// handleReadiness reports whether dependent services are configured or
// running on local fallback. Local fallback is a ready state: the pipeline
// is fully functional without either remote collaborator.
func (s *Server) handleReadiness(c *gin.Context) {
	cfg := s.configManager.GetConfig()

	classifierStatus := "using_local_fallback"
	if cfg.Classifier.Enabled() {
		classifierStatus = "configured"
	}

	narrativeStatus := "using_local_fallback"
	if cfg.Narrative.Enabled() {
		narrativeStatus = "configured"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"service":   "patient-analysis-server",
		"timestamp": time.Now().UTC(),
		"services": gin.H{
			"api":                    "online",
			"classification_service": classifierStatus,
			"narrative_service":      narrativeStatus,
		},
		"checks": gin.H{
			"configuration": "loaded",
			"persistence":   "not_implemented",
		},
	})
}
