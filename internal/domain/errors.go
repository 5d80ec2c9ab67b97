package domain

import (
	"fmt"
)

// Error codes for the failure taxonomy. Validation failures reject input
// before the pipeline runs; external-service failures are always recoverable
// through local fallback; classification failures are the only fault that can
// fail a whole analysis.
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeExternalService = "EXTERNAL_SERVICE_ERROR"
	ErrCodeNarrative       = "NARRATIVE_GENERATION_ERROR"
	ErrCodeClassification  = "CLASSIFICATION_ERROR"
	ErrCodeAnalysis        = "ANALYSIS_ERROR"
	ErrCodeRateLimit       = "RATE_LIMIT_EXCEEDED"
)

// ValidationError represents malformed or physiologically inconsistent input.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// ExternalServiceError represents a remote collaborator being unreachable,
// erroring or timing out. It is always recoverable via local fallback and is
// never surfaced to the caller on its own.
type ExternalServiceError struct {
	Service string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ExternalServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("external service %s: %s: %v", e.Service, e.Message, e.Err)
	}
	return fmt.Sprintf("external service %s: %s", e.Service, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// NewExternalServiceError creates a new ExternalServiceError
func NewExternalServiceError(service, message string, err error) *ExternalServiceError {
	return &ExternalServiceError{Service: service, Message: message, Err: err}
}

// NarrativeGenerationError represents a failed generative-text call. The
// recommendation orchestrator catches it and falls back to local assembly.
type NarrativeGenerationError struct {
	Message string
	Err     error
}

// Error implements the error interface
func (e *NarrativeGenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("narrative generation: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("narrative generation: %s", e.Message)
}

// Unwrap returns the underlying cause.
func (e *NarrativeGenerationError) Unwrap() error {
	return e.Err
}

// NewNarrativeGenerationError creates a new NarrativeGenerationError
func NewNarrativeGenerationError(message string, err error) *NarrativeGenerationError {
	return &NarrativeGenerationError{Message: message, Err: err}
}

// ClassificationError represents an unexpected fault in the local
// classification path. This is the only error allowed to fail an analysis.
type ClassificationError struct {
	Message string
	Err     error
}

// Error implements the error interface
func (e *ClassificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("classification failed: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("classification failed: %s", e.Message)
}

// Unwrap returns the underlying cause.
func (e *ClassificationError) Unwrap() error {
	return e.Err
}

// NewClassificationError creates a new ClassificationError
func NewClassificationError(message string, err error) *ClassificationError {
	return &ClassificationError{Message: message, Err: err}
}

// AnalysisError wraps any unexpected fault during analysis coordination.
// It maps to a server-error response at the transport boundary.
type AnalysisError struct {
	Message string
	Err     error
}

// Error implements the error interface
func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("analysis failed: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("analysis failed: %s", e.Message)
}

// Unwrap returns the underlying cause.
func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// NewAnalysisError creates a new AnalysisError
func NewAnalysisError(message string, err error) *AnalysisError {
	return &AnalysisError{Message: message, Err: err}
}
