package domain

import (
	"context"
	"time"
)

// RemoteClassifier is the external scoring collaborator. Implementations must
// honor context cancellation and report any transport error, timeout or
// non-success status uniformly as an *ExternalServiceError.
type RemoteClassifier interface {
	Classify(ctx context.Context, vitals VitalsSnapshot) (*ClassificationResult, error)
}

// NarrativeGenerator is the optional generative-text collaborator used to
// produce richer action plans. It may block up to its configured timeout and
// fails with *NarrativeGenerationError; it never retries.
type NarrativeGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Clock is the source of current time for timestamps and elapsed-duration
// measurement. Injected so tests can pin time.
type Clock interface {
	Now() time.Time
}

// IDGenerator is the source of unique opaque identifiers for records,
// analyses and requests.
type IDGenerator interface {
	NewID() string
}
