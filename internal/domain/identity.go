package domain

import (
	"time"

	"github.com/google/uuid"
)

// SystemClock implements Clock using the wall clock in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// UUIDGenerator implements IDGenerator using random UUIDs.
type UUIDGenerator struct{}

// NewID returns a new opaque unique identifier.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}
