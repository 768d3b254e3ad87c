package clock

import (
	"time"

	"reactor.de/certext/internal/domain"
)

// Service implements the Clock interface for real time operations.
type Service struct{}

// NewService creates a new real clock service.
func NewService() domain.Clock {
	return &Service{}
}

// Now returns the current time.
func (s *Service) Now() time.Time {
	return now()
}

// Fixed is a clock that always reports the same instant.
type Fixed time.Time

// Now returns the fixed instant.
func (f Fixed) Now() time.Time { return time.Time(f) }
