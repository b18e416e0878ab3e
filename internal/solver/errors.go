package solver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrSolver marks any failure reported by a solver backend. ServiceError
	// matches it with errors.Is.
	ErrSolver = errors.New("solver failure")

	// ErrEmptyModel is returned when asked to sample a model without variables.
	ErrEmptyModel = errors.New("model has no variables")

	// ErrTooManyVariables is returned by ExactSolver above its enumeration cap.
	ErrTooManyVariables = errors.New("too many variables for exhaustive search")
)

// Error codes carried by ServiceError.
const (
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeQuotaExceeded  = "QUOTA_EXCEEDED"
	CodeMalformedModel = "MALFORMED_MODEL"
	CodeServiceError   = "SERVICE_ERROR"
	CodeMissingToken   = "MISSING_API_TOKEN"
	CodeBadResponse    = "BAD_RESPONSE"
)

// ServiceError represents an error from a remote sampling service.
type ServiceError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string // For quota errors
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("sampler %s (%d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("sampler %s: %s", e.Code, e.Message)
}

func (e *ServiceError) Is(target error) bool { return target == ErrSolver }

// Retryable reports whether the request may succeed if sent again.
func (e *ServiceError) Retryable() bool {
	return e.StatusCode >= 500 || e.Code == CodeQuotaExceeded
}

// RetryDelay parses RetryAfter as delta-seconds or an HTTP date.
// Zero when absent, unparseable or already past.
func (e *ServiceError) RetryDelay() time.Duration {
	v := strings.TrimSpace(e.RetryAfter)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
