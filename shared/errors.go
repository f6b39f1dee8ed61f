package shared

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrorCategory classifies scrape failures so operators can tell "site is
// down" apart from "site changed format" in logs and results.
type ErrorCategory string

const (
	ErrorCategoryNetwork    ErrorCategory = "network"
	ErrorCategoryProtocol   ErrorCategory = "protocol"
	ErrorCategoryParseEmpty ErrorCategory = "parse_empty"
	ErrorCategoryDatabase   ErrorCategory = "database"
	ErrorCategoryValidation ErrorCategory = "validation"
)

// ServiceError is a categorized error with operational context.
type ServiceError struct {
	Category    ErrorCategory `json:"category"`
	Message     string        `json:"message"`
	Timestamp   time.Time     `json:"timestamp"`
	ServiceName string        `json:"service_name"`
	Operation   string        `json:"operation"`
	Cause       error         `json:"-"` // Original error, not serialized
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Category, e.Message)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// NewServiceError creates a new categorized service error.
func NewServiceError(category ErrorCategory, message, serviceName, operation string, cause error) *ServiceError {
	return &ServiceError{
		Category:    category,
		Message:     message,
		Timestamp:   time.Now(),
		ServiceName: serviceName,
		Operation:   operation,
		Cause:       cause,
	}
}

// LogError logs the error with structured fields.
func (e *ServiceError) LogError() {
	logrus.WithFields(logrus.Fields{
		"error_category":   e.Category,
		"error_message":    e.Message,
		"service_name":     e.ServiceName,
		"operation":        e.Operation,
		"timestamp":        e.Timestamp,
		"underlying_error": e.Cause,
	}).Error("Service error occurred")
}
