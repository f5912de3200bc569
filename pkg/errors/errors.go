package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents network-related errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeNavigation represents headless-browser navigation errors
	ErrorTypeNavigation ErrorType = "navigation"
	// ErrorTypeExtraction represents extraction errors (no usable variants)
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeValidation represents validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypePersistence represents catalog write errors
	ErrorTypePersistence ErrorType = "persistence"
	// ErrorTypePublisher represents event publishing errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// ScrapeError represents a pipeline-specific error tied to one supplier
type ScrapeError struct {
	Type     ErrorType
	Supplier string
	Message  string
	Err      error
	Time     time.Time
}

// Error implements the error interface
func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Supplier, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Supplier, e.Message)
}

// Unwrap returns the underlying error
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// New creates a new ScrapeError
func New(errType ErrorType, supplier, message string, err error) *ScrapeError {
	return &ScrapeError{
		Type:     errType,
		Supplier: supplier,
		Message:  message,
		Err:      err,
		Time:     time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(supplier, message string, err error) *ScrapeError {
	return New(ErrorTypeNetwork, supplier, message, err)
}

// NewNavigation creates a new browser navigation error
func NewNavigation(supplier, message string, err error) *ScrapeError {
	return New(ErrorTypeNavigation, supplier, message, err)
}

// NewExtraction creates a new extraction error
func NewExtraction(supplier, message string, err error) *ScrapeError {
	return New(ErrorTypeExtraction, supplier, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(supplier, message string, err error) *ScrapeError {
	return New(ErrorTypeParsing, supplier, message, err)
}

// NewValidation creates a new validation error
func NewValidation(supplier, message string) *ScrapeError {
	return New(ErrorTypeValidation, supplier, message, nil)
}

// NewPersistence creates a new catalog write error
func NewPersistence(supplier, message string, err error) *ScrapeError {
	return New(ErrorTypePersistence, supplier, message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(supplier, message string, err error) *ScrapeError {
	return New(ErrorTypePublisher, supplier, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *ScrapeError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// IsType reports whether err is a ScrapeError of the given type
func IsType(err error, errType ErrorType) bool {
	var se *ScrapeError
	if errors.As(err, &se) {
		return se.Type == errType
	}
	return false
}
