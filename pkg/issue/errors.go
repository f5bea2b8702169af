package issue

import (
	"fmt"
	"strings"
)

// ErrorType represents the type of error that occurred
type ErrorType int

const (
	// ErrorTypeConfiguration indicates missing or invalid credentials
	ErrorTypeConfiguration ErrorType = iota
	// ErrorTypeConnection indicates the Jira instance could not be reached
	ErrorTypeConnection
	// ErrorTypeValidation indicates an issue request failed validation
	ErrorTypeValidation
	// ErrorTypeIssueCreation indicates issue creation failed after retries
	ErrorTypeIssueCreation
)

// String returns the name of the error type.
func (t ErrorType) String() string {
	switch t {
	case ErrorTypeConfiguration:
		return "configuration"
	case ErrorTypeConnection:
		return "connection"
	case ErrorTypeValidation:
		return "validation"
	case ErrorTypeIssueCreation:
		return "issue_creation"
	default:
		return "unknown"
	}
}

// IssueError represents a structured error with type and suggestion
type IssueError struct {
	Type       ErrorType
	Message    string
	Cause      error
	Suggestion string
}

// Error implements the error interface
func (e *IssueError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("caused by: %v", e.Cause))
	}

	if e.Suggestion != "" {
		parts = append(parts, fmt.Sprintf("\n💡 %s", e.Suggestion))
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error
func (e *IssueError) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *IssueError) Is(target error) bool {
	t, ok := target.(*IssueError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(message string, cause error) *IssueError {
	return &IssueError{
		Type:       ErrorTypeConfiguration,
		Message:    message,
		Cause:      cause,
		Suggestion: "Set the missing JIRA_* environment variables or run 'jira-pm auth set'",
	}
}

// NewConnectionError creates a new connection error
func NewConnectionError(message string, cause error) *IssueError {
	return &IssueError{
		Type:       ErrorTypeConnection,
		Message:    message,
		Cause:      cause,
		Suggestion: "Check the Jira base URL and your network connection, then try again",
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *IssueError {
	return &IssueError{
		Type:       ErrorTypeValidation,
		Message:    message,
		Cause:      cause,
		Suggestion: "Check your input parameters and try again",
	}
}

// NewIssueCreationError creates a new issue creation error
func NewIssueCreationError(message string, cause error) *IssueError {
	return &IssueError{
		Type:       ErrorTypeIssueCreation,
		Message:    message,
		Cause:      cause,
		Suggestion: "Check that the project key and issue type exist in your Jira instance",
	}
}
