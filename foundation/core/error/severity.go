// File: severity.go
// Title: Error Severity Levels
// Description: Defines severity levels for errors. The UI colors the status
//              line by severity and the server reports it to clients.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with severity levels
// - 2026-10-19 v0.2.0: Severity mapping for engine codes

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow is a problem with a single value or lookup
	SeverityLow Severity = iota

	// SeverityMedium is a problem with the command the user typed
	SeverityMedium

	// SeverityHigh is a problem with the environment (files, configuration)
	SeverityHigh

	// SeverityCritical is a bug
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeInternal:
		return SeverityCritical
	case CodeInvalidConfig, CodeIO:
		return SeverityHigh
	case CodeDataShape, CodeCoercion, CodeNotFound:
		return SeverityLow
	default:
		return SeverityMedium
	}
}
