// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used to classify failures of the command
//              language, the row transformation engine and the converters.
//              Codes separate recoverable data failures from configuration
//              errors that must always reach the user.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-19 v0.2.0: Codes retargeted to the textomat engine

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown  Code = "UNKNOWN"
	CodeInternal Code = "INTERNAL"
	CodeNotFound Code = "NOT_FOUND"

	// Command language
	CodeSyntax       Code = "SYNTAX"
	CodeUnsupported  Code = "UNSUPPORTED"
	CodeUnregistered Code = "UNREGISTERED"

	// Row data
	CodeDataShape      Code = "DATA_SHAPE"
	CodeCoercion       Code = "COERCION"
	CodeInvalidLiteral Code = "INVALID_LITERAL"

	// Converters
	CodeConverter Code = "CONVERTER"

	// Configuration and environment
	CodeInvalidConfig Code = "INVALID_CONFIG"
	CodeIO            Code = "IO"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeSyntax, CodeUnsupported, CodeUnregistered:
		return "command"
	case CodeDataShape, CodeCoercion:
		return "data"
	case CodeInvalidLiteral, CodeInvalidConfig:
		return "configuration"
	case CodeConverter, CodeIO:
		return "converter"
	default:
		return "generic"
	}
}

// Recoverable reports whether errors with this code describe a single cell or
// lookup that optional and default rules may replace.
func (c Code) Recoverable() bool {
	return c == CodeDataShape || c == CodeCoercion
}
