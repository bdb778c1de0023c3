// Package error provides the structured error type used across textomat.
//
// Package: error
// Title: Error Handling Framework
// Description: Errors carry a message, an optional cause, a Code, a Severity,
//              free-form details and the operation that produced them. The
//              transformation engine relies on codes to decide whether an
//              optional value may swallow a failure.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2026-10-19 v0.2.0: Engine codes, Recoverable, errors.As based lookups
//
// Usage:
//
//	import mdwerror "github.com/msto63/textomat/foundation/core/error"
//
//	err := mdwerror.New("missing index 3").
//		WithCode(mdwerror.CodeDataShape).
//		WithDetail("index", 3)
//
//	if mdwerror.Recoverable(err) {
//		// substitute the default
//	}
package error
