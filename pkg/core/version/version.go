// ============================================================================
// textomat - Text Transformation Tool
// ============================================================================
//
// Package:     version
// Description: Central version management for the application, the command
//              language and the websocket protocol
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants
const (
	// Application version
	App = "0.3.0"

	// Grammar is the version of the command language
	Grammar = "1.0.0"

	// Protocol is the version of the websocket message protocol
	Protocol = "1.0.0"
)

// String returns the version line printed by the CLI
func String() string {
	return fmt.Sprintf("textomat %s (grammar %s, protocol %s, %s %s/%s)",
		App, Grammar, Protocol, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
