// ============================================================================
// textomat - Text Transformation Tool
// ============================================================================
//
// Package:     tui
// Description: Message types for async operations in the interactive UI
// Author:      msto63
// Created:     2025-12-07
// License:     MIT
// ============================================================================

package tui

import (
	"github.com/msto63/textomat/foundation/dsl"
)

// Message types for tea.Cmd async operations

// processedMsg is sent when the engine finished a run
type processedMsg struct {
	result *dsl.Result
	err    error
	// syntax hints of the input and output converters
	inSyntax  string
	outSyntax string
}

// debounceMsg fires after an edit once the debounce delay has passed
type debounceMsg struct {
	seq int
}

// fileChangedMsg is sent when the watched input file was written
type fileChangedMsg struct {
	text string
	err  error
}

// clipboardMsg reports the outcome of a copy
type clipboardMsg struct {
	err error
}

// startMsg triggers the first run once the program is up
type startMsg struct{}
