// File: session.go
// Title: Processing Session
// Description: Per caller state of the engine: the interpreter holding the
//              previous command and the cached result of the input chain.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package dsl

import (
	"time"

	"github.com/google/uuid"

	"github.com/msto63/textomat/foundation/dsl/command"
)

// ProcessedInput is the cached result of the input chain.
type ProcessedInput struct {
	// Rows is []value.Row unless the command runs in raw mode
	Rows    any
	Headers []string
}

// Session carries the state between runs. It is not safe for concurrent
// use.
type Session struct {
	ID      string
	Created time.Time
	interp  *command.Interpreter
	input   *ProcessedInput
}

// NewSession creates a session with an empty previous command.
func (e *Engine) NewSession() *Session {
	return &Session{
		ID:      uuid.NewString(),
		Created: time.Now(),
		interp:  command.NewInterpreter(command.Options{Logger: e.logger, Parser: e.parser}),
	}
}

// Command returns the last successfully compiled command.
func (s *Session) Command() *command.ProcessedCommand {
	return s.interp.Current()
}

// Input returns the cached input, nil before the first run.
func (s *Session) Input() *ProcessedInput {
	return s.input
}

// Reset forgets the previous command and the cached input.
func (s *Session) Reset() {
	s.interp.Reset()
	s.input = nil
}
