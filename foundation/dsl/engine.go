// File: engine.go
// Title: Command Engine
// Description: Ties macros, the interpreter, the processor registries and
//              the row transformation together behind a single Process
//              call.
// Author: msto63
// Version: v0.2.1
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial high-level engine implementation
// - 2026-10-19 v0.2.0: Text transformation engine with cached input
// - 2026-10-19 v0.2.1: Failed input reads drop the cached rows

package dsl

import (
	mdwerror "github.com/msto63/textomat/foundation/core/error"
	mdwlog "github.com/msto63/textomat/foundation/core/log"
	"github.com/msto63/textomat/foundation/dsl/command"
	"github.com/msto63/textomat/foundation/dsl/macro"
	"github.com/msto63/textomat/foundation/dsl/parser"
	"github.com/msto63/textomat/foundation/dsl/registry"
	"github.com/msto63/textomat/foundation/dsl/transform"
	"github.com/msto63/textomat/foundation/dsl/value"
)

// Input turns text, or the result of the previous input, into rows and
// headers.
type Input interface {
	GetRows(data any, cmd *command.ProcessedCommand) (any, []string, error)
}

// Output renders shaped rows, or the text of the previous output.
type Output interface {
	CreateOutput(data any, cmd *command.ProcessedCommand) (string, error)
}

// Syntaxer is implemented by converters that know the syntax of the text
// they read or write, as a highlighting hint.
type Syntaxer interface {
	Syntax() string
}

// InputRegistry holds input converter factories.
type InputRegistry = registry.Registry[Input]

// OutputRegistry holds output converter factories.
type OutputRegistry = registry.Registry[Output]

// Default aliases of the processor registries.
const (
	DefaultInput  = "c"
	DefaultOutput = "l"
	NoOpAlias     = "n"
)

// NewInputRegistry creates an empty input registry. An empty def selects
// DefaultInput.
func NewInputRegistry(logger *mdwlog.Logger, def string) *InputRegistry {
	if def == "" {
		def = DefaultInput
	}
	return registry.New[Input](registry.Options{Kind: "input", Default: def, NoOp: NoOpAlias, Logger: logger})
}

// NewOutputRegistry creates an empty output registry. An empty def selects
// DefaultOutput.
func NewOutputRegistry(logger *mdwlog.Logger, def string) *OutputRegistry {
	if def == "" {
		def = DefaultOutput
	}
	return registry.New[Output](registry.Options{Kind: "output", Default: def, NoOp: NoOpAlias, Logger: logger})
}

// Trigger tells Process what prompted a run.
type Trigger int

const (
	// TriggerCommand is an edit of the command; an unchanged command is
	// not processed again
	TriggerCommand Trigger = iota
	// TriggerInput is an edit of the input text
	TriggerInput
	// TriggerRun is an explicit request
	TriggerRun
)

func (t Trigger) String() string {
	switch t {
	case TriggerCommand:
		return "command"
	case TriggerInput:
		return "input"
	case TriggerRun:
		return "run"
	}
	return "unknown"
}

// Result is the outcome of Process.
type Result struct {
	Output  string
	Command *command.ProcessedCommand
	Changes command.ChangeSet
	// Headers are the output headers
	Headers []string
	// Unchanged is set when a command trigger found nothing to do
	Unchanged bool
}

// Engine processes commands. It is immutable after New and may be shared
// by sessions running in different goroutines.
type Engine struct {
	inputs  *InputRegistry
	outputs *OutputRegistry
	macros  *macro.Set
	parser  *parser.Parser
	maxLen  int
	logger  *mdwlog.Logger
}

// Options configures the engine
type Options struct {
	Inputs  *InputRegistry
	Outputs *OutputRegistry
	// Macros defaults to the built-in macros
	Macros *macro.Set
	// MaxCommandLength rejects longer commands; zero means no limit
	MaxCommandLength int
	Logger           *mdwlog.Logger
}

// New creates an engine over the given registries.
func New(opts Options) (*Engine, error) {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	if opts.Inputs == nil || opts.Outputs == nil {
		return nil, mdwerror.New("engine needs input and output registries").
			WithCode(mdwerror.CodeInvalidConfig)
	}
	if opts.Macros == nil {
		opts.Macros = macro.NewSet()
	}
	logger := opts.Logger.WithField("component", "engine")

	e := &Engine{
		inputs:  opts.Inputs,
		outputs: opts.Outputs,
		macros:  opts.Macros,
		parser:  parser.New(parser.Options{Logger: opts.Logger}),
		maxLen:  opts.MaxCommandLength,
		logger:  logger,
	}
	logger.Debug("engine initialized", mdwlog.Fields{
		"inputs":  opts.Inputs.Aliases(),
		"outputs": opts.Outputs.Aliases(),
		"macros":  opts.Macros.Aliases(),
	})
	return e, nil
}

// Inputs returns the input registry.
func (e *Engine) Inputs() *InputRegistry { return e.inputs }

// Outputs returns the output registry.
func (e *Engine) Outputs() *OutputRegistry { return e.outputs }

// Process runs cmdText over text within session.
func (e *Engine) Process(s *Session, text, cmdText string, trigger Trigger) (*Result, error) {
	logger := e.logger.WithRequestID(s.ID)
	timer := logger.StartTimer("process").WithField("trigger", trigger.String())

	if e.maxLen > 0 && len(cmdText) > e.maxLen {
		err := mdwerror.Newf("command exceeds maximum length: %d > %d", len(cmdText), e.maxLen).
			WithCode(mdwerror.CodeSyntax).
			WithOperation("process")
		timer.StopWithError(err)
		return nil, err
	}

	expanded, err := e.macros.Expand(cmdText)
	if err != nil {
		timer.StopWithError(err)
		return nil, err
	}
	cmd, changes, err := s.interp.Interpret(expanded)
	if err != nil {
		timer.StopWithError(err)
		return nil, err
	}
	inputs, err := e.inputs.Resolve(cmd.Inputs, cmd.Raw, false)
	if err != nil {
		timer.StopWithError(err)
		return nil, err
	}
	outputs, err := e.outputs.Resolve(cmd.Outputs, cmd.Raw, false)
	if err != nil {
		timer.StopWithError(err)
		return nil, err
	}

	if trigger == TriggerCommand && changes.Empty() {
		timer.WithField("unchanged", true).Stop()
		return &Result{Command: cmd, Unchanged: true}, nil
	}

	if trigger != TriggerCommand || changes.RequiresReparse() || s.input == nil {
		in, err := readInput(inputs, text, cmd)
		if err != nil {
			// rows of an earlier input chain must not serve the next command
			s.input = nil
			timer.StopWithError(err)
			return nil, err
		}
		s.input = in
		logger.Debug("input parsed", mdwlog.Fields{"headers": len(in.Headers)})
	}

	shaped, headers, err := e.shape(cmd, s.input)
	if err != nil {
		timer.StopWithError(err)
		return nil, err
	}
	cmd.Headers = headers

	var data any = shaped
	for _, out := range outputs {
		rendered, err := out.CreateOutput(data, cmd)
		if err != nil {
			timer.StopWithError(err)
			return nil, converterError(err, "output")
		}
		data = rendered
	}
	output, _ := data.(string)

	timer.Stop()
	return &Result{Output: output, Command: cmd, Changes: changes, Headers: headers}, nil
}

// Syntax resolves the chains of the current session command in safe mode
// and returns the highlighting hints of the first input and last output.
func (e *Engine) Syntax(s *Session) (input, output string) {
	cmd := s.Command()
	if ins, err := e.inputs.Resolve(cmd.Inputs, cmd.Raw, true); err == nil && len(ins) > 0 {
		if sx, ok := ins[0].(Syntaxer); ok {
			input = sx.Syntax()
		}
	}
	if outs, err := e.outputs.Resolve(cmd.Outputs, cmd.Raw, true); err == nil && len(outs) > 0 {
		if sx, ok := outs[len(outs)-1].(Syntaxer); ok {
			output = sx.Syntax()
		}
	}
	return input, output
}

func readInput(inputs []Input, text string, cmd *command.ProcessedCommand) (*ProcessedInput, error) {
	var (
		data    any = text
		headers []string
	)
	for _, in := range inputs {
		prev := headers
		var err error
		data, headers, err = in.GetRows(data, cmd)
		if err != nil {
			return nil, converterError(err, "input")
		}
		if len(headers) == 0 {
			headers = prev
		}
	}
	return &ProcessedInput{Rows: data, Headers: headers}, nil
}

func (e *Engine) shape(cmd *command.ProcessedCommand, in *ProcessedInput) (any, []string, error) {
	if cmd.Raw {
		headers, err := transform.OutputHeaders(cmd.Structure, in.Headers)
		return in.Rows, headers, err
	}

	rows, ok := in.Rows.([]value.Row)
	if !ok {
		return nil, nil, mdwerror.New("input chain did not produce rows, use raw mode").
			WithCode(mdwerror.CodeDataShape).
			WithOperation("process")
	}
	prog, err := transform.Compile(cmd.Types, cmd.Structure, in.Headers)
	if err != nil {
		return nil, nil, err
	}
	shaped, err := prog.Rows(rows)
	if err != nil {
		return nil, nil, err
	}
	return shaped, prog.Headers(), nil
}

func converterError(err error, kind string) error {
	if _, ok := mdwerror.As(err); ok {
		return err
	}
	return mdwerror.Wrap(err, kind+" conversion failed").
		WithCode(mdwerror.CodeConverter)
}
