// File: interpreter.go
// Title: Command Interpreter
// Description: Splits a command into expressions, compiles each one with
//              the parser and keeps the previous command so that repeated
//              or no-op commands cost nothing.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package command

import (
	"strconv"
	"strings"
	"unicode/utf8"

	mdwerror "github.com/msto63/textomat/foundation/core/error"
	mdwlog "github.com/msto63/textomat/foundation/core/log"
	"github.com/msto63/textomat/foundation/dsl/parser"
	mdwstringx "github.com/msto63/textomat/foundation/utils/stringx"
)

// DefaultSeparator separates expressions unless a command picks its own.
const DefaultSeparator = parser.DefaultSeparator

// NoOp re-runs the previous command unchanged.
const NoOp = ":"

// ExpressionTypes lists the letters an expression may start with.
var ExpressionTypes = []string{"d", "h", "t", "s", "i", "o"}

// Interpreter compiles commands and remembers the last good one. It is not
// safe for concurrent use.
type Interpreter struct {
	parser  *parser.Parser
	logger  *mdwlog.Logger
	current *ProcessedCommand
}

// Options configures an Interpreter
type Options struct {
	Logger *mdwlog.Logger
	Parser *parser.Parser
}

// NewInterpreter creates an interpreter whose current command is empty.
func NewInterpreter(opts Options) *Interpreter {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	if opts.Parser == nil {
		opts.Parser = parser.New(parser.Options{Logger: opts.Logger})
	}
	return &Interpreter{
		parser:  opts.Parser,
		logger:  opts.Logger.WithField("component", "interpreter"),
		current: &ProcessedCommand{},
	}
}

// Current returns the last successfully compiled command.
func (in *Interpreter) Current() *ProcessedCommand {
	return in.current
}

// Reset forgets the previous command.
func (in *Interpreter) Reset() {
	in.current = &ProcessedCommand{}
}

// Interpret compiles text. The no-op command and a command identical to the
// previous one return the previous command with an empty change set. On
// error the previous command stays current.
func (in *Interpreter) Interpret(text string) (*ProcessedCommand, ChangeSet, error) {
	text = strings.TrimSpace(text)
	if text == NoOp || text == in.current.Source {
		return in.current, nil, nil
	}

	next, err := in.compile(text)
	if err != nil {
		in.logger.Debug("command rejected", mdwlog.Fields{"command": text, "error": err.Error()})
		return nil, nil, err
	}

	changes := Diff(in.current, next)
	in.current = next
	in.logger.Debug("command interpreted", mdwlog.Fields{
		"command": text,
		"changed": changes.Strings(),
	})
	return next, changes, nil
}

func (in *Interpreter) compile(text string) (*ProcessedCommand, error) {
	result := &ProcessedCommand{Source: text}

	sep := DefaultSeparator
	body := text
	if strings.HasPrefix(text, ":") && len(text) >= 2 {
		_, size := utf8.DecodeRuneInString(text[1:])
		sep = text[1 : 1+size]
		body = text[1+size:]
	}

	for _, expr := range strings.Split(body, sep) {
		expr = strings.TrimSpace(expr)
		switch expr {
		case "":
			continue
		case "h":
			result.HasHeader = true
			continue
		case "r":
			result.Raw = true
			continue
		}

		kind, arg, ok := strings.Cut(expr, ":")
		if !ok {
			continue
		}
		kind, arg = strings.TrimSpace(kind), strings.TrimSpace(arg)
		if err := in.apply(result, kind, arg); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (in *Interpreter) apply(c *ProcessedCommand, kind, arg string) error {
	var err error
	switch kind {
	case "d":
		c.Delimiter, err = parseDelimiter(arg)
	case "h":
		c.HasHeader, err = parseHeaderFlag(arg)
	case "t":
		c.Types = nil
		if arg != "" {
			c.Types, err = in.parser.ParseTypes(arg)
		}
	case "s":
		c.Structure = nil
		if arg != "" {
			c.Structure, err = in.parser.ParseStructure(arg)
		}
	case "i":
		c.Inputs = nil
		if arg != "" {
			c.Inputs, err = in.parser.ParseProcessors(arg)
		}
	case "o":
		c.Outputs = nil
		if arg != "" {
			c.Outputs, err = in.parser.ParseProcessors(arg)
		}
	default:
		e := mdwerror.Newf("unsupported command type: %s", kind).
			WithCode(mdwerror.CodeUnsupported).
			WithOperation("interpret").
			WithDetail("type", kind)
		if hint := mdwstringx.DidYouMean(kind, ExpressionTypes); hint != "" {
			e = e.WithDetail("suggestion", hint)
		}
		return e
	}
	return err
}

// parseDelimiter returns nil for an empty body. Bodies starting with a
// backslash are unescaped like a Go string literal.
func parseDelimiter(arg string) (*string, error) {
	if strings.HasPrefix(arg, `\`) {
		unq, err := strconv.Unquote(`"` + arg + `"`)
		if err != nil {
			return nil, mdwerror.Wrap(err, "invalid delimiter escape: "+arg).
				WithCode(mdwerror.CodeInvalidLiteral).
				WithOperation("interpret")
		}
		arg = unq
	}
	if arg == "" {
		return nil, nil
	}
	return &arg, nil
}

func parseHeaderFlag(arg string) (bool, error) {
	if arg == "" {
		return true, nil
	}
	b, err := strconv.ParseBool(arg)
	if err != nil {
		return false, mdwerror.Wrap(err, "invalid header flag: "+arg).
			WithCode(mdwerror.CodeInvalidLiteral).
			WithOperation("interpret")
	}
	return b, nil
}

// delimiterText renders a delimiter so that parseDelimiter reads it back.
func delimiterText(d string) string {
	q := strconv.Quote(d)
	if q[1:len(q)-1] == d && !strings.HasPrefix(d, `\`) {
		return d
	}
	return q[1 : len(q)-1]
}
