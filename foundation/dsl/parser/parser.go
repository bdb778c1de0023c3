// File: parser.go
// Title: Recursive Descent Parser
// Description: Parses column type lists, structure literals and processor
//              chains into syntax trees. Alternatives are tried in order and
//              the first one that matches wins; whitespace between tokens is
//              insignificant except inside quoted names, defaults and
//              processor arguments.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial parser implementation
// - 2026-10-19 v0.2.0: Grammar of types, structures and processor chains

package parser

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	mdwerror "github.com/msto63/textomat/foundation/core/error"
	mdwlog "github.com/msto63/textomat/foundation/core/log"
	"github.com/msto63/textomat/foundation/dsl/ast"
)

// Parser parses the sub-expressions of a command.
type Parser struct {
	logger  *mdwlog.Logger
	options Options
}

// Options configures parser behavior
type Options struct {
	Logger         *mdwlog.Logger
	MaxInputLength int
}

// SyntaxError describes where an expression stopped matching its grammar.
type SyntaxError struct {
	Kind    string
	Expr    string
	Offset  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at offset %d in %q", e.Message, e.Offset, e.Expr)
}

// New creates a parser with the given options
func New(opts Options) *Parser {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	if opts.MaxInputLength == 0 {
		opts.MaxInputLength = 64 * 1024
	}
	return &Parser{
		logger:  opts.Logger.WithField("component", "parser"),
		options: opts,
	}
}

var std = New(Options{Logger: mdwlog.Discard()})

// ParseTypes parses a column type list with a parser that does not log.
func ParseTypes(expr string) ([]ast.Node, error) { return std.ParseTypes(expr) }

// ParseStructure parses a structure literal with a parser that does not log.
func ParseStructure(expr string) (*ast.Structure, error) { return std.ParseStructure(expr) }

// ParseProcessors parses a processor chain with a parser that does not log.
func ParseProcessors(expr string) ([]ast.Processor, error) { return std.ParseProcessors(expr) }

// ParseTypes parses a comma separated list of column types. Each element is
// a *ast.TypeDef for the next positional column or a *ast.KeyToValue for a
// named one. Positional elements may not follow named ones.
func (p *Parser) ParseTypes(expr string) ([]ast.Node, error) {
	var nodes []ast.Node
	err := p.run("types", expr, func(s *scanner) error {
		named := false
		for {
			s.skipWhitespace()
			at := s.mark()
			n, err := typeElem(s)
			if err != nil {
				return err
			}
			if _, ok := n.(*ast.KeyToValue); ok {
				named = true
			} else if named {
				return failAt(at, "positional type after named type")
			}
			nodes = append(nodes, n)
			s.skipWhitespace()
			if !s.eat(",") {
				return nil
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

// ParseStructure parses a structure literal.
func (p *Parser) ParseStructure(expr string) (*ast.Structure, error) {
	var st *ast.Structure
	err := p.run("structure", expr, func(s *scanner) error {
		var ok bool
		var err error
		st, ok, err = structure(s)
		if !ok {
			return fail(s, "expected one of [ { ( d( s(")
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// ParseProcessors parses a comma separated processor chain.
func (p *Parser) ParseProcessors(expr string) ([]ast.Processor, error) {
	var procs []ast.Processor
	err := p.run("processors", expr, func(s *scanner) error {
		for {
			s.skipWhitespace()
			alias := s.take(isAlnum)
			if alias == "" {
				return fail(s, "expected processor alias")
			}
			proc := ast.Processor{Alias: alias}

			save := s.mark()
			s.skipWhitespace()
			if s.eat("`") {
				proc.Args = s.take(func(r rune) bool { return r != '`' })
				if !s.eat("`") {
					return fail(s, "unterminated processor arguments")
				}
			} else {
				s.reset(save)
			}
			procs = append(procs, proc)

			s.skipWhitespace()
			if !s.eat(",") {
				return nil
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return procs, nil
}

func (p *Parser) run(kind, expr string, parse func(*scanner) error) error {
	if len(expr) > p.options.MaxInputLength {
		return mdwerror.Newf("%s expression exceeds maximum length: %d > %d", kind, len(expr), p.options.MaxInputLength).
			WithCode(mdwerror.CodeSyntax)
	}

	s := newScanner(expr)
	err := parse(s)
	if err == nil {
		s.skipWhitespace()
		if !s.eof() {
			err = fail(s, fmt.Sprintf("unexpected %q", s.peek()))
		}
	}
	if err == nil {
		p.logger.Trace("expression parsed", mdwlog.Fields{"kind": kind, "expression": expr})
		return nil
	}

	synErr, ok := err.(*SyntaxError)
	if !ok {
		return err
	}
	synErr.Kind = kind
	synErr.Expr = expr
	p.logger.Debug("expression rejected", mdwlog.Fields{
		"kind":       kind,
		"expression": expr,
		"offset":     synErr.Offset,
		"reason":     synErr.Message,
	})
	return mdwerror.Wrap(synErr, "invalid "+kind+" expression").
		WithCode(mdwerror.CodeSyntax).
		WithDetail("expression", expr).
		WithOperation("parse_" + kind)
}

func fail(s *scanner, msg string) *SyntaxError {
	return &SyntaxError{Offset: s.pos, Message: msg}
}

func failAt(pos int, msg string) *SyntaxError {
	return &SyntaxError{Offset: pos, Message: msg}
}

func typeElem(s *scanner) (ast.Node, error) {
	start := s.mark()

	if seg, ok := segment(s); ok {
		s.skipWhitespace()
		if s.eat(":") {
			td, ok, err := anyType(s)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, fail(s, "expected type letter")
			}
			return &ast.KeyToValue{Key: seg, Value: td}, nil
		}
	}

	s.reset(start)
	td, ok, err := anyType(s)
	if err != nil {
		return nil, err
	}
	if ok {
		return td, nil
	}

	s.reset(start)
	return &ast.TypeDef{Kind: ast.KindDefault}, nil
}

func anyType(s *scanner) (*ast.TypeDef, bool, error) {
	s.skipWhitespace()
	r := s.peek()
	if r >= utf8.RuneSelf || !ast.TypeKind(r).Valid() {
		return nil, false, nil
	}
	s.advance()

	td := &ast.TypeDef{Kind: ast.TypeKind(r), Optional: optionalMarker(s)}
	d, err := defaultLiteral(s)
	if err != nil {
		return nil, true, err
	}
	td.Default = d
	return td, true, nil
}

func optionalMarker(s *scanner) bool {
	save := s.mark()
	s.skipWhitespace()
	if s.eat("?") {
		return true
	}
	s.reset(save)
	return false
}

func defaultLiteral(s *scanner) (*string, error) {
	save := s.mark()
	s.skipWhitespace()
	if !s.eat("/") {
		s.reset(save)
		return nil, nil
	}
	body := s.take(func(r rune) bool { return r != '/' })
	if body == "" {
		return nil, fail(s, "empty default")
	}
	if !s.eat("/") {
		return nil, fail(s, "unterminated default")
	}
	return &body, nil
}

// structure returns ok=false when the input does not start a structure.
func structure(s *scanner) (*ast.Structure, bool, error) {
	s.skipWhitespace()
	var shape ast.Shape
	switch {
	case s.eat("d("):
		shape = ast.ShapeDictCall
	case s.eat("s("):
		shape = ast.ShapeSet
	case s.eat("["):
		shape = ast.ShapeList
	case s.eat("{"):
		shape = ast.ShapeDict
	case s.eat("("):
		shape = ast.ShapeTuple
	default:
		return nil, false, nil
	}

	st := &ast.Structure{Shape: shape}
	s.skipWhitespace()
	if s.eat(shape.Close()) {
		return st, true, nil
	}
	for {
		f, err := field(s)
		if err != nil {
			return nil, true, err
		}
		st.Fields = append(st.Fields, f)

		s.skipWhitespace()
		if s.eat(",") {
			continue
		}
		if s.eat(shape.Close()) {
			return st, true, nil
		}
		return nil, true, fail(s, "expected , or "+shape.Close())
	}
}

func field(s *scanner) (ast.Node, error) {
	s.skipWhitespace()
	start := s.mark()

	if key, ok := id(s); ok {
		s.skipWhitespace()
		if s.eat(":") {
			v, err := structureOrRef(s)
			if err != nil {
				return nil, err
			}
			return &ast.KeyToValue{Key: key, Value: v}, nil
		}
	}

	s.reset(start)
	return structureOrRef(s)
}

func structureOrRef(s *scanner) (ast.Node, error) {
	s.skipWhitespace()
	start := s.mark()

	st, ok, err := structure(s)
	if ok && err == nil {
		return st, nil
	}
	s.reset(start)
	r, refErr := ref(s)
	if refErr == nil {
		return r, nil
	}
	if ok {
		return nil, err
	}
	return nil, refErr
}

func ref(s *scanner) (*ast.Ref, error) {
	seg, ok := segment(s)
	if !ok {
		return nil, fail(s, "expected reference")
	}
	r := &ast.Ref{Path: []ast.Segment{seg}}
	for {
		save := s.mark()
		s.skipWhitespace()
		if !s.eat(".") {
			s.reset(save)
			break
		}
		seg, ok = segment(s)
		if !ok {
			return nil, fail(s, "expected reference after .")
		}
		r.Path = append(r.Path, seg)
	}

	d, err := defaultLiteral(s)
	if err != nil {
		return nil, err
	}
	r.Default = d
	return r, nil
}

// segment tries a position before a name.
func segment(s *scanner) (ast.Segment, bool) {
	s.skipWhitespace()
	start := s.mark()
	if l, ok := loc(s); ok {
		return l, true
	}
	s.reset(start)
	if i, ok := id(s); ok {
		return i, true
	}
	s.reset(start)
	return nil, false
}

func loc(s *scanner) (ast.Loc, bool) {
	neg := s.eat("-")
	digits := s.take(isDigit)
	if digits == "" {
		return ast.Loc{}, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return ast.Loc{}, false
	}
	if neg {
		n = -n
	}
	return ast.Loc{Index: n, Optional: optionalMarker(s)}, true
}

func id(s *scanner) (ast.Id, bool) {
	s.skipWhitespace()
	if q := s.peek(); q == '\'' || q == '"' {
		save := s.mark()
		s.advance()
		body := s.take(func(r rune) bool { return r != q && r != '\n' && r != '\r' })
		if s.eat(string(q)) {
			return ast.Id{Name: body, Optional: optionalMarker(s)}, true
		}
		s.reset(save)
	}

	name := s.take(ast.IsBareIDRune)
	if name == "" {
		return ast.Id{}, false
	}
	return ast.Id{Name: name, Optional: optionalMarker(s)}, true
}
