// File: program.go
// Title: Row Program
// Description: Bundles the coercion steps, the shaper and the output
//              headers compiled for one command.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package transform

import (
	"fmt"

	mdwerror "github.com/msto63/textomat/foundation/core/error"
	"github.com/msto63/textomat/foundation/dsl/ast"
	"github.com/msto63/textomat/foundation/dsl/value"
)

// Program transforms the rows of one input.
type Program struct {
	steps   []TypeStep
	shape   Shaper
	headers []string
}

// Compile prepares the transformation of rows with the given input headers.
func Compile(types []ast.Node, st *ast.Structure, headers []string) (*Program, error) {
	steps, err := CompileTypes(types, IndexHeaders(headers))
	if err != nil {
		return nil, err
	}
	shape, err := CompileStructure(st, headers)
	if err != nil {
		return nil, err
	}
	out, err := OutputHeaders(st, headers)
	if err != nil {
		return nil, err
	}
	return &Program{steps: steps, shape: shape, headers: out}, nil
}

// Headers returns the output header names.
func (p *Program) Headers() []string {
	return p.headers
}

// Row coerces and shapes a single row.
func (p *Program) Row(row value.Row) (any, error) {
	typed, err := ApplyTypes(p.steps, row)
	if err != nil {
		return nil, err
	}
	return p.shape(typed)
}

// Rows transforms every row. Errors name the 1-based row number.
func (p *Program) Rows(rows []value.Row) ([]any, error) {
	out := make([]any, len(rows))
	for i, r := range rows {
		v, err := p.Row(r)
		if err != nil {
			return nil, mdwerror.Wrap(err, fmt.Sprintf("row %d", i+1)).
				WithDetail("row", i+1)
		}
		out[i] = v
	}
	return out, nil
}
