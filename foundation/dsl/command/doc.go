// Package command compiles command strings into ProcessedCommand values.
//
// Package: command
// Title: Command Interpreter
// Description: A command is a list of expressions joined by a separator
//              (";" unless the command starts with ":" and a custom
//              separator character). Each expression is a flag ("h" for a
//              header row, "r" for raw mode) or a "letter:body" pair:
//
//	d:<delimiter>   input delimiter, backslash escapes allowed ("d:\t")
//	h:<bool>        header flag
//	t:<types>       column types, see parser.ParseTypes
//	s:<structure>   output structure, see parser.ParseStructure
//	i:<processors>  input chain
//	o:<processors>  output chain
//
//              The Interpreter keeps the previously compiled command and
//              reports which attributes changed so callers can decide
//              whether the input has to be parsed again.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation
package command
