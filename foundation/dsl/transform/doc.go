// Package transform turns parsed rows into shaped output values.
//
// Package: transform
// Title: Row Transformation Engine
// Description: CompileTypes turns a column type list into coercion steps
//              applied to each row in place; CompileStructure turns a
//              structure literal into a function that builds the output
//              value of a row; OutputHeaders derives the names of the
//              output columns. Compile bundles all three for one command.
//
//              Optional and default handling differs between the two
//              halves. For types, a default without any "?" makes both the
//              column reference and the coercion optional. For structures,
//              a default makes every segment of a path safe only when no
//              segment carries its own "?".
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation
package transform
