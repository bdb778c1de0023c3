// Package ast defines the parse trees of the textomat command language.
//
// Package: ast
// Title: Command Language Syntax Trees
// Description: Node types for the three sub-languages: column type lists,
//              structure literals and processor chains. Every node renders
//              back to command syntax with String, and parsing that text
//              again yields an equal tree.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial AST node definitions
// - 2026-10-19 v0.2.0: Replaced command nodes with type, structure and processor trees
package ast
