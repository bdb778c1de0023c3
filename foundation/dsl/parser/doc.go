// Package parser implements the grammar of the textomat command language.
//
// Package: parser
// Title: Command Language Parser
// Description: Hand written recursive descent parsers for column type lists,
//              structure literals and processor chains, plus a tokenizer for
//              syntax highlighting of whole commands. Parsing is pure: the
//              same input always yields the same tree or the same error, and
//              an expression must be consumed completely.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial parser implementation
// - 2026-10-19 v0.2.0: Grammar of types, structures and processor chains
//
// Grammar:
//
//	types      = typeElem { "," typeElem }
//	typeElem   = segment ":" anyType | anyType | ε
//	anyType    = ("s"|"i"|"f"|"b"|"j"|"l"|"d"|"_") ["?"] [default]
//	structure  = "[]" | "()" | "{}" | "d()" | "s()" | open field { "," field } close
//	field      = id ":" (structure | ref) | structure | ref
//	ref        = segment { "." segment } [default]
//	segment    = loc | id
//	loc        = ["-"] digit { digit } ["?"]
//	id         = (quoted | bare) ["?"]
//	default    = "/" { any char except "/" }+ "/"
//	processors = processor { "," processor }
//	processor  = alnum { alnum } [ "`" { any char except "`" } "`" ]
package parser
