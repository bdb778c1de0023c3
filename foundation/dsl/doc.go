// Package dsl runs commands of the textomat command language over text.
//
// Package: dsl
// Title: Command Engine
// Description: The Engine expands macros, compiles the command, feeds the
//              text through the input chain, coerces and shapes every row
//              and renders the result with the output chain. Parsed input
//              is cached in a Session and reused while the command only
//              changes types, structure or outputs.
//
//              Typical use:
//
//	engine, err := dsl.New(dsl.Options{Inputs: inputs, Outputs: outputs})
//	session := engine.NewSession()
//	res, err := engine.Process(session, "a,b\n1,x", "h;t:i;s:{a,b};o:j", dsl.TriggerRun)
//
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation
package dsl
