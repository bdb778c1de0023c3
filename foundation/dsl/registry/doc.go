// Package registry resolves processor aliases to converter instances.
//
// Package: registry
// Title: Processor Registry
// Description: A Registry is created per processor kind (inputs and
//              outputs) and filled with factories at startup. Resolution
//              of a command's chain happens on every run; the registry is
//              safe for concurrent use.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial registry implementation
// - 2026-10-19 v0.2.0: Generic alias registry for converter chains
package registry
