// Package macro expands "@alias args" shorthands into full commands.
//
// Package: macro
// Title: Command Macros
// Description: A macro maps its argument text to a complete command. The
//              built-in "@jq <filter>" runs a jq filter over the raw input.
//              Further macros can be registered from text templates in
//              which "{args}" is replaced by the argument text.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation
package macro

import (
	"sort"
	"strings"
	"sync"

	mdwerror "github.com/msto63/textomat/foundation/core/error"
	mdwstringx "github.com/msto63/textomat/foundation/utils/stringx"
)

// Prefix marks a macro invocation.
const Prefix = "@"

// ArgsPlaceholder is replaced by the argument text in templates.
const ArgsPlaceholder = "{args}"

// Func builds a command from the argument text.
type Func func(args string) string

// Set is a collection of macros.
type Set struct {
	mu     sync.RWMutex
	macros map[string]Func
}

// NewSet returns a set holding the built-in macros.
func NewSet() *Set {
	s := &Set{macros: make(map[string]Func)}
	s.Register("jq", func(args string) string { return "r;o:jq`" + args + "`" })
	return s
}

// Register adds or replaces a macro.
func (s *Set) Register(alias string, fn Func) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.macros[alias] = fn
}

// RegisterTemplate adds a macro defined by a text template.
func (s *Set) RegisterTemplate(alias, template string) error {
	if alias == "" || strings.ContainsAny(alias, " \t") {
		return mdwerror.Newf("invalid macro alias %q", alias).
			WithCode(mdwerror.CodeInvalidConfig)
	}
	s.Register(alias, func(args string) string {
		return strings.ReplaceAll(template, ArgsPlaceholder, args)
	})
	return nil
}

// Aliases returns the registered aliases in sorted order.
func (s *Set) Aliases() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.macros))
	for a := range s.macros {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Expand returns text unchanged unless it starts with the macro prefix, in
// which case the macro named by the first word is applied to the rest.
func (s *Set) Expand(text string) (string, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, Prefix) {
		return text, nil
	}
	alias, args, _ := strings.Cut(text[len(Prefix):], " ")

	s.mu.RLock()
	fn, ok := s.macros[alias]
	s.mu.RUnlock()
	if !ok {
		e := mdwerror.Newf("unregistered macro %s", alias).
			WithCode(mdwerror.CodeUnregistered).
			WithDetail("alias", alias)
		if hint := mdwstringx.DidYouMean(alias, s.Aliases()); hint != "" {
			e = e.WithDetail("suggestion", hint)
		}
		return "", e
	}
	return fn(strings.TrimSpace(args)), nil
}

var builtin = NewSet()

// Expand expands text with the built-in macros.
func Expand(text string) (string, error) {
	return builtin.Expand(text)
}
