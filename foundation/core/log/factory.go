// File: factory.go
// Title: Logger Factory
// Description: Builds a logger from the level, format and output settings of
//              the application configuration.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package log

import (
	"io"
	"os"
	"path/filepath"
)

// FactoryConfig holds configuration for creating loggers
type FactoryConfig struct {
	// Name of the logger, printed with every entry
	Name string

	// Level as accepted by ParseLevel
	Level string

	// Format as accepted by ParseFormat
	Format string

	// File to append to; "-" means stderr, empty means Fallback
	File string

	// Fallback output when File is empty; nil means io.Discard
	Fallback io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewFromConfig creates a logger for cfg. The returned closer releases the
// log file, if one was opened.
func NewFromConfig(cfg FactoryConfig) (*Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	format, err := ParseFormat(cfg.Format)
	if err != nil {
		return nil, nil, err
	}

	var (
		output io.Writer = cfg.Fallback
		closer io.Closer = nopCloser{}
	)
	switch cfg.File {
	case "":
		if output == nil {
			output = io.Discard
		}
	case "-":
		output = os.Stderr
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		output, closer = f, f
	}

	logger := NewWithConfig(Config{
		Level:  level,
		Format: format,
		Output: output,
		Name:   cfg.Name,
	})
	return logger, closer, nil
}
