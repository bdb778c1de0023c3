package cmd

import (
	"io"
	"os"

	mdwerror "github.com/msto63/textomat/foundation/core/error"
	mdwlog "github.com/msto63/textomat/foundation/core/log"
	"github.com/msto63/textomat/foundation/dsl"
	"github.com/msto63/textomat/foundation/dsl/macro"
	"github.com/msto63/textomat/internal/convert"
	"github.com/msto63/textomat/pkg/core/config"
)

// app bundles what every command needs
type app struct {
	config *config.Config
	logger *mdwlog.Logger
	engine *dsl.Engine
	closer io.Closer
}

func (a *app) Close() error {
	return a.closer.Close()
}

// setup loads the configuration and builds the logger and engine. The
// interactive UI owns the terminal, so its logger discards entries unless
// a log file is configured.
func setup(interactive bool) (*app, error) {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, err
	}

	var fallback io.Writer = os.Stderr
	if interactive {
		fallback = nil
	}
	logger, closer, err := mdwlog.NewFromConfig(mdwlog.FactoryConfig{
		Name:     "textomat",
		Level:    cfg.General.LogLevel,
		Format:   cfg.General.LogFormat,
		File:     cfg.General.LogFile,
		Fallback: fallback,
	})
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to create logger").
			WithCode(mdwerror.CodeInvalidConfig)
	}
	// components built without an explicit logger fall back to this one
	mdwlog.SetDefault(logger)

	engine, err := newEngine(cfg, logger)
	if err != nil {
		closer.Close()
		return nil, err
	}
	return &app{config: cfg, logger: logger, engine: engine, closer: closer}, nil
}

func newEngine(cfg *config.Config, logger *mdwlog.Logger) (*dsl.Engine, error) {
	convOpts := convert.Options{
		Logger:        logger,
		DefaultInput:  cfg.Engine.DefaultInput,
		DefaultOutput: cfg.Engine.DefaultOutput,
		OutputWidth:   cfg.Engine.OutputWidth,
	}
	inputs := convert.NewInputs(convOpts)
	outputs := convert.NewOutputs(convOpts)

	if !inputs.Has(cfg.Engine.DefaultInput) {
		return nil, mdwerror.Newf("engine.default_input %q is not an input", cfg.Engine.DefaultInput).
			WithCode(mdwerror.CodeInvalidConfig)
	}
	if !outputs.Has(cfg.Engine.DefaultOutput) {
		return nil, mdwerror.Newf("engine.default_output %q is not an output", cfg.Engine.DefaultOutput).
			WithCode(mdwerror.CodeInvalidConfig)
	}

	macros := macro.NewSet()
	for alias, tmpl := range cfg.Macros {
		if err := macros.RegisterTemplate(alias, tmpl); err != nil {
			return nil, mdwerror.Wrap(err, "invalid macro").
				WithCode(mdwerror.CodeInvalidConfig).
				WithDetail("alias", alias)
		}
	}

	return dsl.New(dsl.Options{
		Inputs:           inputs,
		Outputs:          outputs,
		Macros:           macros,
		MaxCommandLength: cfg.Engine.MaxCommandLength,
		Logger:           logger,
	})
}
