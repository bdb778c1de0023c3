package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mdwerror "github.com/msto63/textomat/foundation/core/error"
	mdwlog "github.com/msto63/textomat/foundation/core/log"
	"github.com/msto63/textomat/foundation/dsl"
	"github.com/msto63/textomat/pkg/core/config"
)

func TestNewEngine(t *testing.T) {
	cfg := config.Default()
	cfg.Engine.DefaultOutput = "j"
	cfg.Macros = map[string]string{"cols": "h;s:[{args}];o:c"}

	engine, err := newEngine(cfg, mdwlog.Discard())
	require.NoError(t, err)

	res, err := engine.Process(engine.NewSession(), "a,b\n1,2", "@cols b", dsl.TriggerRun)
	require.NoError(t, err)
	assert.Equal(t, "\"b\"\n\"2\"\n", res.Output)

	res, err = engine.Process(engine.NewSession(), "x", "", dsl.TriggerRun)
	require.NoError(t, err)
	assert.Equal(t, "[\n    [\n        \"x\"\n    ]\n]", res.Output)
}

func TestNewEngine_InvalidDefaults(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Config)
	}{
		{"input", func(c *config.Config) { c.Engine.DefaultInput = "xml" }},
		{"output", func(c *config.Config) { c.Engine.DefaultOutput = "xml" }},
		{"macro alias", func(c *config.Config) { c.Macros = map[string]string{"a b": "h"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.modify(cfg)
			_, err := newEngine(cfg, mdwlog.Discard())
			assert.True(t, mdwerror.HasCode(err, mdwerror.CodeInvalidConfig), "%v", err)
		})
	}
}

func TestReadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n"), 0644))

	text, err := readInput(path, false)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", text)

	text, err = readInput("", false)
	require.NoError(t, err)
	assert.Empty(t, text)

	_, err = readInput(filepath.Join(t.TempDir(), "missing"), false)
	assert.True(t, mdwerror.HasCode(err, mdwerror.CodeIO))
}
