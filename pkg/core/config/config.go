package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/textomat/foundation/core/error"
	mdwlog "github.com/msto63/textomat/foundation/core/log"
)

// EnvConfig names the environment variable holding the config file path.
const EnvConfig = "TEXTOMAT_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Engine  EngineConfig  `toml:"engine" yaml:"engine"`
	UI      UIConfig      `toml:"ui" yaml:"ui"`
	Server  ServerConfig  `toml:"server" yaml:"server"`
	// Macros maps an alias to a template; {args} is replaced by the text
	// following the alias
	Macros map[string]string `toml:"macros" yaml:"macros"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
	// LogFile is appended to; "-" is stderr, empty disables logging in
	// the interactive UI and logs to stderr otherwise
	LogFile string `toml:"log_file" yaml:"log_file"`
}

// EngineConfig holds command processing settings
type EngineConfig struct {
	DefaultInput     string `toml:"default_input" yaml:"default_input"`
	DefaultOutput    string `toml:"default_output" yaml:"default_output"`
	InitialCommand   string `toml:"initial_command" yaml:"initial_command"`
	MaxCommandLength int    `toml:"max_command_length" yaml:"max_command_length"`
	// OutputWidth is the line width of the literal output
	OutputWidth int `toml:"output_width" yaml:"output_width"`
}

// UIConfig holds interactive UI settings
type UIConfig struct {
	// Vertical stacks the input and output panes
	Vertical bool `toml:"vertical" yaml:"vertical"`
	// Manual disables processing on every edit
	Manual bool `toml:"manual" yaml:"manual"`
	// LexerThreshold is the text size above which highlighting is off
	LexerThreshold int      `toml:"lexer_threshold" yaml:"lexer_threshold"`
	Debounce       Duration `toml:"debounce" yaml:"debounce"`
}

// ServerConfig holds websocket endpoint settings
type ServerConfig struct {
	Host           string   `toml:"host" yaml:"host"`
	Port           int      `toml:"port" yaml:"port"`
	ReadTimeout    Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout   Duration `toml:"write_timeout" yaml:"write_timeout"`
	PingInterval   Duration `toml:"ping_interval" yaml:"ping_interval"`
	MaxMessageSize int64    `toml:"max_message_size" yaml:"max_message_size"`
	AllowedOrigins []string `toml:"allowed_origins" yaml:"allowed_origins"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", node.Line)
	}
	return d.UnmarshalText([]byte(node.Value))
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML file, or a YAML file when the
// extension is .yaml or .yml. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	// Expand environment variables in path
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, mdwerror.Newf("config file not found: %s", path).
			WithCode(mdwerror.CodeNotFound).
			WithOperation("config_load")
	}
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to read config").
			WithCode(mdwerror.CodeIO).
			WithDetail("path", path)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = decodeYAML(data, &cfg)
	default:
		err = decodeTOML(data, &cfg)
	}
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config").
			WithCode(mdwerror.CodeInvalidConfig).
			WithDetail("path", path)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeTOML(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Locate returns the config file named by TEXTOMAT_CONFIG, or the first
// existing file among the default locations. It returns "" if there is
// none.
func Locate() string {
	if path := os.Getenv(EnvConfig); path != "" {
		return path
	}

	// Try default locations
	defaultPaths := []string{
		"./textomat.toml",
		"./textomat.yaml",
	}
	if dir, err := os.UserConfigDir(); err == nil {
		defaultPaths = append(defaultPaths,
			filepath.Join(dir, "textomat", "config.toml"),
			filepath.Join(dir, "textomat", "config.yaml"),
		)
	}
	for _, p := range defaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadOrDefault loads path, or the located config file when path is empty.
// Without any config file the defaults are returned.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		path = Locate()
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	invalid := func(format string, args ...interface{}) error {
		return mdwerror.Newf(format, args...).
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config_validate")
	}
	if _, err := mdwlog.ParseLevel(c.General.LogLevel); err != nil {
		return invalid("general.log_level: %v", err)
	}
	if _, err := mdwlog.ParseFormat(c.General.LogFormat); err != nil {
		return invalid("general.log_format: %v", err)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return invalid("server.port %d out of range", c.Server.Port)
	}
	if c.Engine.MaxCommandLength < 0 {
		return invalid("engine.max_command_length must not be negative")
	}
	for alias, tmpl := range c.Macros {
		if strings.TrimSpace(tmpl) == "" {
			return invalid("macros.%s has an empty template", alias)
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	// General
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	// Engine
	if c.Engine.DefaultInput == "" {
		c.Engine.DefaultInput = "c"
	}
	if c.Engine.DefaultOutput == "" {
		c.Engine.DefaultOutput = "l"
	}
	if c.Engine.MaxCommandLength == 0 {
		c.Engine.MaxCommandLength = 64 * 1024
	}
	if c.Engine.OutputWidth == 0 {
		c.Engine.OutputWidth = 80
	}

	// UI
	if c.UI.LexerThreshold == 0 {
		c.UI.LexerThreshold = 100_000
	}
	if c.UI.Debounce.Duration == 0 {
		c.UI.Debounce.Duration = 150 * time.Millisecond
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8765
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout.Duration = 60 * time.Second
	}
	if c.Server.WriteTimeout.Duration == 0 {
		c.Server.WriteTimeout.Duration = 10 * time.Second
	}
	if c.Server.PingInterval.Duration == 0 {
		c.Server.PingInterval.Duration = 30 * time.Second
	}
	if c.Server.MaxMessageSize == 0 {
		c.Server.MaxMessageSize = 1 << 20
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.General.LogFile = os.ExpandEnv(c.General.LogFile)
}
