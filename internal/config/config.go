package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/roach88/dynmodel/internal/auth"
	"github.com/roach88/dynmodel/internal/sqlbuild"
)

// Environment variables read by Load.
const (
	EnvDatabase         = "DYNMODEL_DATABASE"
	EnvTable            = "DYNMODEL_TABLE"
	EnvTokenTable       = "DYNMODEL_TOKEN_TABLE"
	EnvLogLevel         = "DYNMODEL_LOG_LEVEL"
	EnvRecordTimestamps = "DYNMODEL_RECORD_TIMESTAMPS"
)

//go:embed schema.cue
var schemaSource string

// Config holds runtime settings for the CLI and the Model it builds.
type Config struct {
	// Database is the SQLite file path.
	Database string `yaml:"database" json:"database"`

	// Table is the table commands operate on.
	Table string `yaml:"table" json:"table"`

	// TokenTable is where bearer tokens are stored.
	TokenTable string `yaml:"token_table" json:"token_table"`

	// RecordTimestamps stamps created_at on insert.
	RecordTimestamps bool `yaml:"record_timestamps" json:"record_timestamps"`

	// PasswordFields lists credential keys treated as the password.
	PasswordFields []string `yaml:"password_fields" json:"password_fields"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		TokenTable:       auth.DefaultTokenTable,
		RecordTimestamps: true,
		PasswordFields:   append([]string(nil), auth.DefaultPasswordFields...),
		LogLevel:         "info",
	}
}

// Load builds a Config from defaults, the optional config file at path,
// the optional dotenv file at envFile and the process environment, in
// that order of precedence. Missing envFile is not an error.
func Load(path, envFile string) (Config, error) {
	return LoadFrom(path, envFile, os.Getenv)
}

// LoadFrom is Load with an explicit environment lookup.
func LoadFrom(path, envFile string, getenv func(string) string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	dotenv := map[string]string{}
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			dotenv = vars
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read env file %s: %w", envFile, err)
		}
	}

	lookup := func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}
	if err := cfg.mergeEnv(lookup); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return c.mergeYAML(data)
	case ".cue":
		return c.mergeCUE(path, data)
	default:
		return fmt.Errorf("unsupported config file %s: want .yaml, .yml or .cue", path)
	}
}

func (c *Config) mergeYAML(data []byte) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

func (c *Config) mergeCUE(path string, data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue")).
		LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("building config schema: %w", err)
	}

	file := ctx.CompileBytes(data, cue.Filename(path))
	if err := file.Err(); err != nil {
		return fmt.Errorf("failed to parse CUE: %w", err)
	}

	merged := schema.Unify(file)
	if err := merged.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := merged.Decode(c); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	return nil
}

func (c *Config) mergeEnv(lookup func(string) string) error {
	if v := lookup(EnvDatabase); v != "" {
		c.Database = v
	}
	if v := lookup(EnvTable); v != "" {
		c.Table = v
	}
	if v := lookup(EnvTokenTable); v != "" {
		c.TokenTable = v
	}
	if v := lookup(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := lookup(EnvRecordTimestamps); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRecordTimestamps, err)
		}
		c.RecordTimestamps = b
	}
	return nil
}

// Validate checks that the configuration can open a database.
// The table may be empty; commands that need one check it themselves.
func (c Config) Validate() error {
	if c.Database == "" {
		return fmt.Errorf("database path is required (flag --db or %s)", EnvDatabase)
	}
	if c.Table != "" && !sqlbuild.ValidIdentifier(c.Table) {
		return fmt.Errorf("table %q is not a valid identifier", c.Table)
	}
	if !sqlbuild.ValidIdentifier(c.TokenTable) {
		return fmt.Errorf("token table %q is not a valid identifier", c.TokenTable)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", c.LogLevel)
	}
}

// Authenticator returns an Authenticator using the configured password fields.
func (c Config) Authenticator() *auth.Authenticator {
	a := auth.New()
	if len(c.PasswordFields) > 0 {
		a.PasswordFields = c.PasswordFields
	}
	return a
}
