package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/dynmodel/internal/config"
	"github.com/roach88/dynmodel/internal/model"
	"github.com/roach88/dynmodel/internal/store"
)

// session is everything a data command needs: resolved config, an open
// store, a Model on the configured table and an output formatter.
type session struct {
	cfg   config.Config
	store *store.Store
	model *model.Model
	out   *OutputFormatter
}

// loadConfig resolves configuration from file, dotenv, environment and
// finally the global flags.
func loadConfig(opts *RootOptions) (config.Config, error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	cfg, err := config.LoadFrom(opts.ConfigFile, opts.EnvFile, getenv)
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	if opts.Database != "" {
		cfg.Database = opts.Database
	}
	if opts.Table != "" {
		cfg.Table = opts.Table
	}
	if opts.TokenTable != "" {
		cfg.TokenTable = opts.TokenTable
	}
	if opts.Verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	return cfg, nil
}

// openSession loads config, configures logging and opens the database.
// Callers must Close the session.
func openSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	if cfg.Table == "" {
		return nil, NewExitError(ExitCommandError,
			"table is required (flag --table, config table or "+config.EnvTable+")")
	}

	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	}))

	logger.Debug("opening database", "path", cfg.Database)
	st, err := store.Open(cfg.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	m := model.New(st, cfg.Table,
		model.WithLogger(logger),
		model.WithAuthenticator(cfg.Authenticator()),
	)

	return &session{
		cfg:   cfg,
		store: st,
		model: m,
		out: &OutputFormatter{
			Format:    opts.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
			Verbose:   opts.Verbose,
			Session:   m.Session(),
		},
	}, nil
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}
