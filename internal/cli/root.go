package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string
	EnvFile    string
	Database   string
	Table      string
	TokenTable string

	// Getenv overrides environment lookup (for testing).
	// If nil, os.Getenv is used.
	Getenv func(string) string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the dynmodel CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dynmodel",
		Short: "dynmodel - query any table from the command line",
		Long: `A dynamic table model over SQLite.

Point dynmodel at a database and a table, then list, filter, insert,
update and delete rows. Every value is sent as a bound parameter.
Tables with a password column can log in and issue bearer tokens.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (debug logging)")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.StringVar(&opts.ConfigFile, "config", "", "config file (.yaml, .yml or .cue)")
	flags.StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file with DYNMODEL_* variables")
	flags.StringVar(&opts.Database, "db", "", "path to SQLite database")
	flags.StringVarP(&opts.Table, "table", "t", "", "table to operate on")
	flags.StringVar(&opts.TokenTable, "token-table", "", "table holding bearer tokens")

	// Add subcommands
	cmd.AddCommand(NewAllCommand(opts))
	cmd.AddCommand(NewFindCommand(opts))
	cmd.AddCommand(NewWhereCommand(opts))
	cmd.AddCommand(NewInsertCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewRawCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))
	cmd.AddCommand(NewHashPasswordCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
