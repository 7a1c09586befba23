package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/dynmodel/internal/model"
	"github.com/roach88/dynmodel/internal/value"
)

// WriteOptions holds flags for insert, update and delete.
type WriteOptions struct {
	*RootOptions
	Values      string
	NoTimestamp bool
	Column      string
	Operator    string
}

// NewInsertCommand creates the insert command.
func NewInsertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WriteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "insert",
		Short: "Insert a row",
		Long: `Insert a row built from a JSON object and print its id.

Keys keep their order. created_at is stamped unless --no-timestamp is set
or record_timestamps is false in the config.

Example:
  dynmodel insert --values '{"name":"Ana","email":"ana@x.io"}' --db app.db --table users`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseValues(opts.Values)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid --values", err)
			}

			s, err := openSession(opts.RootOptions, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			stamp := s.cfg.RecordTimestamps && !opts.NoTimestamp
			id, err := s.model.Insert(cmd.Context(), values, stamp)
			if err != nil {
				return s.out.Fail("insert failed", err)
			}
			if s.out.Format == "json" {
				return s.out.Success(map[string]int64{"id": id})
			}
			return s.out.Success(id)
		},
	}

	cmd.Flags().StringVar(&opts.Values, "values", "", "JSON object of column values (required)")
	cmd.Flags().BoolVar(&opts.NoTimestamp, "no-timestamp", false, "do not stamp created_at")
	_ = cmd.MarkFlagRequired("values")
	return cmd
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WriteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update <value>",
		Short: "Update rows matching a value",
		Long: `Apply a JSON object of column values to rows whose column matches
value (id by default). Exits with status 1 when no row matches.

Example:
  dynmodel update 1 --values '{"name":"Ana María"}' --db app.db --table users`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseValues(opts.Values)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid --values", err)
			}

			s, err := openSession(opts.RootOptions, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			id, updated, err := s.model.UpdateBy(cmd.Context(), values, opts.Column, opts.Operator, value.Parse(args[0]))
			if err != nil {
				return s.out.Fail("update failed", err)
			}
			if s.out.Format == "json" {
				return s.out.Success(map[string]interface{}{"id": value.Native(id), "updated": updated})
			}
			if !updated {
				return s.out.Success("not updated")
			}
			return s.out.Success(fmt.Sprintf("updated %s", value.String(id)))
		},
	}

	cmd.Flags().StringVar(&opts.Values, "values", "", "JSON object of column values (required)")
	cmd.Flags().StringVar(&opts.Column, "column", model.IDColumn, "column to match")
	cmd.Flags().StringVar(&opts.Operator, "op", "=", "comparison operator")
	_ = cmd.MarkFlagRequired("values")
	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WriteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "delete <value>",
		Short: "Delete rows matching a value",
		Long: `Delete rows whose column matches value (id by default).
Exits with status 1 when no row matches.

Example:
  dynmodel delete 1 --db app.db --table users`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts.RootOptions, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			deleted, err := s.model.DeleteBy(cmd.Context(), opts.Column, opts.Operator, value.Parse(args[0]))
			if err != nil {
				return s.out.Fail("delete failed", err)
			}
			if s.out.Format == "json" {
				return s.out.Success(map[string]bool{"deleted": deleted})
			}
			return s.out.Success(fmt.Sprintf("deleted: %t", deleted))
		},
	}

	cmd.Flags().StringVar(&opts.Column, "column", model.IDColumn, "column to match")
	cmd.Flags().StringVar(&opts.Operator, "op", "=", "comparison operator")
	return cmd
}

// parseValues decodes a JSON object into an ordered record.
func parseValues(raw string) (value.Record, error) {
	var rec value.Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, err
	}
	return rec, nil
}
