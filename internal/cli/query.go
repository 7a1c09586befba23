package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/dynmodel/internal/model"
	"github.com/roach88/dynmodel/internal/sqlbuild"
	"github.com/roach88/dynmodel/internal/value"
)

// QueryOptions holds flags shared by the read commands.
type QueryOptions struct {
	*RootOptions
	Columns  []string
	Column   string
	Operator string
	Params   []string
}

// NewAllCommand creates the all command.
func NewAllCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "all",
		Short: "List every row of the table",
		Long: `List every row of the configured table.

Example:
  dynmodel all --db app.db --table users
  dynmodel all --db app.db --table users --columns id,name --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts.RootOptions, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			rows, err := s.model.All(cmd.Context(), opts.Columns...)
			if err != nil {
				return s.out.Fail("all failed", err)
			}
			return s.out.Rows(rows)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Columns, "columns", nil, "columns to select (default all)")
	return cmd
}

// NewFindCommand creates the find command.
func NewFindCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "find <value>",
		Short: "Show the first row matching a value",
		Long: `Show the first row whose column matches value (id by default).

Exits with status 1 when no row matches.

Example:
  dynmodel find 1 --db app.db --table users
  dynmodel find ana@x.io --column email --db app.db --table users`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts.RootOptions, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			row, found, err := s.model.FindBy(cmd.Context(), opts.Column, opts.Operator, value.Parse(args[0]), opts.Columns...)
			if err != nil {
				return s.out.Fail("find failed", err)
			}
			if !found {
				_ = s.out.Error(string(model.KindNotFound), "no matching row", nil)
				return NewExitError(ExitFailure, "no matching row")
			}
			return s.out.Rows([]value.Record{row})
		},
	}

	cmd.Flags().StringSliceVar(&opts.Columns, "columns", nil, "columns to select (default all)")
	cmd.Flags().StringVar(&opts.Column, "column", model.IDColumn, "column to match")
	cmd.Flags().StringVar(&opts.Operator, "op", "=", "comparison operator")
	return cmd
}

// NewWhereCommand creates the where command.
func NewWhereCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "where <column> <op> <value> [and|or <column> <op> <value>]...",
		Short: "List rows matching a chain of predicates",
		Long: `List rows matching a chain of predicates joined with and/or.

Each predicate is three arguments. Quote operators the shell would
interpret, and multi-word operators such as "NOT LIKE".

Example:
  dynmodel where name = Ana --db app.db --table users
  dynmodel where name LIKE 'A%' or id '>' 10 --db app.db --table users`,
		Args:          cobra.MinimumNArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			terms, err := parseWhereArgs(args)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid predicate chain", err)
			}

			s, err := openSession(opts.RootOptions, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			for i, t := range terms {
				if t.Conj == sqlbuild.ConjOr {
					_, err = s.model.OrWhere(ctx, t.Predicate.Column, string(t.Predicate.Operator), t.Predicate.Value)
				} else if i == 0 {
					_, err = s.model.Where(ctx, t.Predicate.Column, string(t.Predicate.Operator), t.Predicate.Value, opts.Columns...)
				} else {
					_, err = s.model.Where(ctx, t.Predicate.Column, string(t.Predicate.Operator), t.Predicate.Value)
				}
				if err != nil {
					return s.out.Fail("where failed", err)
				}
			}
			s.out.VerboseLog("%s", s.model.LastStatement().Text)

			rows, err := s.model.Get()
			if err != nil {
				return s.out.Fail("where failed", err)
			}
			return s.out.Rows(rows)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Columns, "columns", nil, "columns to select (default all)")
	return cmd
}

// parseWhereArgs splits "col op val [and|or col op val]..." into terms.
// Operators are passed through as typed; the model validates them.
func parseWhereArgs(args []string) ([]sqlbuild.Term, error) {
	var terms []sqlbuild.Term
	conj := sqlbuild.ConjNone

	for i := 0; i < len(args); {
		if len(terms) > 0 {
			switch strings.ToLower(args[i]) {
			case "and":
				conj = sqlbuild.ConjAnd
			case "or":
				conj = sqlbuild.ConjOr
			default:
				return nil, fmt.Errorf("expected and/or before %q", args[i])
			}
			i++
		}
		if len(args)-i < 3 {
			return nil, fmt.Errorf("incomplete predicate %q: want <column> <op> <value>", strings.Join(args[i:], " "))
		}
		terms = append(terms, sqlbuild.Term{
			Conj: conj,
			Predicate: sqlbuild.Predicate{
				Column:   args[i],
				Operator: sqlbuild.Operator(args[i+1]),
				Value:    value.Parse(args[i+2]),
			},
		})
		i += 3
	}
	return terms, nil
}

// NewRawCommand creates the raw command.
func NewRawCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "raw <statement>",
		Short: "Run a parameterized SQL statement",
		Long: `Run a SQL statement with named parameters and print any rows it returns.

Parameters are bound, never interpolated. Pass each as --param name=value.

Example:
  dynmodel raw 'SELECT name FROM users WHERE id > :min' --param min=10 --db app.db --table users`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(opts.Params)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid --param", err)
			}

			s, err := openSession(opts.RootOptions, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			rows, err := s.model.Raw(cmd.Context(), args[0], params...)
			if err != nil {
				return s.out.Fail("raw failed", err)
			}
			return s.out.Rows(rows)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Params, "param", nil, "named parameter as name=value (repeatable)")
	return cmd
}

func parseParams(pairs []string) ([]sqlbuild.Param, error) {
	params := make([]sqlbuild.Param, 0, len(pairs))
	for _, p := range pairs {
		name, raw, ok := strings.Cut(p, "=")
		name = strings.TrimPrefix(strings.TrimSpace(name), ":")
		if !ok || name == "" {
			return nil, fmt.Errorf("%q: want name=value", p)
		}
		params = append(params, sqlbuild.Param{Name: name, Value: value.Parse(raw)})
	}
	return params, nil
}
