package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/dynmodel/internal/auth"
	"github.com/roach88/dynmodel/internal/model"
)

// LoginOptions holds flags for the login command.
type LoginOptions struct {
	*RootOptions
	Credentials string
	IssueToken  bool
	TokenName   string
	Abilities   []string
}

// LoginResult is the JSON payload of the login command.
type LoginResult struct {
	Outcome string `json:"outcome"`
	Token   string `json:"token,omitempty"`
}

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoginOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check credentials and optionally issue a token",
		Long: `Check a two-field credential object (one identifying column and one
password field) against the table. With --issue-token a bearer token is
stored in the token table and printed.

Exits with status 1 for an unknown subject or a wrong password.

Example:
  dynmodel login --credentials '{"email":"ana@x.io","password":"s3cret"}' --db app.db --table users
  dynmodel login --credentials '{"email":"ana@x.io","password":"s3cret"}' --issue-token --abilities read,write`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := parseValues(opts.Credentials)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid --credentials", err)
			}

			s, err := openSession(opts.RootOptions, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			outcome, err := s.model.Login(ctx, creds)
			if err != nil {
				return s.out.Fail("login failed", err)
			}
			if outcome != auth.Authenticated {
				_ = s.out.Error("LOGIN_FAILED", outcome.String(), nil)
				return NewExitError(ExitFailure, "login failed: "+outcome.String())
			}

			result := LoginResult{Outcome: outcome.String()}
			if opts.IssueToken {
				token, ok, err := s.model.GenerateToken(ctx, opts.Abilities, opts.TokenName, s.cfg.TokenTable)
				if err != nil {
					return s.out.Fail("token generation failed", err)
				}
				if !ok {
					_ = s.out.Error(string(model.KindNotFound), "token was not stored", nil)
					return NewExitError(ExitFailure, "token was not stored")
				}
				result.Token = token
			}

			if s.out.Format == "json" {
				return s.out.Success(result)
			}
			if result.Token != "" {
				return s.out.Success(result.Token)
			}
			return s.out.Success(result.Outcome)
		},
	}

	cmd.Flags().StringVar(&opts.Credentials, "credentials", "", "JSON object with one identifying field and one password field (required)")
	cmd.Flags().BoolVar(&opts.IssueToken, "issue-token", false, "issue a bearer token on success")
	cmd.Flags().StringVar(&opts.TokenName, "token-name", auth.DefaultTokenName, "name recorded with the token")
	cmd.Flags().StringSliceVar(&opts.Abilities, "abilities", nil, "abilities recorded with the token")
	_ = cmd.MarkFlagRequired("credentials")
	return cmd
}

// TokenOptions holds flags for the token commands.
type TokenOptions struct {
	*RootOptions
	All bool
}

// NewTokenCommand creates the token command group.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage bearer tokens",
	}
	cmd.AddCommand(newTokenRevokeCommand(rootOpts))
	return cmd
}

func newTokenRevokeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TokenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "revoke <token>",
		Short: "Revoke a bearer token",
		Long: `Delete a bearer token from the token table. With --all, delete every
token belonging to the token's subject.

Example:
  dynmodel token revoke '1|9f86d0...' --db app.db --table users
  dynmodel token revoke '1|9f86d0...' --all --db app.db --table users`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts.RootOptions, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			var revoked bool
			if opts.All {
				revoked, err = s.model.RevokeAllTokens(ctx, args[0], s.cfg.TokenTable)
			} else {
				revoked, err = s.model.RevokeToken(ctx, args[0], s.cfg.TokenTable)
			}
			if err != nil {
				return s.out.Fail("revoke failed", err)
			}
			if s.out.Format == "json" {
				return s.out.Success(map[string]bool{"revoked": revoked})
			}
			return s.out.Success(fmt.Sprintf("revoked: %t", revoked))
		},
	}

	cmd.Flags().BoolVar(&opts.All, "all", false, "revoke every token of the token's subject")
	return cmd
}

// NewHashPasswordCommand creates the hash-password command.
func NewHashPasswordCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for a password column",
		Long: `Print a bcrypt hash suitable for storing in a password column, so
rows inserted with it can log in.

Example:
  dynmodel insert --values "{\"email\":\"ana@x.io\",\"password\":\"$(dynmodel hash-password s3cret)\"}"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr()}

			hash, err := auth.New().HashPassword(args[0])
			if err != nil {
				return WrapExitError(ExitFailure, "hash failed", err)
			}
			if out.Format == "json" {
				return out.Success(map[string]string{"hash": hash})
			}
			return out.Success(hash)
		},
	}
	return cmd
}
