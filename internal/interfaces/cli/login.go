package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
)

func newLoginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Obtain a session token; export it as " + tokenEnv,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return errors.NewValidationError("email", "--email and --password are required")
			}
			cliCtx, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			res, err := cliCtx.Client.Login(ctx, email, password)
			if err != nil {
				return err
			}
			if cliCtx.OutputFormat == "json" {
				return printJSON(cmd.OutOrStdout(), res)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "export %s=%s\n", tokenEnv, res.Token)
			PrintSuccess(cmd, fmt.Sprintf("signed in as %s, token expires %s", res.Identity.Author(), res.ExpiresAt.Format("2006-01-02 15:04")))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

//Personal.AI order the ending
