package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/courtmail/internal/google"
)

func newAuthCmd() *cobra.Command {
	var (
		account string
		code    string
	)

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize read-only access to a Gmail account",
		Long: `Authorize courtmail to read a Gmail account.

Run without --code to print the consent URL. After granting access, run again
with the authorization code to store the token:

  courtmail auth --account work
  courtmail auth --account work --code 4/0Ab...

Requires GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if code == "" {
				if google.HasTokenForAccount(account) {
					fmt.Fprintf(out, "Account %q is already authorized. Re-run the flow below to replace its token.\n\n", account)
				}
				authURL, err := google.GetAuthURLForAccount(account)
				if err != nil {
					return fmt.Errorf("failed to build consent URL: %w", err)
				}
				fmt.Fprintf(out, "1. Visit this URL in your browser:\n   %s\n\n", authURL)
				fmt.Fprintf(out, "2. Grant read-only access to Gmail\n")
				fmt.Fprintf(out, "3. Run: courtmail auth --account %s --code <authorization code>\n", account)
				return nil
			}

			if err := google.SaveTokenForAccount(cmd.Context(), account, code); err != nil {
				return fmt.Errorf("failed to save token for account %s: %w", account, err)
			}
			fmt.Fprintf(out, "Token saved for account %q.\n", account)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", google.DefaultAccount, "Google account name")
	cmd.Flags().StringVar(&code, "code", "", "Authorization code from the consent page")
	return cmd
}
