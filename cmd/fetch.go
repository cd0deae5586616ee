package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/teemow/courtmail/internal/gmail"
	"github.com/teemow/courtmail/internal/google"
	"github.com/teemow/courtmail/internal/logging"
	"github.com/teemow/courtmail/internal/mail"
)

func newFetchCmd() *cobra.Command {
	var (
		account    string
		query      string
		maxResults int
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Export Gmail messages matching a query to a records file",
		Long: `Fetch every message matching a Gmail search query and write them as email
records (JSON, or YAML when --out ends in .yaml or .yml).

Example:
  courtmail fetch --query "from:landlord@example.com after:2024/01/01" --out records.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if query == "" {
				return errors.New("--query is required")
			}
			if !google.HasTokenForAccount(account) {
				return errors.New(google.GetAuthenticationErrorMessage(account))
			}

			provider, stop, err := startInstrumentation(cmd.Context())
			if err != nil {
				return err
			}
			defer stop()

			client, err := gmail.NewClientForAccount(cmd.Context(), account,
				gmail.WithMetrics(provider.Metrics()),
				gmail.WithLogger(slog.Default()),
			)
			if err != nil {
				return err
			}

			records, err := client.FetchRecords(cmd.Context(), query, maxResults)
			if err != nil {
				return fmt.Errorf("failed to fetch messages: %w", err)
			}

			if err := mail.WriteRecords(outPath, records); err != nil {
				return err
			}

			logging.WithOperation(slog.Default(), "fetch").Info("records written",
				slog.Int("messages", len(records)),
				slog.String("path", outPath))
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", google.DefaultAccount, "Google account name")
	cmd.Flags().StringVar(&query, "query", "", "Gmail search query")
	cmd.Flags().IntVar(&maxResults, "max", gmail.DefaultMaxResults, "Maximum number of messages to fetch")
	cmd.Flags().StringVar(&outPath, "out", "records.json", "Output records file")
	return cmd
}
