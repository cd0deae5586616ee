package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/courtmail/internal/thread"
)

func newShowCmd() *cobra.Command {
	var (
		recordsPath string
		threadID    string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the plain-text transcript of a thread",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if threadID == "" {
				return errors.New("--thread is required")
			}
			threads, err := loadThreads(recordsPath)
			if err != nil {
				return err
			}
			t, ok := thread.Find(threads, threadID)
			if !ok {
				return fmt.Errorf("thread not found: %s", threadID)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), thread.RenderText(t))
			return err
		},
	}

	cmd.Flags().StringVar(&recordsPath, "records", "", "Email records file (JSON or YAML)")
	cmd.Flags().StringVar(&threadID, "thread", "", "Thread ID")
	return cmd
}
