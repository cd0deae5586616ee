package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/courtmail/internal/logging"
)

var (
	debugMode bool
	logFormat string
)

// rootCmd represents the base command for the courtmail application
var rootCmd = &cobra.Command{
	Use:   "courtmail",
	Short: "Turns Gmail correspondence into court-ready evidence documents",
	Long: `courtmail exports Gmail messages, groups them into conversation threads,
optionally annotates threads with LLM-generated summaries, and assembles a
selection of threads into an evidence document (Markdown, HTML or PDF).

It can run as:
  - A standalone CLI tool
  - An MCP (Model Context Protocol) server for AI assistants`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Logs go to stderr so documents written to stdout stay clean.
		_, err := logging.Setup(debugMode, logFormat, os.Stderr)
		return err
	},
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "courtmail version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", logging.FormatText, "Log format: text or json")

	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newFetchCmd())
	rootCmd.AddCommand(newThreadsCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newDocumentCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
