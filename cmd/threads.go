package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/teemow/courtmail/internal/thread"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// maxSubjectWidth truncates subjects in the table view.
const maxSubjectWidth = 50

// threadSummary is the JSON view of a thread without message bodies.
type threadSummary struct {
	ThreadID     string    `json:"threadId"`
	Subject      string    `json:"subject"`
	Participants []string  `json:"participants"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	MessageCount int       `json:"messageCount"`
}

func newThreadsCmd() *cobra.Command {
	var (
		recordsPath string
		asJSON      bool
		limit       int
		filters     filterFlags
	)

	cmd := &cobra.Command{
		Use:   "threads",
		Short: "Group records into conversation threads and list them",
		Long: `Group the email records into threads, most recently active first, and list
those matching the filters.

Example:
  courtmail threads --records records.json --query "deposit refund" --min-messages 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			threads, err := loadThreads(recordsPath)
			if err != nil {
				return err
			}
			threads, err = filters.selectThreads(threads)
			if err != nil {
				return err
			}
			if limit > 0 && len(threads) > limit {
				threads = threads[:limit]
			}

			if asJSON {
				return writeThreadsJSON(cmd.OutOrStdout(), threads)
			}
			renderThreadTable(cmd.OutOrStdout(), threads)
			return nil
		},
	}

	cmd.Flags().StringVar(&recordsPath, "records", "", "Email records file (JSON or YAML)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of threads to list (default: all)")
	filters.register(cmd, "query", false)
	return cmd
}

func writeThreadsJSON(w io.Writer, threads []thread.Thread) error {
	summaries := make([]threadSummary, 0, len(threads))
	for _, t := range threads {
		participants := t.Participants
		if participants == nil {
			participants = []string{}
		}
		summaries = append(summaries, threadSummary{
			ThreadID:     t.ThreadID,
			Subject:      t.Subject,
			Participants: participants,
			StartDate:    t.StartDate,
			EndDate:      t.EndDate,
			MessageCount: t.MessageCount,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summaries)
}

func renderThreadTable(w io.Writer, threads []thread.Thread) {
	if len(threads) == 0 {
		fmt.Fprintln(w, headerStyle.Render("No threads found"))
		return
	}

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Found %d thread(s), %d message(s)", len(threads), thread.TotalMessages(threads))))
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(tw, titleStyle.Render("Thread ID")+"\t"+titleStyle.Render("Subject")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("First")+"\t"+titleStyle.Render("Last")+"\t")
	_, _ = fmt.Fprintln(tw, strings.Repeat("─", 100))

	for _, t := range threads {
		subject := t.Subject
		if subject == "" {
			subject = "(No subject)"
		}
		if len([]rune(subject)) > maxSubjectWidth {
			subject = string([]rune(subject)[:maxSubjectWidth-3]) + "..."
		}

		_, _ = fmt.Fprintln(tw, strings.Join([]string{
			idStyle.Render(t.ThreadID),
			subject,
			countStyle.Render(strconv.Itoa(t.MessageCount)),
			dateStyle.Render(shortDate(t.StartDate)),
			dateStyle.Render(shortDate(t.EndDate)),
		}, "\t")+"\t")
	}
	_ = tw.Flush()
}

func shortDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}
