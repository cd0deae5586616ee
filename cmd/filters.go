package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/courtmail/internal/mail"
	"github.com/teemow/courtmail/internal/thread"
)

// filterFlags are the thread selection flags shared by threads, analyze and document.
type filterFlags struct {
	search       string
	minMessages  int
	from         string
	to           string
	participants []string
	threadIDs    []string
}

// register adds the filter flags to cmd. searchName is the flag carrying the content query,
// which differs between commands that also take a research query.
func (f *filterFlags) register(cmd *cobra.Command, searchName string, withThreadIDs bool) {
	cmd.Flags().StringVar(&f.search, searchName, "", "Whitespace-separated terms that must all appear in a single message")
	cmd.Flags().IntVar(&f.minMessages, "min-messages", 0, "Only threads with at least this many messages")
	cmd.Flags().StringVar(&f.from, "from", "", "Only threads still active on or after this date (ISO-8601 or RFC 2822)")
	cmd.Flags().StringVar(&f.to, "to", "", "Only threads started on or before this date (ISO-8601 or RFC 2822)")
	cmd.Flags().StringSliceVar(&f.participants, "participant", nil, "Participant substring; repeatable, any match keeps the thread")
	if withThreadIDs {
		cmd.Flags().StringSliceVar(&f.threadIDs, "thread", nil, "Thread ID to include, in document order; repeatable. Overrides the filters")
	}
}

func (f *filterFlags) criteria() (thread.Criteria, error) {
	c := thread.Criteria{
		Query:        f.search,
		MinMessages:  f.minMessages,
		Participants: f.participants,
	}

	var err error
	if c.DateRange.From, err = parseDateFlag("from", f.from); err != nil {
		return c, err
	}
	if c.DateRange.To, err = parseDateFlag("to", f.to); err != nil {
		return c, err
	}
	return c, nil
}

// selectThreads returns the threads named by --thread in that order, or the filtered threads.
func (f *filterFlags) selectThreads(threads []thread.Thread) ([]thread.Thread, error) {
	if len(f.threadIDs) > 0 {
		for _, id := range f.threadIDs {
			if _, ok := thread.Find(threads, id); !ok {
				return nil, fmt.Errorf("thread not found: %s", id)
			}
		}
		return thread.Select(threads, f.threadIDs), nil
	}

	c, err := f.criteria()
	if err != nil {
		return nil, err
	}
	return thread.Filter(threads, c), nil
}

func parseDateFlag(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, ok := mail.ParseDate(value)
	if !ok {
		return nil, fmt.Errorf("invalid --%s date %q", name, value)
	}
	return &t, nil
}

// loadThreads reads a records file and groups it into threads.
func loadThreads(path string) ([]thread.Thread, error) {
	if path == "" {
		return nil, fmt.Errorf("--records is required")
	}
	records, err := mail.LoadRecords(path)
	if err != nil {
		return nil, err
	}
	return thread.GroupByThread(records), nil
}
