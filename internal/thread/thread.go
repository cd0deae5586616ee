package thread

import (
	"regexp"
	"sort"
	"time"

	"github.com/teemow/courtmail/internal/mail"
)

// Thread is a conversation derived from the records that share a thread id.
type Thread struct {
	ThreadID     string        `json:"threadId" yaml:"threadId"`
	Subject      string        `json:"subject" yaml:"subject"`
	Participants []string      `json:"participants" yaml:"participants"`
	StartDate    time.Time     `json:"startDate" yaml:"startDate"`
	EndDate      time.Time     `json:"endDate" yaml:"endDate"`
	MessageCount int           `json:"messageCount" yaml:"messageCount"`
	Messages     []mail.Record `json:"messages" yaml:"messages"`
}

// addressPattern matches local-part@domain with at least one dot in the domain.
var addressPattern = regexp.MustCompile(`[\w.\-]+@[\w\-]+(?:\.[\w\-]+)+`)

// ExtractAddresses returns every email address found in a free-form header value, left to
// right. It returns nil when the header is empty or contains no address.
func ExtractAddresses(header string) []string {
	if header == "" {
		return nil
	}
	return addressPattern.FindAllString(header, -1)
}

// group accumulates the input positions of one thread's records.
type group struct {
	threadID string
	indices  []int
}

// GroupByThread groups records by ThreadID. Every record appears in exactly one thread; duplicate
// message ids are kept as-is.
func GroupByThread(records []mail.Record) []Thread {
	if len(records) == 0 {
		return []Thread{}
	}

	// Parse every date once up front; sorting compares the cached values.
	times := make([]time.Time, len(records))
	for i, r := range records {
		times[i] = r.Time()
	}

	var groups []*group
	byID := make(map[string]*group)
	for i, r := range records {
		g, ok := byID[r.ThreadID]
		if !ok {
			g = &group{threadID: r.ThreadID}
			byID[r.ThreadID] = g
			groups = append(groups, g)
		}
		g.indices = append(g.indices, i)
	}

	threads := make([]Thread, 0, len(groups))
	for _, g := range groups {
		threads = append(threads, buildThread(g, records, times))
	}

	sort.SliceStable(threads, func(i, j int) bool {
		return threads[i].EndDate.After(threads[j].EndDate)
	})

	return threads
}

func buildThread(g *group, records []mail.Record, times []time.Time) Thread {
	idx := g.indices
	sort.SliceStable(idx, func(a, b int) bool {
		return times[idx[a]].Before(times[idx[b]])
	})

	messages := make([]mail.Record, len(idx))
	seen := make(map[string]struct{})
	var participants []string
	for i, recordIdx := range idx {
		r := records[recordIdx]
		messages[i] = r
		for _, header := range []string{r.From, r.To} {
			for _, addr := range ExtractAddresses(header) {
				if _, dup := seen[addr]; dup {
					continue
				}
				seen[addr] = struct{}{}
				participants = append(participants, addr)
			}
		}
	}
	if participants == nil {
		participants = []string{}
	}

	first, last := idx[0], idx[len(idx)-1]
	return Thread{
		ThreadID:     g.threadID,
		Subject:      records[first].Subject,
		Participants: participants,
		StartDate:    times[first],
		EndDate:      times[last],
		MessageCount: len(messages),
		Messages:     messages,
	}
}

// Find returns the thread with the given id.
func Find(threads []Thread, threadID string) (Thread, bool) {
	for _, t := range threads {
		if t.ThreadID == threadID {
			return t, true
		}
	}
	return Thread{}, false
}

// Select returns the threads named by ids, in the order of ids. Unknown and repeated ids are
// skipped.
func Select(threads []Thread, ids []string) []Thread {
	byID := make(map[string]Thread, len(threads))
	for _, t := range threads {
		if _, ok := byID[t.ThreadID]; !ok {
			byID[t.ThreadID] = t
		}
	}

	selected := make([]Thread, 0, len(ids))
	used := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		t, ok := byID[id]
		if !ok {
			continue
		}
		if _, dup := used[id]; dup {
			continue
		}
		used[id] = struct{}{}
		selected = append(selected, t)
	}
	return selected
}

// TotalMessages sums MessageCount across threads.
func TotalMessages(threads []Thread) int {
	n := 0
	for _, t := range threads {
		n += t.MessageCount
	}
	return n
}
