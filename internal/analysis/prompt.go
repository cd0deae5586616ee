package analysis

import (
	"strings"

	"github.com/teemow/courtmail/internal/thread"
)

// SystemPrompt is the instruction sent with every analysis request.
const SystemPrompt = "You are a paralegal assistant reviewing email correspondence that may be used as evidence. " +
	"Be factual, do not speculate beyond the text, and answer only in the requested format."

const promptInstruction = "Analyze the following email thread and assess how relevant it is to the research query."

const formatInstruction = `Respond using exactly these labeled sections, in this order:
SUMMARY: two to four sentences summarizing the thread
TOPICS: a comma-separated list of the main topics
RELEVANCE_SCORE: a single integer from 0 to 100 rating relevance to the research query
SENTIMENT: one word, positive, negative or neutral
KEY_INSIGHTS:
- one insight per line, each line starting with "- "`

// BuildPrompt renders the user prompt for one thread.
// Its layout is paired with ParseResponse and the output of thread.RenderText.
func BuildPrompt(query string, t thread.Thread) string {
	query = strings.TrimSpace(query)
	if query == "" {
		query = "(none, give a general assessment)"
	}

	var b strings.Builder
	b.WriteString(promptInstruction)
	b.WriteString("\n\nResearch query: ")
	b.WriteString(query)
	b.WriteString("\n\nEmail thread:\n")
	b.WriteString(thread.RenderText(t))
	b.WriteString("\n\n")
	b.WriteString(formatInstruction)
	b.WriteString("\n")
	return b.String()
}
