package document

import (
	"html"
	"regexp"
	"strings"
)

const fence = "```"

var boldPattern = regexp.MustCompile(`\*\*(.+?)\*\*`)

// headerPrefixes are checked longest first so "####" is not taken for "#".
var headerPrefixes = []struct {
	prefix string
	tag    string
}{
	{"#### ", "h4"},
	{"### ", "h3"},
	{"## ", "h2"},
	{"# ", "h1"},
}

const printCSS = `@page { size: A4; margin: 2cm; }
body { font-family: "Times New Roman", Times, serif; font-size: 11pt; line-height: 1.4; color: #000; }
h1 { font-size: 20pt; text-align: center; margin-bottom: 0.5em; }
h2 { font-size: 15pt; border-bottom: 1px solid #444; margin-top: 1.5em; page-break-after: avoid; }
h3 { font-size: 12pt; margin-top: 1em; page-break-after: avoid; }
h4 { font-size: 11pt; }
li { margin-left: 1.5em; }
pre { font-family: "Courier New", Courier, monospace; font-size: 9.5pt; white-space: pre-wrap; word-wrap: break-word; border: 1px solid #ccc; padding: 0.6em; background: #f7f7f7; page-break-inside: avoid; }
hr { border: 0; border-top: 1px solid #888; margin: 1.5em 0; }`

// RenderHTML converts assembled Markdown into a standalone HTML document.
//
// Only headers (# to ####), **bold**, fenced code blocks, "---" rules, "- " list items and
// blank-line paragraph breaks are recognized. Everything else is escaped and passed through.
func RenderHTML(markdown string) string {
	var chunks []string
	var text, code []string
	inCode := false
	openLen := 0

	flushText := func() {
		if len(text) > 0 {
			chunks = append(chunks, strings.ReplaceAll(strings.Join(text, "\n"), "\n\n", "<br><br>"))
			text = nil
		}
	}
	flushCode := func() {
		chunks = append(chunks, "<pre><code>"+html.EscapeString(strings.Join(code, "\n"))+"</code></pre>")
		code = nil
	}

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if inCode {
			if len(trimmed) >= openLen && strings.Trim(trimmed, "`") == "" {
				flushCode()
				inCode = false
				continue
			}
			code = append(code, line)
			continue
		}
		if strings.HasPrefix(trimmed, fence) {
			flushText()
			inCode = true
			openLen = len(trimmed) - len(strings.TrimLeft(trimmed, "`"))
			continue
		}
		text = append(text, renderLine(line))
	}
	if inCode {
		flushCode()
	}
	flushText()

	return wrapHTML(strings.Join(chunks, "\n"))
}

func renderLine(line string) string {
	escaped := html.EscapeString(line)

	if strings.TrimSpace(line) == "---" {
		return "<hr>"
	}

	for _, h := range headerPrefixes {
		if strings.HasPrefix(escaped, h.prefix) {
			return "<" + h.tag + ">" + bold(strings.TrimPrefix(escaped, h.prefix)) + "</" + h.tag + ">"
		}
	}

	if strings.HasPrefix(escaped, "- ") {
		return "<li>" + bold(strings.TrimPrefix(escaped, "- ")) + "</li>"
	}

	return bold(escaped)
}

func bold(s string) string {
	return boldPattern.ReplaceAllString(s, "<strong>$1</strong>")
}

func wrapHTML(body string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<title>" + html.EscapeString(Title) + "</title>\n")
	b.WriteString("<style>\n" + printCSS + "\n</style>\n")
	b.WriteString("</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}
