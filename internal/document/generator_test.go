package document

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/courtmail/internal/analysis"
	"github.com/teemow/courtmail/internal/thread"
)

type fakeAnalyzer struct {
	calls       int
	concurrency int
	query       string
}

func (f *fakeAnalyzer) AnalyzeThreads(_ context.Context, threads []thread.Thread, query string, concurrency int) []analysis.Result {
	f.calls++
	f.query = query
	f.concurrency = concurrency
	results := make([]analysis.Result, 0, len(threads))
	for _, t := range threads {
		results = append(results, analysis.Result{
			ThreadID:    t.ThreadID,
			Subject:     t.Subject,
			Summary:     "summary of " + t.ThreadID,
			Topics:      []string{"topic"},
			KeyInsights: []string{},
		})
	}
	return results
}

type fakePDF struct {
	html string
	err  error
}

func (f *fakePDF) RenderPDF(_ context.Context, html string) ([]byte, error) {
	f.html = html
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF"), nil
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"md", FormatMarkdown, false},
		{"Markdown", FormatMarkdown, false},
		{" html ", FormatHTML, false},
		{"PDF", FormatPDF, false},
		{"docx", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerator_Markdown(t *testing.T) {
	g := NewGenerator(WithAssembler(NewAssembler(WithClock(fixedNow))))
	threads := []thread.Thread{leaseThread(t)}

	out, err := g.Generate(context.Background(), Request{Threads: threads, Format: "md"})

	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, out.Format)
	assert.Equal(t, "text/markdown; charset=utf-8", out.ContentType)
	assert.Equal(t, NewAssembler(WithClock(fixedNow)).Assemble(threads, nil), string(out.Data))
	assert.Nil(t, out.Analysis)
}

func TestGenerator_HTMLWithAnalysis(t *testing.T) {
	fa := &fakeAnalyzer{}
	g := NewGenerator(WithAnalyzer(fa))

	out, err := g.Generate(context.Background(), Request{
		Threads:     []thread.Thread{leaseThread(t)},
		Format:      FormatHTML,
		Analyze:     true,
		Query:       "deposit",
		Concurrency: 2,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, fa.calls)
	assert.Equal(t, "deposit", fa.query)
	assert.Equal(t, 2, fa.concurrency)
	require.Len(t, out.Analysis, 1)
	assert.True(t, strings.HasPrefix(string(out.Data), "<!DOCTYPE html>"))
	assert.Contains(t, string(out.Data), "<strong>Summary:</strong> summary of t1")
}

func TestGenerator_PDF(t *testing.T) {
	pdf := &fakePDF{}
	g := NewGenerator(WithPDFRenderer(pdf))

	out, err := g.Generate(context.Background(), Request{Threads: []thread.Thread{leaseThread(t)}, Format: FormatPDF})

	require.NoError(t, err)
	assert.Equal(t, "application/pdf", out.ContentType)
	assert.Equal(t, []byte("%PDF"), out.Data)
	assert.Contains(t, pdf.html, "<h2>Thread 1: Lease</h2>")
}

func TestGenerator_Errors(t *testing.T) {
	ctx := context.Background()
	threads := []thread.Thread{leaseThread(t)}

	_, err := NewGenerator().Generate(ctx, Request{Threads: threads, Format: "rtf"})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = NewGenerator().Generate(ctx, Request{Threads: threads, Format: FormatMarkdown, Analyze: true})
	assert.ErrorIs(t, err, ErrNoAnalyzer)

	_, err = NewGenerator().Generate(ctx, Request{Threads: threads, Format: FormatPDF})
	var renderErr *RenderError
	assert.ErrorAs(t, err, &renderErr)

	boom := errors.New("chrome crashed")
	_, err = NewGenerator(WithPDFRenderer(&fakePDF{err: boom})).Generate(ctx, Request{Threads: threads, Format: FormatPDF})
	assert.ErrorIs(t, err, boom)
}
