package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// DefaultPDFTimeout bounds a single headless browser run.
const DefaultPDFTimeout = 2 * time.Minute

// chromeCandidates are looked up on PATH when no browser path is configured.
var chromeCandidates = []string{"chromium", "chromium-browser", "google-chrome", "google-chrome-stable"}

// PDFRenderer converts an HTML document into PDF bytes.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// runFunc executes a command and returns its stderr.
type runFunc func(ctx context.Context, name string, args ...string) (stderr []byte, err error)

// ChromeRenderer prints HTML to PDF with a headless Chrome or Chromium.
type ChromeRenderer struct {
	path    string
	timeout time.Duration
	run     runFunc
}

// NewChromeRenderer creates a ChromeRenderer. An empty path falls back to CHROME_PATH and
// then to the first known browser binary on PATH; a non-positive timeout means
// DefaultPDFTimeout.
func NewChromeRenderer(path string, timeout time.Duration) *ChromeRenderer {
	if path == "" {
		path = os.Getenv("CHROME_PATH")
	}
	if timeout <= 0 {
		timeout = DefaultPDFTimeout
	}
	return &ChromeRenderer{
		path:    path,
		timeout: timeout,
		run:     runCommand,
	}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stderr.Bytes(), err
}

func (r *ChromeRenderer) binary() (string, error) {
	if r.path != "" {
		return r.path, nil
	}
	for _, name := range chromeCandidates {
		if p, err := exec.LookPath(name); err == nil {
			return p, nil
		}
	}
	return "", errors.New("no chrome or chromium binary found; set CHROME_PATH")
}

// RenderPDF writes html to a temporary file and prints it with --print-to-pdf.
func (r *ChromeRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	bin, err := r.binary()
	if err != nil {
		return nil, &RenderError{Op: "lookup", Err: err}
	}

	dir, err := os.MkdirTemp("", "courtmail-pdf-")
	if err != nil {
		return nil, &RenderError{Op: "prepare", Err: err}
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "document.html")
	output := filepath.Join(dir, "document.pdf")
	if err := os.WriteFile(input, []byte(html), 0o600); err != nil {
		return nil, &RenderError{Op: "prepare", Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := []string{
		"--headless",
		"--disable-gpu",
		"--no-sandbox",
		"--no-pdf-header-footer",
		"--print-to-pdf=" + output,
		"file://" + input,
	}
	if stderr, err := r.run(ctx, bin, args...); err != nil {
		return nil, &RenderError{Op: "render", Stderr: string(bytes.TrimSpace(stderr)), Err: err}
	}

	pdf, err := os.ReadFile(output)
	if err != nil {
		return nil, &RenderError{Op: "read", Err: fmt.Errorf("browser produced no output: %w", err)}
	}
	return pdf, nil
}
