// Package pdftotext extracts per-page plain text from PDF documents by
// shelling out to the poppler pdftotext binary. Layout analysis is out
// of scope; each page becomes one linear text stream.
package pdftotext

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/custodia-labs/corpus-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.PageExtractor = (*Extractor)(nil)

// CommandRunner abstracts external command execution for testing.
type CommandRunner interface {
	// Run executes the command and returns its stdout.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands via os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor extracts page text using pdftotext.
type Extractor struct {
	runner CommandRunner
}

// New creates an extractor backed by the real pdftotext binary.
func New() *Extractor {
	return &Extractor{runner: execRunner{}}
}

// NewWithRunner creates an extractor with a custom command runner.
// Used in tests to avoid requiring poppler.
func NewWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// ExtractPages returns one raw text string per page, in page order.
// pdftotext terminates every page with a form feed, which is used as
// the page separator; the empty tail after the final separator is
// dropped, empty interior pages are kept so page numbers stay stable.
func (e *Extractor) ExtractPages(ctx context.Context, path string) ([]string, error) {
	out, err := e.runner.Run(ctx, "pdftotext", "-enc", "UTF-8", path, "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext %s: %w", path, err)
	}

	pages := strings.Split(string(out), "\f")
	if n := len(pages); n > 0 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1]
	}
	return pages, nil
}
