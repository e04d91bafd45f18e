// Package segmenter normalises raw page text and splits it into
// overlapping word-count windows for retrieval indexing.
package segmenter

import (
	"regexp"
	"strings"
)

// DefaultMaxWords is the default number of words per window.
const DefaultMaxWords = 320

// DefaultOverlap is the default number of overlapping words between
// consecutive windows.
const DefaultOverlap = 60

var whitespace = regexp.MustCompile(`\s+`)

// Segmenter splits normalised text into overlapping word windows.
// It is stateless: identical inputs always yield identical windows,
// which keeps chunk ids reproducible across rebuilds.
type Segmenter struct {
	maxWords int
	overlap  int
}

// Option configures the segmenter.
type Option func(*Segmenter)

// WithMaxWords sets the window size in words.
func WithMaxWords(n int) Option {
	return func(s *Segmenter) {
		if n > 0 {
			s.maxWords = n
		}
	}
}

// WithOverlap sets the overlap between windows in words.
func WithOverlap(n int) Option {
	return func(s *Segmenter) {
		if n >= 0 {
			s.overlap = n
		}
	}
}

// New creates a segmenter with the given options.
func New(opts ...Option) *Segmenter {
	s := &Segmenter{
		maxWords: DefaultMaxWords,
		overlap:  DefaultOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed window size
	if s.overlap >= s.maxWords {
		s.overlap = s.maxWords / 4
	}

	return s
}

// MaxWords returns the configured window size.
func (s *Segmenter) MaxWords() int { return s.maxWords }

// Overlap returns the configured window overlap.
func (s *Segmenter) Overlap() int { return s.overlap }

// Clean normalises raw page text: the ".-" hyphenation artifact left by
// text extraction becomes "-", carriage returns and newlines become
// spaces, runs of whitespace collapse to single spaces, and the result
// is trimmed.
func Clean(raw string) string {
	text := strings.ReplaceAll(raw, ".-", "-")
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Windows splits text into windows of at most maxWords words, advancing
// by maxWords-overlap words each step (never less than one). The final
// window, possibly shorter, is emitted exactly once even when it aligns
// with the end of the text. Empty text yields no windows; text shorter
// than one window yields exactly one.
func (s *Segmenter) Windows(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := s.maxWords - s.overlap
	if step < 1 {
		step = 1
	}

	windows := make([]string, 0, len(words)/step+1)
	for start := 0; start < len(words); start += step {
		end := start + s.maxWords
		if end > len(words) {
			end = len(words)
		}
		windows = append(windows, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return windows
}
