package driven

import "context"

// PageExtractor produces a linear plain-text stream per page of a
// source document. Extraction mechanics (PDF parsing, encoding) are an
// infrastructure concern; core only consumes the page texts in order.
type PageExtractor interface {
	// ExtractPages returns one raw text string per page, first page
	// first. Pages with no extractable text come back empty rather
	// than being dropped, so page numbers stay stable.
	ExtractPages(ctx context.Context, path string) ([]string, error)
}
