// Package document handles uploaded clinical documents: persisting them,
// extracting their text and serving that text to the inference pipelines.
package document

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrExtraction wraps every text-extraction failure: malformed byte
// streams, unreadable pages. It is reported to the caller, never swallowed.
var ErrExtraction = errors.New("document extraction failed")

// ExtractText extracts the text of the PDF at path: pages are read in
// document order, per-page text is concatenated with no separator, and the
// final result is trimmed of leading/trailing whitespace.
//
// Re-extracting identical bytes yields identical text.
func ExtractText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: open %q: %w", ErrExtraction, path, err)
	}
	defer f.Close() //nolint:errcheck

	var b strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			return "", fmt.Errorf("%w: page %d of %q is unreadable", ErrExtraction, pageNum, path)
		}
		text, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			return "", fmt.Errorf("%w: page %d of %q: %w", ErrExtraction, pageNum, path, pageErr)
		}
		b.WriteString(text)
	}
	return strings.TrimSpace(b.String()), nil
}
