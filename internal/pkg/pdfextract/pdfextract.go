package pdfextract

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// ExtractPages reads the entire content of r and returns the plain text of
// each page, in page order. A page with no extractable text yields an empty
// string at its position so that the slice length always equals the page
// count.
func ExtractPages(r io.Reader) ([]string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("empty pdf payload")
	}

	pdfReader, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("parse pdf failed: %w", err)
	}

	numPages := pdfReader.NumPage()
	pages := make([]string, 0, numPages)
	fonts := make(map[string]*pdf.Font)
	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(fonts)
		if err != nil {
			// Keep going; a single malformed page should not sink the
			// rest of the document.
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}
