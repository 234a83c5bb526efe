package interfaces

import "context"

// PDFPageContent holds extracted text for a single PDF page
type PDFPageContent struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
}

// PDFExtractor extracts per-page text from PDF files
type PDFExtractor interface {
	// ExtractPages extracts text content by page from the PDF at path.
	ExtractPages(ctx context.Context, path string) ([]PDFPageContent, error)

	// ExtractText extracts the full text of the PDF at path.
	ExtractText(ctx context.Context, path string) (string, error)
}
