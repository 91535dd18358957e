package extract

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/gen2brain/go-fitz"
	pdflib "github.com/ledongthuc/pdf"

	"github.com/dcunha/narravox/internal/document"
)

// Pages whose extracted text is shorter than this are treated as
// image-dominant and rasterized for vision description.
const imagePageTextThreshold = 40

// PDFExtractor handles PDF files. Text comes from the Go library first,
// then pdftotext if available. Pages that carry almost no text are
// rasterized so the vision pipeline can describe them.
type PDFExtractor struct {
	FallbackPdftotext bool
	RenderImages      bool
}

func (e *PDFExtractor) Extract(r io.Reader, filename string) (*document.Document, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "narravox-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	pages, err := extractPDFPages(tmpPath)
	if err != nil && e.FallbackPdftotext {
		pages, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	doc := &document.Document{Title: titleFromFilename(filename)}
	doc.Text = joinBlocks(pages)

	if e.RenderImages {
		if err := e.renderImagePages(tmpPath, pages, doc); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// renderImagePages rasterizes pages with little or no extracted text and
// appends them to the document's images, in page order.
func (e *PDFExtractor) renderImagePages(path string, pages []string, doc *document.Document) error {
	fz, err := fitz.New(path)
	if err != nil {
		return fmt.Errorf("open pdf for rendering: %w", err)
	}
	defer fz.Close()

	for i := 0; i < fz.NumPage(); i++ {
		if i < len(pages) && len(strings.TrimSpace(pages[i])) >= imagePageTextThreshold {
			continue
		}
		img, err := fz.Image(i)
		if err != nil {
			continue
		}
		doc.Images = append(doc.Images, img)
	}
	return nil
}

func extractPDFPages(path string) ([]string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

func extractPdftotext(path string) ([]string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	// pdftotext separates pages with form feeds.
	return strings.Split(string(out), "\f"), nil
}
