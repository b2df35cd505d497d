// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"
)

// PageSource returns the plain text of every page of a document, in page
// order. A page without extractable text is returned as "".
type PageSource interface {
	PageTexts(path string) ([]string, error)
}

// PDFReader reads page text with github.com/ledongthuc/pdf.
type PDFReader struct {
	logger *zap.Logger
}

// NewPDFReader returns a PDFReader that logs skipped pages to logger.
func NewPDFReader(logger *zap.Logger) *PDFReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFReader{logger: logger}
}

// PageTexts opens path and returns the text of each page. Pages whose text
// cannot be decoded are logged and returned empty. The underlying parser
// panics on some malformed inputs; a panic while opening is converted into
// an error.
func (r *PDFReader) PageTexts(path string) (texts []string, err error) {
	defer func() {
		if p := recover(); p != nil {
			texts = nil
			err = fmt.Errorf("malformed pdf: %v", p)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	total := reader.NumPage()
	if total == 0 {
		return nil, fmt.Errorf("document has no pages")
	}

	texts = make([]string, 0, total)
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			r.logger.Debug("null page", zap.Int("page", i))
			texts = append(texts, "")
			continue
		}
		text, err := r.pageText(page)
		if err != nil {
			r.logger.Debug("page text unreadable", zap.Int("page", i), zap.Error(err))
			texts = append(texts, "")
			continue
		}
		texts = append(texts, text)
	}
	return texts, nil
}

// pageText lays out the page's positioned text runs. When the content
// stream cannot be interpreted it falls back to GetPlainText, which only
// breaks lines on T*.
func (r *PDFReader) pageText(page pdf.Page) (text string, err error) {
	func() {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("interpreting content: %v", p)
			}
		}()
		text = layoutText(page.Content().Text)
	}()
	if err == nil {
		return text, nil
	}

	r.logger.Debug("positioned text unavailable, using plain text", zap.Error(err))
	defer func() {
		if p := recover(); p != nil {
			text, err = "", fmt.Errorf("extracting plain text: %v", p)
		}
	}()
	return page.GetPlainText(nil)
}

// layoutText joins text runs in content-stream order. A change of baseline
// starts a new line; a horizontal gap wider than a fraction of the font
// size between runs of known width becomes a space.
func layoutText(runs []pdf.Text) string {
	var b strings.Builder
	var prev pdf.Text
	for i, t := range runs {
		if i > 0 {
			switch {
			case newLine(prev, t):
				b.WriteByte('\n')
			case gap(prev, t):
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.S)
		prev = t
	}
	return b.String()
}

func newLine(prev, t pdf.Text) bool {
	tolerance := math.Max(1, math.Min(prev.FontSize, t.FontSize)/2)
	return math.Abs(t.Y-prev.Y) > tolerance
}

func gap(prev, t pdf.Text) bool {
	if prev.W <= 0 || strings.HasSuffix(prev.S, " ") || strings.HasPrefix(t.S, " ") {
		return false
	}
	return t.X-(prev.X+prev.W) > 0.2*t.FontSize
}

// Validate runs a relaxed structural check of the PDF at path.
func Validate(path string) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(path, conf); err != nil {
		return fmt.Errorf("validating pdf: %w", err)
	}
	return nil
}
