package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/insightdelivered/dirham-statement-importer/internal/logger"
	"github.com/insightdelivered/dirham-statement-importer/internal/models"
)

var (
	// ErrOpen means the document could not be opened at all.
	ErrOpen = errors.New("cannot open document")
	// ErrPageDecode is a per-page failure; the page is skipped.
	ErrPageDecode = errors.New("page decode failure")
	// ErrDecodeTimeout aborts the whole parse.
	ErrDecodeTimeout = errors.New("decode timeout")
)

// Decoder opens raw document bytes.
type Decoder interface {
	Open(ctx context.Context, data []byte) (Document, error)
}

// Document exposes positioned text fragments page by page. Pages are 1-based.
type Document interface {
	PageCount() int
	Fragments(ctx context.Context, page int) ([]models.Fragment, error)
}

// PDFDecoder decodes PDFs with github.com/ledongthuc/pdf.
type PDFDecoder struct{}

// NewPDFDecoder returns the default PDF decoder.
func NewPDFDecoder() *PDFDecoder {
	return &PDFDecoder{}
}

// Open parses the PDF cross-reference table. The library call cannot be
// interrupted, so a context deadline abandons it rather than stopping it.
func (d *PDFDecoder) Open(ctx context.Context, data []byte) (Document, error) {
	r, err := bounded(ctx, func() (*pdf.Reader, error) {
		return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	})
	if err != nil {
		if errors.Is(err, ErrDecodeTimeout) {
			return nil, fmt.Errorf("opening document: %w", err)
		}
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	if r.NumPage() == 0 {
		return nil, fmt.Errorf("%w: PDF has no pages", ErrOpen)
	}
	return &pdfDocument{r: r}, nil
}

type pdfDocument struct {
	r *pdf.Reader
}

func (d *pdfDocument) PageCount() int {
	return d.r.NumPage()
}

func (d *pdfDocument) Fragments(ctx context.Context, page int) ([]models.Fragment, error) {
	frags, err := bounded(ctx, func() ([]models.Fragment, error) {
		p := d.r.Page(page)
		if p.V.IsNull() {
			return nil, fmt.Errorf("page %d missing from page tree", page)
		}
		content := p.Content()
		out := make([]models.Fragment, 0, len(content.Text))
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			out = append(out, models.Fragment{Text: t.S, Y: t.Y})
		}
		return out, nil
	})
	if err != nil {
		if errors.Is(err, ErrDecodeTimeout) {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		return nil, fmt.Errorf("%w: page %d: %v", ErrPageDecode, page, err)
	}
	return frags, nil
}

// bounded runs fn in its own goroutine so that ctx can cut the wait short.
// Panics inside the PDF library are turned into errors.
func bounded[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- result{err: fmt.Errorf("PDF library crashed: %v", r)}
			}
		}()
		v, err := fn()
		ch <- result{v: v, err: err}
	}()

	select {
	case res := <-ch:
		return res.v, res.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("%w: %v", ErrDecodeTimeout, ctx.Err())
	}
}

// ReadPages fetches fragments for pages 1..min(PageCount, maxPages), each
// under its own timeout. Non-timeout page failures are logged and skipped.
func ReadPages(ctx context.Context, doc Document, maxPages int, pageTimeout time.Duration) ([][]models.Fragment, error) {
	log := logger.FromContext(ctx)

	n := doc.PageCount()
	if maxPages > 0 && n > maxPages {
		log.Debug().Int("pages", n).Int("cap", maxPages).Msg("page cap applied")
		n = maxPages
	}

	pages := make([][]models.Fragment, 0, n)
	for i := 1; i <= n; i++ {
		pctx, cancel := context.WithTimeout(ctx, pageTimeout)
		frags, err := doc.Fragments(pctx, i)
		cancel()
		if err != nil {
			if errors.Is(err, ErrDecodeTimeout) {
				return nil, err
			}
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", ErrDecodeTimeout, ctx.Err())
			}
			log.Warn().Err(err).Int("page", i).Msg("page skipped")
			continue
		}
		pages = append(pages, frags)
	}
	return pages, nil
}
