package extractor

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/dirham-statement-importer/internal/models"
)

type stubDocument struct {
	pages   int
	fail    map[int]error
	stall   map[int]bool
	fetched []int
}

func (d *stubDocument) PageCount() int { return d.pages }

func (d *stubDocument) Fragments(ctx context.Context, page int) ([]models.Fragment, error) {
	d.fetched = append(d.fetched, page)
	if d.stall[page] {
		<-ctx.Done()
		return nil, fmt.Errorf("page %d: %w", page, ErrDecodeTimeout)
	}
	if err := d.fail[page]; err != nil {
		return nil, err
	}
	return []models.Fragment{{Text: fmt.Sprintf("page %d", page), Y: 100}}, nil
}

func TestReadPages(t *testing.T) {
	t.Run("stops at page cap", func(t *testing.T) {
		doc := &stubDocument{pages: 8}

		pages, err := ReadPages(context.Background(), doc, MaxPages, time.Second)

		require.NoError(t, err)
		assert.Len(t, pages, 5)
		assert.Equal(t, []int{1, 2, 3, 4, 5}, doc.fetched)
	})

	t.Run("skips failed page", func(t *testing.T) {
		doc := &stubDocument{
			pages: 3,
			fail:  map[int]error{2: fmt.Errorf("%w: bad stream", ErrPageDecode)},
		}

		pages, err := ReadPages(context.Background(), doc, MaxPages, time.Second)

		require.NoError(t, err)
		require.Len(t, pages, 2)
		assert.Equal(t, "page 3", pages[1][0].Text)
	})

	t.Run("page timeout is fatal", func(t *testing.T) {
		doc := &stubDocument{pages: 3, stall: map[int]bool{2: true}}

		pages, err := ReadPages(context.Background(), doc, MaxPages, 10*time.Millisecond)

		assert.Nil(t, pages)
		assert.True(t, errors.Is(err, ErrDecodeTimeout))
		assert.Equal(t, []int{1, 2}, doc.fetched)
	})
}

func TestBounded(t *testing.T) {
	t.Run("returns value", func(t *testing.T) {
		v, err := bounded(context.Background(), func() (int, error) { return 42, nil })
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	})

	t.Run("recovers panic", func(t *testing.T) {
		_, err := bounded(context.Background(), func() (int, error) { panic("malformed xref") })
		require.Error(t, err)
		assert.Contains(t, err.Error(), "malformed xref")
	})

	t.Run("deadline wins over slow call", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		release := make(chan struct{})
		defer close(release)

		_, err := bounded(ctx, func() (int, error) {
			<-release
			return 0, nil
		})

		assert.True(t, errors.Is(err, ErrDecodeTimeout))
	})
}

func TestPDFDecoderRejectsGarbage(t *testing.T) {
	_, err := NewPDFDecoder().Open(context.Background(), []byte("this is not a pdf"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOpen))
}
