package extractor

import (
	"math"
	"sort"
	"strings"

	"github.com/insightdelivered/dirham-statement-importer/internal/models"
)

// MaxPages is the number of pages read from any document.
const MaxPages = 5

// lineTolerance is the vertical distance below which two fragments share a line.
const lineTolerance = 2.0

// ReconstructLines turns per-page fragments into reading-order text lines.
// Pages past MaxPages are ignored.
func ReconstructLines(pages [][]models.Fragment) []string {
	if len(pages) > MaxPages {
		pages = pages[:MaxPages]
	}

	var out []string
	for _, frags := range pages {
		for _, l := range pageLines(frags) {
			out = append(out, l.Text)
		}
	}
	return out
}

// pageLines merges one page's fragments, top of page first.
func pageLines(frags []models.Fragment) []models.Line {
	var lines []models.Line
	for _, f := range frags {
		joined := false
		for i := range lines {
			if math.Abs(f.Y-lines[i].Y) < lineTolerance {
				lines[i].Text += " " + f.Text
				joined = true
				break
			}
		}
		if !joined {
			lines = append(lines, models.Line{Text: f.Text, Y: f.Y})
		}
	}

	// PDF Y grows upwards.
	sort.SliceStable(lines, func(a, b int) bool {
		return lines[a].Y > lines[b].Y
	})

	kept := lines[:0]
	for _, l := range lines {
		l.Text = strings.TrimSpace(l.Text)
		if l.Text == "" {
			continue
		}
		kept = append(kept, l)
	}
	return kept
}
