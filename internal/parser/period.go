package parser

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/insightdelivered/dirham-statement-importer/internal/models"
)

const anchorDate = `(\d{2})(?:\s+|/)(\d{2})(?:\s+|/)(\d{4})`

type anchorPattern struct {
	re   *regexp.Regexp
	kind models.AnchorKind
}

// Closing balance lines outrank opening balance lines.
var anchorPatterns = []anchorPattern{
	{regexp.MustCompile(`(?i)SOLDE\s+FINAL\s+AU\s*:?\s*` + anchorDate), models.ClosingBalance},
	{regexp.MustCompile(`(?i)NOUVEAU\s+SOLDE\s+AU\s*:?\s*` + anchorDate), models.ClosingBalance},
	{regexp.MustCompile(`(?i)SOLDE\s+D[EÉ]PART\s+AU\s*:?\s*` + anchorDate), models.OpeningBalance},
}

func priorityOf(k models.AnchorKind) int {
	if k == models.ClosingBalance {
		return 1
	}
	return 2
}

// ResolvePeriod picks the statement period from balance anchors. The
// lowest priority number wins; ties go to the earliest line.
func ResolvePeriod(lines []string) (models.StatementPeriod, error) {
	var candidates []models.StatementPeriod
	for i, line := range lines {
		for _, p := range anchorPatterns {
			m := p.re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			c, ok := anchorCandidate(m, p.kind, i+1)
			if ok {
				candidates = append(candidates, c)
			}
		}
	}

	if len(candidates) == 0 {
		return models.StatementPeriod{}, fmt.Errorf("%w: scanned %d lines", ErrNoPeriodAnchor, len(lines))
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].Priority < candidates[b].Priority
	})
	return candidates[0], nil
}

func anchorCandidate(m []string, kind models.AnchorKind, lineNum int) (models.StatementPeriod, bool) {
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if _, err := BuildDateISO(day, month, year); err != nil {
		return models.StatementPeriod{}, false
	}
	return models.StatementPeriod{
		Year:     year,
		Month:    month,
		Day:      &day,
		Anchor:   kind,
		Priority: priorityOf(kind),
		LineNum:  lineNum,
	}, true
}
