// Package merge combines freshly extracted records with the accumulated set.
package merge

import (
	"strings"

	"github.com/insightdelivered/dirham-statement-importer/internal/models"
)

// Key identifies a real-world transaction across imports: operation date,
// trimmed description and absolute amount to two decimals.
func Key(r models.TransactionRecord) string {
	return r.OperationDate + "|" + strings.TrimSpace(r.Description) + "|" + r.Amount.Abs().StringFixed(2)
}

// Merge returns existing (self-deduplicated, first-seen order) followed by
// the incoming records whose key is not already present, and the number of
// records added. Merging the same batch again adds nothing.
func Merge(existing, incoming []models.TransactionRecord) ([]models.TransactionRecord, int) {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	merged := make([]models.TransactionRecord, 0, len(existing)+len(incoming))

	for _, r := range existing {
		k := Key(r)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		merged = append(merged, r)
	}

	added := 0
	for _, r := range incoming {
		k := Key(r)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		merged = append(merged, r)
		added++
	}
	return merged, added
}

// Duplicates counts records whose key already appeared earlier in the slice.
func Duplicates(records []models.TransactionRecord) int {
	seen := make(map[string]struct{}, len(records))
	n := 0
	for _, r := range records {
		k := Key(r)
		if _, dup := seen[k]; dup {
			n++
			continue
		}
		seen[k] = struct{}{}
	}
	return n
}
