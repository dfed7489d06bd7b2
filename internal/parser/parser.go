package parser

import (
	"fmt"

	"github.com/insightdelivered/dirham-statement-importer/internal/models"
)

// Extractor is the per-variant half of transaction extraction: it knows the
// line grammar and how the variant's date tokens map onto the period.
type Extractor interface {
	Variant() models.BankVariant
	// BankName returns the human-readable bank name.
	BankName() string
	// Tokenize matches one line against the variant grammar.
	Tokenize(line string) (models.RawToken, bool)
	// Dates builds the operation and value dates of a token.
	Dates(tok models.RawToken, period models.StatementPeriod) (operation, value string, err error)
}

// New returns the extractor for the given variant.
func New(v models.BankVariant) (Extractor, error) {
	switch v {
	case models.VariantA:
		return attijariExtractor{}, nil
	case models.VariantB:
		return cihExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported bank variant: %q", v)
	}
}
