package parser

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/insightdelivered/dirham-statement-importer/internal/models"
)

// 12/07 13/07 RETRAIT GAB CASABLANCA 500,00
var cihLine = regexp.MustCompile(`^(\d{2}/\d{2})\s+(\d{2}/\d{2})\s+(\S.*)$`)

// cihExtractor reads rows led by operation and value dates. Both dates take
// their year from the statement period.
type cihExtractor struct{}

func (cihExtractor) Variant() models.BankVariant { return models.VariantB }

func (cihExtractor) BankName() string { return "CIH Bank" }

func (cihExtractor) Tokenize(line string) (models.RawToken, bool) {
	m := cihLine.FindStringSubmatch(line)
	if m == nil {
		return models.RawToken{}, false
	}
	head, amount, ok := splitAmount(m[3])
	if !ok {
		return models.RawToken{}, false
	}
	return models.RawToken{
		DayComponents: []string{m[1], m[2]},
		Description:   cleanDescription(head),
		AmountText:    amount,
	}, true
}

func (cihExtractor) Dates(tok models.RawToken, period models.StatementPeriod) (string, string, error) {
	op, err := dayMonthDate(tok.DayComponents[0], period.Year)
	if err != nil {
		return "", "", fmt.Errorf("operation date: %w", err)
	}
	val, err := dayMonthDate(tok.DayComponents[1], period.Year)
	if err != nil {
		return "", "", fmt.Errorf("value date: %w", err)
	}
	return op, val, nil
}

// dayMonthDate builds a date from a DD/MM token.
func dayMonthDate(token string, year int) (string, error) {
	if len(token) != 5 {
		return "", fmt.Errorf("%w: %q", ErrInvalidDateComponent, token)
	}
	day, _ := strconv.Atoi(token[:2])
	month, _ := strconv.Atoi(token[3:])
	return BuildDateISO(day, month, year)
}
