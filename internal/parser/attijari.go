package parser

import (
	"regexp"
	"strconv"

	"github.com/insightdelivered/dirham-statement-importer/internal/models"
)

// 0016BK01 07 [07] VIR.EMIS WEB VERS ... 1 200,00
var attijariLine = regexp.MustCompile(`^(\d{4}[A-Z0-9]{2}\d{2})\s+(\d{2})(?:\s+(\d{2}))?\s+(\S.*)$`)

// attijariExtractor reads code-prefixed rows. Only the first day token is
// used; month and year always come from the statement period.
type attijariExtractor struct{}

func (attijariExtractor) Variant() models.BankVariant { return models.VariantA }

func (attijariExtractor) BankName() string { return "Attijariwafa bank" }

func (attijariExtractor) Tokenize(line string) (models.RawToken, bool) {
	m := attijariLine.FindStringSubmatch(line)
	if m == nil {
		return models.RawToken{}, false
	}
	head, amount, ok := splitAmount(m[4])
	if !ok {
		return models.RawToken{}, false
	}

	code := m[1]
	days := []string{m[2]}
	if m[3] != "" {
		days = append(days, m[3])
	}
	return models.RawToken{
		Code:          &code,
		DayComponents: days,
		Description:   cleanDescription(head),
		AmountText:    amount,
	}, true
}

func (attijariExtractor) Dates(tok models.RawToken, period models.StatementPeriod) (string, string, error) {
	day, _ := strconv.Atoi(tok.DayComponents[0])
	date, err := BuildDateISO(day, period.Month, period.Year)
	if err != nil {
		return "", "", err
	}
	return date, date, nil
}
