package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/dirham-statement-importer/internal/models"
)

const (
	minYear = 2000
	maxYear = 2030
)

// maxAmount is the largest magnitude accepted for a single transaction.
var maxAmount = decimal.NewFromInt(10_000_000)

// A year, or a four-digit amount starting like one when the decimals follow.
var yearLike = regexp.MustCompile(`\b(?:19|20)\d{2}(?:,\d{2})?\b`)

// ParseAmount converts "1 234,56" to 1234.56. Anything it cannot read
// comes back as zero.
func ParseAmount(s string) decimal.Decimal {
	s = yearLike.ReplaceAllStringFunc(s, func(m string) string {
		if strings.Contains(m, ",") {
			return m
		}
		return ""
	})
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ValidateAmount checks 0 < magnitude <= 10,000,000.
func ValidateAmount(mag decimal.Decimal) error {
	if !mag.IsPositive() {
		return fmt.Errorf("%w: %s", ErrAmountUnparseable, mag.String())
	}
	if mag.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: %s exceeds %s", ErrAmountOutOfRange, mag.StringFixed(2), maxAmount.String())
	}
	return nil
}

// ApplySign derives the signed amount from the direction alone.
func ApplySign(mag decimal.Decimal, d models.Direction) decimal.Decimal {
	if d == models.Credit {
		return mag.Abs()
	}
	return mag.Abs().Neg()
}

// BuildDateISO validates the components and formats YYYY-MM-DD. A day past
// the end of the month is clamped to the month's last day.
func BuildDateISO(day, month, year int) (string, error) {
	if day < 1 || day > 31 {
		return "", fmt.Errorf("%w: day %d", ErrInvalidDateComponent, day)
	}
	if month < 1 || month > 12 {
		return "", fmt.Errorf("%w: month %d", ErrInvalidDateComponent, month)
	}
	if year < minYear || year > maxYear {
		return "", fmt.Errorf("%w: year %d", ErrInvalidDateComponent, year)
	}
	if last := daysIn(month, year); day > last {
		day = last
	}
	return FormatISO(year, month, day), nil
}

// FormatISO zero-pads a date as YYYY-MM-DD.
func FormatISO(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

func daysIn(month, year int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
