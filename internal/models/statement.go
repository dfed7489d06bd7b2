package models

import "fmt"

// Fragment is a piece of text placed on a page at vertical position Y.
type Fragment struct {
	Text string
	Y    float64
}

// Line is a reconstructed row of text.
type Line struct {
	Text string
	Y    float64
}

// AnchorKind names the balance line a statement period was read from.
type AnchorKind int

const (
	ClosingBalance AnchorKind = iota + 1
	OpeningBalance
)

func (k AnchorKind) String() string {
	switch k {
	case ClosingBalance:
		return "closing"
	case OpeningBalance:
		return "opening"
	default:
		return "unknown"
	}
}

// MarshalText lets AnchorKind appear by name in JSON.
func (k AnchorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// StatementPeriod is the month and year a statement covers.
type StatementPeriod struct {
	Year     int        `json:"year"`
	Month    int        `json:"month"`
	Day      *int       `json:"day,omitempty"`
	Anchor   AnchorKind `json:"anchor"`
	Priority int        `json:"priority"` // 1 = closing balance, 2 = opening balance
	LineNum  int        `json:"lineNum"`
}

// String returns the period as YYYY-MM.
func (p StatementPeriod) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// RawToken is the set of substrings a variant grammar pulled out of a line.
type RawToken struct {
	Code          *string
	DayComponents []string // VariantA: [day] or [day, day]; VariantB: [opDD/MM, valDD/MM]
	Description   string
	AmountText    string
}
