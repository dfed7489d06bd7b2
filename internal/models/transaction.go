package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Direction tells whether money entered or left the account.
type Direction string

const (
	Credit Direction = "credit"
	Debit  Direction = "debit"
)

// TransactionRecord is one normalized statement row.
// Direction is Credit exactly when Amount is positive.
type TransactionRecord struct {
	Code          *string         `json:"code,omitempty"` // VariantA operation code, nil for VariantB
	OperationDate string          `json:"operationDate"`  // YYYY-MM-DD
	ValueDate     string          `json:"valueDate"`      // YYYY-MM-DD
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Direction     Direction       `json:"direction"`
	Category      string          `json:"category,omitempty"`
}

// BankVariant identifies which statement layout produced the text.
type BankVariant string

const (
	VariantUnknown BankVariant = ""
	VariantA       BankVariant = "variant-a" // Attijariwafa, code-prefixed rows
	VariantB       BankVariant = "variant-b" // CIH, slash-dated rows
)

// ParseBankVariant maps a user-supplied bank name onto a variant.
func ParseBankVariant(s string) (BankVariant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a", "variant-a", "attijari", "attijariwafa":
		return VariantA, nil
	case "b", "variant-b", "cih", "cihbank":
		return VariantB, nil
	default:
		return VariantUnknown, fmt.Errorf("unknown bank %q (supported: attijariwafa, cih)", s)
	}
}

// LineResult captures what the extractor did with each input line.
type LineResult struct {
	LineNum int    `json:"lineNum"`
	Text    string `json:"text"`
	Result  string `json:"result"` // "parsed", "skipped", "unmatched", "failed"
	Reason  string `json:"reason,omitempty"`
}

const (
	LineParsed    = "parsed"
	LineSkipped   = "skipped"
	LineUnmatched = "unmatched"
	LineFailed    = "failed"
)

// Statement is the result of parsing one statement document.
type Statement struct {
	Variant     BankVariant         `json:"variant"`
	Period      StatementPeriod     `json:"period"`
	Records     []TransactionRecord `json:"records"`
	Lines       []LineResult        `json:"lines,omitempty"`
	FailedLines int                 `json:"failedLines"`
}
