package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/dirham-statement-importer/internal/models"
)

var (
	brandVariantA = []string{"attijariwafa", "attijari wafabank", "attijarinet"}
	brandVariantB = []string{"cih bank", "cihbank", "credit immobilier et hotelier", "crédit immobilier et hôtelier"}

	slashPairLine  = regexp.MustCompile(`^\s*\d{2}/\d{2}\s+\d{2}/\d{2}\b`)
	codePrefixLine = regexp.MustCompile(`^\s*\d{4}[A-Z0-9]{2}\d{2}\s+\d{2}\s+\d{2}\b`)
)

// Detection is the chosen variant and the rule that chose it.
type Detection struct {
	Variant models.BankVariant
	Reason  string
}

// Detect classifies a statement from its lines. It never fails: when no
// rule matches it falls back to VariantA and lets extraction decide.
func Detect(lines []string) Detection {
	joined := strings.ToLower(strings.Join(lines, "\n"))

	if containsAny(joined, brandVariantA) {
		return Detection{Variant: models.VariantA, Reason: "brand"}
	}
	if containsAny(joined, brandVariantB) {
		return Detection{Variant: models.VariantB, Reason: "brand"}
	}
	for _, l := range lines {
		if slashPairLine.MatchString(l) {
			return Detection{Variant: models.VariantB, Reason: "slash date pair"}
		}
	}
	for _, l := range lines {
		if codePrefixLine.MatchString(l) {
			return Detection{Variant: models.VariantA, Reason: "code prefix"}
		}
	}
	return Detection{Variant: models.VariantA, Reason: "default"}
}
