package parser

import (
	"strings"

	"github.com/insightdelivered/dirham-statement-importer/internal/models"
)

// creditKeywords mark money coming in. Matching is a heuristic on the
// description; the statements carry no sign column.
var creditKeywords = []string{
	"versement",
	"depot",
	"dépôt",
	"vir.recu",
	"vir recu",
	"virement recu",
	"virement reçu",
	"salaire",
	"pension",
	"remboursement",
	"rembt",
	"cashback",
	"annulation",
	"restitution",
}

type categoryRule struct {
	name     string
	keywords []string
}

// First matching rule wins. Keywords match whole words only.
var categoryRules = []categoryRule{
	{"atm", []string{"retrait gab", "retrait dab", "gab", "dab", "atm", "retrait"}},
	{"card", []string{"paiement carte", "paiement tpe", "carte", "tpe", "cb"}},
	{"online", []string{"internet", "en ligne", "e-commerce", "ecommerce", "paiement web", "achat web"}},
	{"transfer_out", []string{"vir.emis", "vir emis", "virement emis", "virement émis", "vir.permanent"}},
	{"transfer_in", []string{"vir.recu", "vir recu", "virement recu", "virement reçu"}},
	{"fees", []string{"frais", "commission", "cotisation", "agios", "tva", "taxe"}},
	{"recharge", []string{"recharge", "jawal", "inwi", "orange"}},
}

const defaultCategory = "other"

// InferDirection returns Credit when the description names an incoming movement.
func InferDirection(description string) models.Direction {
	if containsWord(strings.ToLower(description), creditKeywords) {
		return models.Credit
	}
	return models.Debit
}

// Categorize tags a description with a coarse spending category.
func Categorize(description string) string {
	d := strings.ToLower(description)
	for _, rule := range categoryRules {
		if containsWord(d, rule.keywords) {
			return rule.name
		}
	}
	return defaultCategory
}
