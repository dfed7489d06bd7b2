package parser

import (
	"testing"

	"github.com/insightdelivered/dirham-statement-importer/internal/models"
)

func TestInferDirection(t *testing.T) {
	tests := []struct {
		description string
		want        models.Direction
	}{
		{"VERSEMENT ESPECES", models.Credit},
		{"VIR.RECU DE M. ALAMI", models.Credit},
		{"Virement reçu employeur", models.Credit},
		{"SALAIRE JUILLET", models.Credit},
		{"Dépôt chèque", models.Credit},
		{"CASHBACK CARTE", models.Credit},
		{"VIR.EMIS WEB VERS Smart Stooners", models.Debit},
		{"RETRAIT GAB", models.Debit},
		{"", models.Debit},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			if got := InferDirection(tt.description); got != tt.want {
				t.Errorf("InferDirection(%q) = %q, want %q", tt.description, got, tt.want)
			}
		})
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		description string
		want        string
	}{
		{"RETRAIT GAB CASABLANCA", "atm"},
		{"PAIEMENT CARTE MARJANE", "card"},
		{"ACHAT INTERNET JUMIA", "online"},
		{"VIR.EMIS WEB VERS Smart Stooners", "transfer_out"},
		{"VIR RECU DE KARIM", "transfer_in"},
		{"FRAIS TENUE DE COMPTE", "fees"},
		{"RECHARGE JAWAL", "recharge"},
		{"SALAIRE", "other"},
		{"VIR.EMIS VERS GABRIEL", "transfer_out"},
		{"PAIEMENT TPE BATMAN STORE", "card"},
		{"PAIEMENT CARTE ADABI", "card"},
		{"ABONNEMENT STVA", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			if got := Categorize(tt.description); got != tt.want {
				t.Errorf("Categorize(%q) = %q, want %q", tt.description, got, tt.want)
			}
		})
	}
}
