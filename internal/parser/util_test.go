package parser

import (
	"strings"
	"testing"
)

func TestSplitAmount(t *testing.T) {
	tests := []struct {
		input      string
		wantHead   string
		wantAmount string
		wantOK     bool
	}{
		{"VIR.EMIS WEB VERS Smart Stooners   28 06 2024           1 200,00", "VIR.EMIS WEB VERS Smart Stooners   28 06 2024", "1 200,00", true},
		{"RETRAIT GAB 500,00", "RETRAIT GAB", "500,00", true},
		{"FRAIS 12,50  ", "FRAIS", "12,50", true},
		{"1 234 567,89", "", "1 234 567,89", true},
		{"VIR.EMIS WEB VERS LOYER 4500,00", "VIR.EMIS WEB VERS LOYER", "4500,00", true},
		{"VERSEMENT 2024 500,00", "VERSEMENT 2024", "500,00", true},
		{"CHEQUE 28 06 2024 1 200,00", "CHEQUE 28 06 2024", "1 200,00", true},
		{"PAIEMENT 12.50", "", "", false},
		{"PAIEMENT 12,5", "", "", false},
		{"NO AMOUNT", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			head, amount, ok := splitAmount(tt.input)
			head = strings.TrimSpace(head)
			if ok != tt.wantOK {
				t.Fatalf("splitAmount(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if head != tt.wantHead || amount != tt.wantAmount {
				t.Errorf("splitAmount(%q) = (%q, %q), want (%q, %q)", tt.input, head, amount, tt.wantHead, tt.wantAmount)
			}
		})
	}
}

func TestCleanDescription(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"VIR.EMIS WEB VERS Smart Stooners   28 06 2024  ", "VIR.EMIS WEB VERS Smart Stooners"},
		{"PAIEMENT CARTE 12/07/2024 MARJANE", "PAIEMENT CARTE MARJANE"},
		{"RETRAIT GAB 03-07-2024", "RETRAIT GAB"},
		{"ACHAT 05/07 BIM", "ACHAT BIM"},
		{"  FRAIS   TENUE\tCOMPTE ", "FRAIS TENUE COMPTE"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := cleanDescription(tt.input); got != tt.want {
				t.Errorf("cleanDescription(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsSummaryLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"SOLDE FINAL AU 31 07 2024 5 000,00 CREDITEUR", true},
		{"TOTAL DES MOUVEMENTS 4 500,00 2 000,00", true},
		{"Nouveau solde au 31/07/2024", true},
		{"SOLDE DEPART AU 30/06/2024 3 000,00", true},
		{"Total", true},
		{"SOLDE 1 000,00", true},
		{"0016BK01 07 VIR.EMIS 1 200,00", false},
		{"0016BK02 09 09 PAIEMENT CARTE TOTAL MAROC CASABLANCA 350,00", false},
		{"PAIEMENT CARTE SOLDES ETE ZARA", false},
		{"SOLDES MARJANE", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := isSummaryLine(tt.line); got != tt.want {
				t.Errorf("isSummaryLine(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestContainsWord(t *testing.T) {
	tests := []struct {
		text    string
		needles []string
		want    bool
	}{
		{"retrait gab casablanca", []string{"gab"}, true},
		{"vir.emis vers gabriel", []string{"gab"}, false},
		{"paiement batman store", []string{"atm"}, false},
		{"gab gabriel", []string{"gab"}, true},
		{"vir.emis web", []string{"vir.emis"}, true},
		{"dépôt chèque", []string{"dépôt"}, true},
		{"redépôt", []string{"dépôt"}, false},
		{"", []string{"gab"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := containsWord(tt.text, tt.needles); got != tt.want {
				t.Errorf("containsWord(%q, %v) = %v, want %v", tt.text, tt.needles, got, tt.want)
			}
		})
	}
}
