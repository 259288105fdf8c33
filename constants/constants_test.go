package constants

import "testing"

func TestCanonicalizeDocType(t *testing.T) {
	tests := []struct {
		in   string
		want DocType
		ok   bool
	}{
		{"invoice", Invoice, true},
		{"Invoice", Invoice, true},
		{" RECEIPT ", Receipt, true},
		{"bill", Invoice, true},
		{"tax invoice", Invoice, true},
		{"agreement", Contract, true},
		{"statement", Other, true},
		{"memo", Other, false},
		{"", Other, false},
	}
	for _, tt := range tests {
		got, ok := CanonicalizeDocType(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("CanonicalizeDocType(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestInferCurrency(t *testing.T) {
	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{"Total: $1,250.00", "USD", true},
		{"Gesamt: €99,00", "EUR", true},
		{"Amount £12.00", "GBP", true},
		{"Paid in CAD", "CAD", true},
		{"amount due 12.00", "", false},
		{"the usda report", "", false},
	}
	for _, tt := range tests {
		got, ok := InferCurrency(tt.text)
		if got != tt.want || ok != tt.ok {
			t.Errorf("InferCurrency(%q) = (%q, %v), want (%q, %v)", tt.text, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIsValidCurrencyCode(t *testing.T) {
	for code, want := range map[string]bool{
		"USD": true, "EUR": true, "usd": false, "US": false, "USDA": false, "U5D": false,
	} {
		if got := IsValidCurrencyCode(code); got != want {
			t.Errorf("IsValidCurrencyCode(%q) = %v, want %v", code, got, want)
		}
	}
}

func TestIsAllowedExt(t *testing.T) {
	for ext, want := range map[string]bool{
		".pdf": true, "pdf": true, ".PDF": true, ".txt": false, "": false,
	} {
		if got := IsAllowedExt(ext); got != want {
			t.Errorf("IsAllowedExt(%q) = %v, want %v", ext, got, want)
		}
	}
}

func TestIsValidMode(t *testing.T) {
	for mode, want := range map[string]bool{
		"rules": true, "llm": true, "": false, "psychic": false, "RULES": false,
	} {
		if got := IsValidMode(mode); got != want {
			t.Errorf("IsValidMode(%q) = %v, want %v", mode, got, want)
		}
	}
}
