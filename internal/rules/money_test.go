package rules

import "testing"

func TestExtractTotal(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
		ok   bool
	}{
		{"labeled total", "Total: $1,250.00", 1250.00, true},
		{"labeled without symbol", "Total 99.95", 99.95, true},
		{"grand total outranks total", "Total: 10.00\nGrand Total: 12.50", 12.50, true},
		{"amount due", "Amount Due: $42.00", 42.00, true},
		{"subtotal is not total", "Subtotal: 8.00", 0, false},
		{"label beats larger unlabeled value", "Total: $10.00 and a deposit of $500.00", 10.00, true},
		{"largest symbol value without label", "$5.00 item, $7.50 item, fee $2.00", 7.50, true},
		{"no candidates", "no money talk here", 0, false},
		{"bare numbers ignored without label", "quantity 2000 units", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractTotal(tt.text)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ExtractTotal(%q) = (%v, %v), want (%v, %v)", tt.text, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1,250.00", 1250.00, true},
		{"10", 10, true},
		{"0.99", 0.99, true},
		{"0", 0, true},
		{"", 0, false},
		{",,", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		d, ok := ParseAmount(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseAmount(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if f, _ := d.Float64(); f != tt.want {
			t.Errorf("ParseAmount(%q) = %v, want %v", tt.in, f, tt.want)
		}
	}
}

func TestParseAmountNeverNegative(t *testing.T) {
	if _, ok := ParseAmount("-5.00"); ok {
		t.Error("negative amount should be rejected")
	}
}
