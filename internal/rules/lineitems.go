package rules

import (
	"regexp"
	"strings"

	"docpipe/internal/entity"
	"docpipe/internal/textproc"
)

// reSummaryLine excludes totals/footers from item recovery even when they
// are numerically shaped, to avoid double-counting the total as an item.
var reSummaryLine = regexp.MustCompile(`(?i)\b(?:sub\s*)?total\b|\btax\b|\bbalance\s+due\b|\bamount\s+due\b|\bchange\s+due\b`)

// reTableHeader excludes column header rows ("Description Qty Price Amount").
var reTableHeader = regexp.MustCompile(`(?i)^\s*(?:description|item|qty|quantity|price|unit\s+price|amount)(?:\s+(?:description|item|qty|quantity|price|unit\s+price|amount))*\s*$`)

// ExtractLineItems recovers itemized entries from lines that resemble
// tabular rows: a leading descriptive segment followed by one to three
// trailing numeric tokens. The trailing count determines the positional
// interpretation: one number is the amount; two are unit price and amount;
// three are quantity, unit price, and amount. Returns items in document
// order; an empty result is an accepted outcome, not an error.
func ExtractLineItems(text textproc.NormalizedText) []entity.LineItem {
	var items []entity.LineItem
	for _, line := range text.Lines() {
		if item, ok := parseItemLine(line); ok {
			items = append(items, item)
		}
	}
	return items
}

func parseItemLine(line string) (entity.LineItem, bool) {
	line = strings.TrimSpace(line)
	if line == "" || reSummaryLine.MatchString(line) || reTableHeader.MatchString(line) {
		return entity.LineItem{}, false
	}

	tokens := strings.Fields(line)
	if len(tokens) < 2 {
		return entity.LineItem{}, false
	}

	// walk trailing numeric tokens, at most three
	numeric := make([]float64, 0, 3)
	end := len(tokens)
	for end > 0 && len(numeric) < 3 {
		v, ok := numericToken(tokens[end-1])
		if !ok {
			break
		}
		numeric = append([]float64{v}, numeric...)
		end--
	}
	if len(numeric) == 0 || end == 0 {
		return entity.LineItem{}, false
	}

	desc := strings.Join(tokens[:end], " ")
	if !reHasLetter.MatchString(desc) {
		return entity.LineItem{}, false
	}

	item := entity.LineItem{Description: desc}
	switch len(numeric) {
	case 1:
		item.Amount = entity.Num(numeric[0])
	case 2:
		item.UnitPrice = entity.Num(numeric[0])
		item.Amount = entity.Num(numeric[1])
	case 3:
		if numeric[0] <= 0 {
			// quantity must be positive for the three-column reading
			return entity.LineItem{}, false
		}
		item.Quantity = entity.Num(numeric[0])
		item.UnitPrice = entity.Num(numeric[1])
		item.Amount = entity.Num(numeric[2])
	}
	return item, true
}

// numericToken parses a token as a non-negative amount, tolerating a
// leading currency symbol and thousands separators.
func numericToken(tok string) (float64, bool) {
	tok = strings.TrimLeft(tok, "$€£¥₹")
	if tok == "" {
		return 0, false
	}
	d, ok := ParseAmount(tok)
	if !ok {
		return 0, false
	}
	f, _ := d.Float64()
	return f, true
}
