package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultCurrency labels exported prices when none is configured.
const DefaultCurrency = "PKR"

const (
	exportHeader    = "--- PRODUCT LIST ---"
	exportFooter    = "--- END ---"
	exportSeparator = "---"
)

// Export renders products as the shareable plain-text list. The output
// depends only on its inputs.
func Export(products []Product, currency string) string {
	currency = strings.TrimSpace(currency)
	if currency == "" {
		currency = DefaultCurrency
	}

	blocks := make([]string, 0, len(products))
	for i, p := range products {
		lines := []string{fmt.Sprintf("%d. %s", i+1, p.Title)}
		switch {
		case !p.IsAvailable:
			lines = append(lines, "   - Status: *Not Available*")
		case p.Price != nil:
			lines = append(lines, fmt.Sprintf("   - Price: %s %s", formatWholePrice(*p.Price), currency))
		default:
			lines = append(lines, "   - Price: N/A")
		}
		if p.Note != "" {
			lines = append(lines, "   - Note: "+p.Note)
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	var b strings.Builder
	b.WriteString(exportHeader)
	b.WriteString("\n\n")
	b.WriteString(strings.Join(blocks, "\n"+exportSeparator+"\n"))
	b.WriteString("\n\n")
	b.WriteString(exportFooter)
	return b.String()
}

// formatWholePrice rounds half away from zero and never prints "-0".
func formatWholePrice(v float64) string {
	r := math.Round(v)
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', 0, 64)
}
