package report

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const currencySymbol = "₹"

var hundred = decimal.NewFromInt(100)

// FormatCurrency formatea un monto en rupias con agrupación india y 2 decimales:
// 1234.5 → "₹1,234.50", 1234567 → "₹12,34,567.00", -5 → "-₹5.00". El valor cero
// (también el de un campo ausente) da "₹0.00".
func FormatCurrency(d decimal.Decimal) string {
	s := d.Round(2).StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	out := currencySymbol + groupIndian(intPart) + "." + frac
	if neg && strings.Trim(intPart+frac, "0") != "" {
		return "-" + out
	}
	return out
}

// groupIndian agrupa los dígitos como en-IN: los últimos 3 juntos y el resto de a 2.
func groupIndian(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	head, tail := digits[:n-3], digits[n-3:]
	var b strings.Builder
	first := len(head) % 2
	if first > 0 {
		b.WriteString(head[:first])
	}
	for i := first; i < len(head); i += 2 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(head[i : i+2])
	}
	b.WriteByte(',')
	b.WriteString(tail)
	return b.String()
}

// FormatPercentage 2 decimales + "%".
func FormatPercentage(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2) + "%"
}

// Share porcentaje de part sobre total; 0 si total es 0.
func Share(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred).Round(2)
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
}

// FormatDate formatea como "DD Mon YYYY". Vacío → "N/A"; un formato desconocido se
// muestra tal cual.
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "N/A"
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("02 Jan 2006")
		}
	}
	return s
}

// FormatCount enteros con agrupación india y sin símbolo.
func FormatCount(n int64) string {
	if n < 0 {
		return "-" + groupIndian(decimal.NewFromInt(-n).String())
	}
	return groupIndian(decimal.NewFromInt(n).String())
}
