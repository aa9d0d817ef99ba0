package currency

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	Symbol = "₹"

	Lakh  = 100_000
	Crore = 10_000_000
)

var (
	printer = message.NewPrinter(language.MustParse("en-IN"))

	lakhDec  = decimal.NewFromInt(Lakh)
	croreDec = decimal.NewFromInt(Crore)
)

// Format renders an amount the way the dashboard shows it:
// ₹1.20Cr, ₹2.50L or ₹4,500. Non-finite amounts render as ₹∞ or ₹NaN.
func Format(amount float64) string {
	switch {
	case math.IsNaN(amount):
		return Symbol + "NaN"
	case math.IsInf(amount, 1):
		return Symbol + "∞"
	case math.IsInf(amount, -1):
		return "-" + Symbol + "∞"
	case amount >= Crore:
		return Symbol + decimal.NewFromFloat(amount).Div(croreDec).StringFixed(2) + "Cr"
	case amount >= Lakh:
		return Symbol + decimal.NewFromFloat(amount).Div(lakhDec).StringFixed(2) + "L"
	default:
		return Symbol + printer.Sprint(number.Decimal(amount, number.MaxFractionDigits(2)))
	}
}

// Parse is the inverse of Format. Malformed input yields NaN; callers must
// check with math.IsNaN.
func Parse(text string) float64 {
	s := strings.ReplaceAll(text, Symbol, "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	switch {
	case strings.Contains(s, "Cr"):
		return parseScaled(strings.Replace(s, "Cr", "", 1), Crore)
	case strings.Contains(s, "L"):
		return parseScaled(strings.Replace(s, "L", "", 1), Lakh)
	default:
		return parseScaled(s, 1)
	}
}

func parseScaled(s string, scale float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	v := f * scale
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return math.NaN()
	}
	return v
}
