package report

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var enIN = message.NewPrinter(language.MustParse("en-IN"))

// FormatAmount renders a money value with Indian digit grouping, e.g.
// "₹1,23,456.50".
func FormatAmount(v float64) string {
	return enIN.Sprintf("₹%v", number.Decimal(v, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
