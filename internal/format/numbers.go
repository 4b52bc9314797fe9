package format

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Count formats n with thousands separators.
func Count[T ~int | ~int64](n T) string {
	return printer.Sprintf("%d", n)
}

// Kilograms formats a payload mass with thousands separators and one decimal.
func Kilograms(kg float64) string {
	return printer.Sprintf("%.1f kg", kg)
}

// Percent formats a fraction in [0, 1] as a percentage.
func Percent(frac float64) string {
	return printer.Sprintf("%.1f%%", frac*100)
}
