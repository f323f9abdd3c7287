package output

import (
	"math"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// AmountFormatter renders money amounts for one locale.
type AmountFormatter struct {
	printer *message.Printer
}

// NewAmountFormatter creates a formatter for tag.
func NewAmountFormatter(tag language.Tag) AmountFormatter {
	return AmountFormatter{printer: message.NewPrinter(tag)}
}

// Format renders value with locale grouping and exactly two fraction digits.
// Halves round away from zero; a value that rounds to zero prints unsigned.
func (f AmountFormatter) Format(value float64) string {
	return f.FormatScaled(value, 2)
}

// FormatScaled is Format with an explicit number of fraction digits.
// NaN and infinities are printed as the locale renders them.
func (f AmountFormatter) FormatScaled(value float64, scale int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return f.printer.Sprint(number.Decimal(value, number.Scale(scale)))
	}
	rounded := decimal.NewFromFloat(value).Round(int32(scale))
	if rounded.IsZero() {
		rounded = decimal.Zero
	}
	return f.printer.Sprint(number.Decimal(rounded.InexactFloat64(), number.Scale(scale)))
}

// FormatAmount formats value for the process locale.
// The result is locale-dependent: 1234.5 is "1,234.50" in English and
// "1.234,50" in German.
func FormatAmount(value float64) string {
	return NewAmountFormatter(DetectLocale("")).Format(value)
}

// DetectLocale picks the formatting locale. override wins when it parses;
// otherwise LC_ALL, LC_NUMERIC and LANG are consulted in that order.
// Unset, "C", "POSIX" and unparseable values fall back to English.
func DetectLocale(override string) language.Tag {
	candidates := []string{override, os.Getenv("LC_ALL"), os.Getenv("LC_NUMERIC"), os.Getenv("LANG")}
	for _, c := range candidates {
		if tag, ok := parseLocale(c); ok {
			return tag
		}
	}
	return language.English
}

// parseLocale accepts BCP 47 tags ("de-DE") and POSIX locale names ("de_DE.UTF-8@euro").
func parseLocale(s string) (language.Tag, bool) {
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "-")
	if s == "" || s == "C" || s == "POSIX" {
		return language.Und, false
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, false
	}
	return tag, true
}
