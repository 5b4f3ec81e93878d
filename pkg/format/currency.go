// Package format renders amounts for people: currency, rates and areas.
package format

import (
	"math"

	"github.com/iwvelando/ananda-quote/pkg/constants"
	"github.com/iwvelando/ananda-quote/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	if amount < 0 && mathutil.Round(amount) != 0 {
		return "-$" + NumericCurrency(math.Abs(amount))
	}
	return "$" + NumericCurrency(math.Abs(amount))
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	if mathutil.Round(amount) == 0 {
		amount = 0
	}
	return printer.Sprintf("%.2f", amount)
}

// Rate renders a fraction as a percentage, e.g. 0.105 as "10.50%".
func Rate(fraction float64) string {
	return printer.Sprintf("%.2f%%", fraction*constants.PercentageMultiplier)
}

// Area renders square meters, e.g. "1,250.50 m²".
func Area(m2 float64) string {
	return printer.Sprintf("%.2f m²", m2)
}
