package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var moneyPrinter = message.NewPrinter(language.English)

// FormatKwacha renders a whole-kwacha amount with thousand separators, e.g. "K 1,250".
func FormatKwacha(amount int) string {
	if amount < 0 {
		return moneyPrinter.Sprintf("-K %d", -amount)
	}
	return moneyPrinter.Sprintf("K %d", amount)
}
