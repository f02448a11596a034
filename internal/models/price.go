package models

import (
	"strconv"
	"strings"
	"unicode"
)

// ParsePrice turns a raw marketplace price string ("$1,299.99", "649€",
// "1.299,00 EUR") into an amount in the smallest currency unit plus whatever
// currency marker surrounded the digits. Unparsable input yields 0, which
// downstream code treats as "price unknown", never as free.
func ParsePrice(price string) (int64, string) {
	price = strings.TrimSpace(price)

	if price == "" {
		return 0, ""
	}

	currency, number := "", ""

	for _, char := range price {
		currency, number = processCharacter(char, currency, number)
	}

	return resolveSeparators(number), strings.TrimSpace(currency)
}

func processCharacter(char rune, currency, number string) (string, string) {
	if isSpaceOrPlus(char) {
		return currency, number
	} else if isSeparatorChar(char) {
		number += "."
	} else if unicode.IsDigit(char) {
		number += string(char)
	} else {
		currency += string(char)
	}
	return currency, number
}

// resolveSeparators decides which of the collected separators, if any, marks
// the decimal point: only a final separator followed by one or two digits
// counts; everything else is a thousands separator and is dropped.
func resolveSeparators(number string) int64 {
	if number == "" {
		return 0
	}

	whole, fraction := number, ""
	if i := strings.LastIndex(number, "."); i >= 0 {
		digitsAfter := len(number) - i - 1
		if digitsAfter >= 1 && digitsAfter <= 2 {
			whole, fraction = number[:i], number[i+1:]
		}
	}
	whole = strings.ReplaceAll(whole, ".", "")
	if whole == "" && fraction == "" {
		return 0
	}
	for len(fraction) < 2 {
		fraction += "0"
	}

	units, err := strconv.ParseInt(whole+fraction, 10, 64)
	if err != nil {
		return 0
	}
	return units
}

func isSeparatorChar(char rune) bool {
	return char == '.' || char == ','
}

func isSpaceOrPlus(char rune) bool {
	return char == ' ' || char == '+'
}
