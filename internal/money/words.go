// =============================================================================
// Challan Generator - Amount-in-Words Converter
// =============================================================================
//
// Spells an amount using the Indian numbering scale (thousand, lakh, crore).
//
// The base phrase has the shape produced by en_IN English number spellers
// such as num2words:
//
//   123456 -> "one lakh, twenty-three thousand, four hundred and fifty-six"
//
// Post-processing, in order:
//   1. Remove the commas between groups
//   2. Title-case every word ("Twenty-Three")
//   3. Force the conjunction "and" back to lowercase
//
//   123456 -> "One Lakh Twenty-Three Thousand Four Hundred and Fifty-Six"
//
// =============================================================================

package money

import (
	"strings"
	"unicode"

	"github.com/ginjaninja78/challan-generator/internal/apperror"
	"github.com/shopspring/decimal"
)

// maxWordsAmount bounds the integer part so it fits an int64 with room to spare.
var maxWordsAmount = decimal.New(1, 15)

var onesWords = []string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen",
	"sixteen", "seventeen", "eighteen", "nineteen",
}

var tensWords = []string{
	"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety",
}

// ToWords spells the whole-unit part of amount. Zero is "Zero"; negative
// amounts are rejected with a VALIDATION_ERROR.
func ToWords(amount decimal.Decimal) (string, error) {
	if err := checkWordsRange(amount); err != nil {
		return "", err
	}
	return normalizePhrase(spell(amount.Truncate(0).IntPart())), nil
}

// paiseWords spells a 1-99 paise value in the same casing as ToWords.
func paiseWords(paise int64) string {
	return normalizePhrase(spell(paise)) + " Paise"
}

func checkWordsRange(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return apperror.NewValidation("amount must not be negative", apperror.Violation{
			Field:   "amount",
			Rule:    "min",
			Value:   amount.String(),
			Message: "negative amounts cannot be written in words",
		})
	}
	if amount.GreaterThanOrEqual(maxWordsAmount) {
		return apperror.NewValidation("amount is too large", apperror.Violation{
			Field:   "amount",
			Rule:    "max",
			Value:   amount.String(),
			Message: "amount exceeds the supported range",
		})
	}
	return nil
}

// spell returns the lowercase phrase with group commas.
func spell(n int64) string {
	if n == 0 {
		return onesWords[0]
	}

	var groups []string
	if crore := n / 10000000; crore > 0 {
		groups = append(groups, spell(crore)+" crore")
	}
	if lakh := n / 100000 % 100; lakh > 0 {
		groups = append(groups, belowHundred(lakh)+" lakh")
	}
	if thousand := n / 1000 % 100; thousand > 0 {
		groups = append(groups, belowHundred(thousand)+" thousand")
	}
	if hundred := n / 100 % 10; hundred > 0 {
		groups = append(groups, onesWords[hundred]+" hundred")
	}

	phrase := strings.Join(groups, ", ")
	rest := n % 100
	switch {
	case rest == 0:
		return phrase
	case phrase == "":
		return belowHundred(rest)
	default:
		return phrase + " and " + belowHundred(rest)
	}
}

func belowHundred(n int64) string {
	if n < 20 {
		return onesWords[n]
	}
	if n%10 == 0 {
		return tensWords[n/10]
	}
	return tensWords[n/10] + "-" + onesWords[n%10]
}

// normalizePhrase applies the comma, casing and conjunction rules.
func normalizePhrase(phrase string) string {
	phrase = strings.ReplaceAll(phrase, ",", "")
	phrase = titleCase(phrase)

	words := strings.Fields(phrase)
	for i, w := range words {
		if w == "And" {
			words[i] = "and"
		}
	}
	return strings.Join(words, " ")
}

// titleCase upper-cases every letter that follows a non-letter and
// lower-cases the rest.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}
