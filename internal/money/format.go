// =============================================================================
// Challan Generator - Currency Formatter
// =============================================================================
//
// Indian digit grouping: the last three digits of the integer part form one
// group and every preceding digit is grouped in pairs.
//
//   999       -> 999
//   1000      -> 1,000
//   123456    -> 1,23,456
//   1234567   -> 12,34,567
//
// Decimals are only printed when requested. Otherwise the value is truncated
// to whole units, never rounded.
//
// =============================================================================

package money

import (
	"strings"

	"github.com/ginjaninja78/challan-generator/internal/apperror"
	"github.com/shopspring/decimal"
)

// FormatIndian renders amount with Indian digit grouping.
func FormatIndian(amount decimal.Decimal, keepDecimals bool) string {
	negative := amount.IsNegative()
	abs := amount.Abs()

	var intPart, fracPart string
	if keepDecimals {
		fixed := abs.StringFixed(2)
		intPart, fracPart, _ = strings.Cut(fixed, ".")
	} else {
		intPart = abs.Truncate(0).String()
	}

	out := groupIndian(intPart)
	if keepDecimals {
		out += "." + fracPart
	}
	if negative && !isAllZero(out) {
		out = "-" + out
	}
	return out
}

// FormatIndianString parses raw and renders it with Indian digit grouping.
// Thousand separators and surrounding whitespace in raw are ignored.
func FormatIndianString(raw string, keepDecimals bool) (string, error) {
	amount, err := ParseRaw(raw)
	if err != nil {
		return "", err
	}
	return FormatIndian(amount, keepDecimals), nil
}

// FormatOrRaw is FormatIndianString that falls back to the trimmed raw input
// when it is not a number. It never fails.
func FormatOrRaw(raw string, keepDecimals bool) string {
	out, err := FormatIndianString(raw, keepDecimals)
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return out
}

// ParseRaw converts a loosely formatted amount ("1,500", " 200.50 ") into a
// decimal. Non-numeric input fails with a FORMAT_ERROR.
func ParseRaw(raw string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return decimal.Zero, apperror.NewFormat(raw, nil)
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, apperror.NewFormat(raw, err)
	}
	return amount, nil
}

// groupIndian inserts commas into a plain digit string.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head, last := digits[:len(digits)-3], digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append(groups, head[len(head)-2:])
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append(groups, head)
	}

	// groups were peeled right to left.
	for i, j := 0, len(groups)-1; i < j; i, j = i+1, j-1 {
		groups[i], groups[j] = groups[j], groups[i]
	}

	return strings.Join(groups, ",") + "," + last
}

func isAllZero(s string) bool {
	for _, r := range s {
		if r != '0' && r != ',' && r != '.' {
			return false
		}
	}
	return true
}
