package money

import (
	"strings"

	"github.com/ginjaninja78/challan-generator/internal/apperror"
	"github.com/shopspring/decimal"
)

// Formatter is the single amount policy of a session. Display and words are
// always produced from the same normalized value so they cannot disagree.
type Formatter struct {
	// KeepDecimals keeps two decimal places (rounded). When false, amounts
	// are truncated to whole units.
	KeepDecimals bool

	// OnlySuffix appends " Only" to the words.
	OnlySuffix bool
}

// Rendered is an amount together with its derived display fields.
type Rendered struct {
	Amount  decimal.Decimal
	Display string
	Words   string
}

// Normalize applies the decimal policy to amount.
func (f Formatter) Normalize(amount decimal.Decimal) decimal.Decimal {
	if f.KeepDecimals {
		return amount.Round(2)
	}
	return amount.Truncate(0)
}

// Display returns the Indian-grouped rendering of the normalized amount.
func (f Formatter) Display(amount decimal.Decimal) string {
	return FormatIndian(f.Normalize(amount), f.KeepDecimals)
}

// Words returns the word rendering of the normalized amount. With decimals
// kept and a non-zero fraction the rupee part is named explicitly
// ("Twelve Rupees and Fifty Paise") so it cannot run into the paise.
func (f Formatter) Words(amount decimal.Decimal) (string, error) {
	amount = f.Normalize(amount)

	words, err := ToWords(amount)
	if err != nil {
		return "", err
	}

	if f.KeepDecimals {
		paise := amount.Sub(amount.Truncate(0)).Shift(2).IntPart()
		if paise > 0 {
			if amount.LessThan(decimal.NewFromInt(1)) {
				words = paiseWords(paise)
			} else {
				words += " Rupees and " + paiseWords(paise)
			}
		}
	}

	if f.OnlySuffix {
		words += " Only"
	}
	return words, nil
}

// Render normalizes amount and derives both display fields from it.
func (f Formatter) Render(amount decimal.Decimal) (Rendered, error) {
	amount = f.Normalize(amount)

	words, err := f.Words(amount)
	if err != nil {
		return Rendered{}, err
	}

	return Rendered{
		Amount:  amount,
		Display: FormatIndian(amount, f.KeepDecimals),
		Words:   words,
	}, nil
}

// ParseAmount parses an operator-entered amount. Whole-number mode rejects
// fractions; decimal mode allows at most two places. Negative or non-numeric
// input fails with a VALIDATION_ERROR.
func (f Formatter) ParseAmount(raw string) (decimal.Decimal, error) {
	amount, err := ParseRaw(raw)
	if err != nil {
		return decimal.Zero, amountViolation(raw, "numeric", "amount must be a number")
	}

	if amount.IsNegative() {
		return decimal.Zero, amountViolation(raw, "min", "amount must not be negative")
	}

	if f.KeepDecimals {
		if !amount.Equal(amount.Round(2)) {
			return decimal.Zero, amountViolation(raw, "decimals", "amount may have at most two decimal places")
		}
	} else if !amount.IsInteger() {
		return decimal.Zero, amountViolation(raw, "whole", "amount must be a whole number")
	}

	return amount, nil
}

func amountViolation(raw, rule, message string) error {
	return apperror.NewValidation("invalid amount", apperror.Violation{
		Field:   "amount",
		Rule:    rule,
		Value:   strings.TrimSpace(raw),
		Message: message,
	})
}
