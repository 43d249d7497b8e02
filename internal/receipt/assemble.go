// =============================================================================
// Challan Generator - Record Assembler
// =============================================================================
//
// Assemble combines the outcome of the period lookup, the validated payment
// instrument and the session's settings into a finalized ReceiptRecord.
//
// It is a pure function: nothing is defaulted silently and nothing is stored.
// The caller appends the result to the ledger, which assigns the final id
// and serial.
//
// =============================================================================

package receipt

import (
	"time"

	"github.com/ginjaninja78/challan-generator/internal/apperror"
	"github.com/ginjaninja78/challan-generator/internal/money"
	"github.com/ginjaninja78/challan-generator/internal/period"
	"github.com/ginjaninja78/challan-generator/internal/types"
	"github.com/ginjaninja78/challan-generator/internal/validation"
)

// Parts are the inputs of one receipt.
type Parts struct {
	// Resolution must come from a successful period.Resolve with a
	// positive total.
	Resolution period.Resolution

	// Instrument must come from a successful validation.Validate.
	Instrument validation.Instrument

	// Formatter is the session's amount policy.
	Formatter money.Formatter

	// PaymentDate is the session's payment date. PaymentDateOverride, when
	// set, replaces it for this record only.
	PaymentDate         time.Time
	PaymentDateOverride time.Time

	// Serial is the serial the record will get when appended.
	Serial int
}

// Assemble builds the receipt record.
//
// ERRORS:
//   - VALIDATION_ERROR when the instrument is not validated, the lookup did
//     not succeed, the consumer numbers disagree or no payment date is set
//   - NO_PAYMENT_DUE when the resolved total is zero
func Assemble(p Parts) (types.ReceiptRecord, error) {
	if !p.Instrument.Valid() {
		return types.ReceiptRecord{}, apperror.NewValidation("instrument has not been validated")
	}
	if !p.Resolution.Found() {
		return types.ReceiptRecord{}, apperror.NewValidation("consumer lookup has not succeeded")
	}
	if p.Resolution.ConsumerNumber != p.Instrument.ConsumerNumber {
		return types.ReceiptRecord{}, apperror.NewValidation("consumer number mismatch", apperror.Violation{
			Field:   "consumer_number",
			Rule:    "match",
			Value:   p.Instrument.ConsumerNumber,
			Message: "instrument consumer number differs from looked-up consumer " + p.Resolution.ConsumerNumber,
		})
	}
	if !p.Resolution.Due() {
		return types.ReceiptRecord{}, apperror.NewNoPaymentDue(p.Resolution.ConsumerNumber, p.Resolution.Period.Label())
	}

	paymentDate := p.PaymentDate
	if !p.PaymentDateOverride.IsZero() {
		paymentDate = p.PaymentDateOverride
	}
	if paymentDate.IsZero() {
		return types.ReceiptRecord{}, apperror.NewValidation("payment date is not set")
	}

	rendered, err := p.Formatter.Render(p.Resolution.Total)
	if err != nil {
		return types.ReceiptRecord{}, err
	}
	if !rendered.Amount.IsPositive() {
		// A sub-unit total truncates to zero in whole-number mode.
		return types.ReceiptRecord{}, apperror.NewNoPaymentDue(p.Resolution.ConsumerNumber, p.Resolution.Period.Label())
	}

	billed := p.Resolution.Period
	return types.ReceiptRecord{
		Serial:           p.Serial,
		ConsumerName:     p.Resolution.ConsumerName,
		ConsumerNumber:   p.Resolution.ConsumerNumber,
		PeriodLabel:      billed.Label(),
		MonthText:        billed.MonthText(),
		YearText:         billed.YearText(),
		Amount:           rendered.Amount,
		AmountDisplay:    rendered.Display,
		AmountWords:      rendered.Words,
		InstrumentType:   string(p.Instrument.Type),
		InstrumentNumber: p.Instrument.Number,
		InstrumentDate:   p.Instrument.DateText(),
		PaymentDate:      validation.FormatDate(paymentDate),
		BankName:         p.Instrument.BankName,
	}, nil
}
