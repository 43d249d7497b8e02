// =============================================================================
// Challan Generator - Shared Types
// =============================================================================
//
// This package contains the receipt record shared by the modules that build,
// store and render receipts, so none of them has to import another:
//   - receipt  (assembles records)
//   - ledger   (orders and numbers them)
//   - render   (writes them out)
//
// =============================================================================

package types

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RECEIPT RECORD
// =============================================================================

// ReceiptRecord is one finalized receipt (challan) of a batch.
type ReceiptRecord struct {
	// ID is an opaque unique id assigned when the record joins a ledger.
	// It never changes and is never reused.
	ID string

	// Serial is the challan number. It is always start number + position.
	Serial int

	// Consumer identity, copied from the data source.
	ConsumerName   string
	ConsumerNumber string

	// PeriodLabel is the full period text, for example
	// "November, December - 2025 and January - 2026".
	PeriodLabel string

	// MonthText and YearText are the month and year parts of the period as
	// the template prints them.
	MonthText string
	YearText  string

	// Amount is the billed total. AmountDisplay and AmountWords are always
	// derived from the same Amount.
	Amount        decimal.Decimal
	AmountDisplay string
	AmountWords   string

	// Payment instrument. Dates are dd.mm.yyyy.
	InstrumentType   string
	InstrumentNumber string
	InstrumentDate   string
	PaymentDate      string
	BankName         string
}

// Template field keys.
const (
	FieldChallan     = "challan"
	FieldPaymentDate = "pdate"
	FieldName        = "name"
	FieldNumber      = "num"
	FieldMonth       = "month"
	FieldYear        = "year"
	FieldAmount      = "amount"
	FieldWords       = "words"
	FieldPayType     = "pay_type"
	FieldPayNumber   = "pay_no"
	FieldBank        = "bank"
	FieldDate        = "date"
)

// FieldOrder lists the template keys in their document order.
var FieldOrder = []string{
	FieldChallan,
	FieldPaymentDate,
	FieldName,
	FieldNumber,
	FieldMonth,
	FieldYear,
	FieldAmount,
	FieldWords,
	FieldPayType,
	FieldPayNumber,
	FieldBank,
	FieldDate,
}

// Fields returns the record keyed by template field name.
func (r ReceiptRecord) Fields() map[string]string {
	return map[string]string{
		FieldChallan:     strconv.Itoa(r.Serial),
		FieldPaymentDate: r.PaymentDate,
		FieldName:        r.ConsumerName,
		FieldNumber:      r.ConsumerNumber,
		FieldMonth:       r.MonthText,
		FieldYear:        r.YearText,
		FieldAmount:      r.AmountDisplay,
		FieldWords:       r.AmountWords,
		FieldPayType:     r.InstrumentType,
		FieldPayNumber:   r.InstrumentNumber,
		FieldBank:        r.BankName,
		FieldDate:        r.InstrumentDate,
	}
}
