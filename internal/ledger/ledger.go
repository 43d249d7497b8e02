// =============================================================================
// Challan Generator - Batch Ledger
// =============================================================================
//
// The ledger is the ordered list of receipts of one batch. It owns the serial
// numbering: the record at position i always carries serial start + i, so the
// run of challan numbers stays contiguous after every add and delete.
//
// Every mutation either applies completely or leaves the ledger untouched.
//
// =============================================================================

package ledger

import (
	"fmt"

	"github.com/ginjaninja78/challan-generator/internal/apperror"
	"github.com/ginjaninja78/challan-generator/internal/money"
	"github.com/ginjaninja78/challan-generator/internal/types"
	"github.com/google/uuid"
)

// Ledger is the ordered record store of a batch.
type Ledger struct {
	start     int
	formatter money.Formatter
	records   []types.ReceiptRecord
}

// New creates an empty ledger numbering from start. The formatter is the
// amount policy used by EditAmount.
func New(start int, formatter money.Formatter) *Ledger {
	return &Ledger{start: start, formatter: formatter}
}

// Append stores record at the end, assigning a fresh id and the next serial.
func (l *Ledger) Append(record types.ReceiptRecord) types.ReceiptRecord {
	record.ID = uuid.NewString()
	record.Serial = l.NextSerial()
	l.records = append(l.records, record)
	return record
}

// Delete removes the record with id and renumbers the records after it.
func (l *Ledger) Delete(id string) error {
	idx := l.indexOf(id)
	if idx < 0 {
		return apperror.NewRecordNotFound(id)
	}

	records := make([]types.ReceiptRecord, 0, len(l.records)-1)
	records = append(records, l.records[:idx]...)
	records = append(records, l.records[idx+1:]...)
	for i := idx; i < len(records); i++ {
		records[i].Serial = l.start + i
	}

	l.records = records
	return nil
}

// EditAmount replaces the amount of a record. The display and words are
// re-derived from the new amount and written together with it.
//
// ERRORS:
//   - RECORD_NOT_FOUND for an unknown id
//   - VALIDATION_ERROR when raw is negative, non-numeric, or has more
//     decimals than the formatter policy allows
func (l *Ledger) EditAmount(id, raw string) (types.ReceiptRecord, error) {
	idx := l.indexOf(id)
	if idx < 0 {
		return types.ReceiptRecord{}, apperror.NewRecordNotFound(id)
	}

	amount, err := l.formatter.ParseAmount(raw)
	if err != nil {
		return types.ReceiptRecord{}, err
	}

	rendered, err := l.formatter.Render(amount)
	if err != nil {
		return types.ReceiptRecord{}, err
	}

	updated := l.records[idx]
	updated.Amount = rendered.Amount
	updated.AmountDisplay = rendered.Display
	updated.AmountWords = rendered.Words

	l.records[idx] = updated
	return updated, nil
}

// All returns a copy of the records in serial order.
func (l *Ledger) All() []types.ReceiptRecord {
	out := make([]types.ReceiptRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Get returns the record with id.
func (l *Ledger) Get(id string) (types.ReceiptRecord, error) {
	idx := l.indexOf(id)
	if idx < 0 {
		return types.ReceiptRecord{}, apperror.NewRecordNotFound(id)
	}
	return l.records[idx], nil
}

// BySerial returns the record currently numbered serial.
func (l *Ledger) BySerial(serial int) (types.ReceiptRecord, error) {
	pos := serial - l.start
	if pos < 0 || pos >= len(l.records) {
		return types.ReceiptRecord{}, apperror.NewRecordNotFound(fmt.Sprintf("serial %d", serial))
	}
	return l.records[pos], nil
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	return len(l.records)
}

// NextSerial returns the serial the next appended record will get.
func (l *Ledger) NextSerial() int {
	return l.start + len(l.records)
}

// StartNumber returns the first serial of the batch.
func (l *Ledger) StartNumber() int {
	return l.start
}

func (l *Ledger) indexOf(id string) int {
	for i, r := range l.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// checkSerials reports the first record whose serial breaks the run.
func (l *Ledger) checkSerials() error {
	for i, r := range l.records {
		if r.Serial != l.start+i {
			return fmt.Errorf("record %s at position %d has serial %d, want %d", r.ID, i, r.Serial, l.start+i)
		}
	}
	return nil
}
