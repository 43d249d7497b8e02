package period

import (
	"strings"

	"github.com/ginjaninja78/challan-generator/internal/apperror"
	"github.com/ginjaninja78/challan-generator/internal/money"
	"github.com/shopspring/decimal"
)

// ColumnID identifies a column of a Source.
type ColumnID int

// Source is the read-only tabular data the resolver queries.
//
// ColumnFor is the only place that knows how period columns are represented
// (abbreviated label or date-typed header); callers never branch on it.
type Source interface {
	// FindRow returns the row of an already normalized consumer number.
	FindRow(consumerNumber string) (row int, ok bool)

	// ColumnFor returns the column holding amounts for m.
	ColumnFor(m MonthYear) (ColumnID, bool)

	// Name returns the consumer name on row.
	Name(row int) string

	// Value returns the raw cell text at row and col.
	Value(row int, col ColumnID) string
}

// MonthAmount is the resolved amount of one month of a period.
type MonthAmount struct {
	Month  MonthYear
	Amount decimal.Decimal

	// Matched is false when the data source has no column for the month.
	Matched bool

	// Raw is the cell text. An empty cell counts as zero.
	Raw string

	// Invalid is set when Raw is not empty and is not a number. The month
	// then contributes zero to Total and is listed in InvalidCells.
	Invalid bool
}

// Resolution is the outcome of a successful lookup.
type Resolution struct {
	ConsumerNumber string
	ConsumerName   string
	Period         Period
	Months         []MonthAmount
	MissingPeriods []MonthYear
	InvalidCells   []MonthYear
	Total          decimal.Decimal

	found bool
}

// Found reports whether the resolution came from a successful Resolve.
func (r Resolution) Found() bool {
	return r.found
}

// Due reports whether there is something to pay. A found resolution with a
// zero total means "no payment due", which is not an error. A resolution with
// an unreadable cell is never due; its total is not known.
func (r Resolution) Due() bool {
	return r.found && len(r.InvalidCells) == 0 && r.Total.IsPositive()
}

// Unreadable returns a FORMAT_ERROR naming the first non-numeric cell, or
// nil when every matched cell held a number or nothing.
func (r Resolution) Unreadable() error {
	for _, m := range r.Months {
		if !m.Invalid {
			continue
		}
		labels := make([]string, len(r.InvalidCells))
		for i, c := range r.InvalidCells {
			labels[i] = c.String()
		}
		return apperror.NewFormat(strings.TrimSpace(m.Raw), nil).
			WithDetail("consumer_number", r.ConsumerNumber).
			WithDetail("periods", labels)
	}
	return nil
}

// Resolve looks up consumerNumber and sums its amounts over every month of p.
//
// ERRORS:
//   - CONSUMER_NOT_FOUND when no row matches.
//   - COLUMN_NOT_FOUND when a single-month period has no column, or when no
//     month of a range has one. Unmatched months inside a range count as
//     zero and are listed in MissingPeriods.
//
// A matched cell holding text that is not a number is not an error here; it
// is flagged on its MonthAmount and listed in InvalidCells (see Unreadable).
func Resolve(src Source, consumerNumber string, p Period) (Resolution, error) {
	row, ok := src.FindRow(consumerNumber)
	if !ok {
		return Resolution{}, apperror.NewConsumerNotFound(consumerNumber)
	}

	res := Resolution{
		ConsumerNumber: consumerNumber,
		ConsumerName:   src.Name(row),
		Period:         p,
		Total:          decimal.Zero,
	}

	matched := 0
	for _, m := range p.Months() {
		entry := MonthAmount{Month: m, Amount: decimal.Zero}

		col, ok := src.ColumnFor(m)
		if !ok {
			res.MissingPeriods = append(res.MissingPeriods, m)
			res.Months = append(res.Months, entry)
			continue
		}

		matched++
		entry.Matched = true
		entry.Raw = src.Value(row, col)
		if strings.TrimSpace(entry.Raw) != "" {
			if amount, err := money.ParseRaw(entry.Raw); err == nil {
				entry.Amount = amount
			} else {
				entry.Invalid = true
				res.InvalidCells = append(res.InvalidCells, m)
			}
		}

		res.Total = res.Total.Add(entry.Amount)
		res.Months = append(res.Months, entry)
	}

	if matched == 0 {
		labels := make([]string, len(res.MissingPeriods))
		for i, m := range res.MissingPeriods {
			labels[i] = m.String()
		}
		return Resolution{}, apperror.NewColumnNotFound(labels...).
			WithDetail("consumer_number", consumerNumber)
	}

	res.found = true
	return res, nil
}
