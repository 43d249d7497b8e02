package period_test

import (
	"testing"
	"time"

	"github.com/ginjaninja78/challan-generator/internal/apperror"
	"github.com/ginjaninja78/challan-generator/internal/period"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource is a tiny in-memory period.Source.
type fakeSource struct {
	consumers []string
	names     []string
	columns   []period.MonthYear
	cells     [][]string
}

func (s *fakeSource) FindRow(consumerNumber string) (int, bool) {
	for i, c := range s.consumers {
		if c == consumerNumber {
			return i, true
		}
	}
	return 0, false
}

func (s *fakeSource) ColumnFor(m period.MonthYear) (period.ColumnID, bool) {
	for i, c := range s.columns {
		if c == m {
			return period.ColumnID(i), true
		}
	}
	return 0, false
}

func (s *fakeSource) Name(row int) string { return s.names[row] }

func (s *fakeSource) Value(row int, col period.ColumnID) string { return s.cells[row][col] }

func my(month time.Month, year int) period.MonthYear {
	return period.MonthYear{Month: month, Year: year}
}

func TestParseLabel(t *testing.T) {
	tests := []struct {
		in   string
		want period.MonthYear
		ok   bool
	}{
		{"Nov-25", my(time.November, 2025), true},
		{"Nov 25", my(time.November, 2025), true},
		{"NOV25", my(time.November, 2025), true},
		{"Sept-2026", my(time.September, 2026), true},
		{"November 2025", my(time.November, 2025), true},
		{"11/2025", my(time.November, 2025), true},
		{"2026-02", my(time.February, 2026), true},
		{"Amount", period.MonthYear{}, false},
		{"13/2025", period.MonthYear{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := period.ParseLabel(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestPeriod_MonthsWrapYear(t *testing.T) {
	p, err := period.Range(my(time.November, 2025), my(time.February, 2026))
	require.NoError(t, err)

	assert.Equal(t, []period.MonthYear{
		my(time.November, 2025),
		my(time.December, 2025),
		my(time.January, 2026),
		my(time.February, 2026),
	}, p.Months())
}

func TestRange_RejectsReversed(t *testing.T) {
	_, err := period.Range(my(time.March, 2026), my(time.January, 2026))
	assert.Error(t, err)
}

func TestPeriod_Labels(t *testing.T) {
	single := period.Single(my(time.November, 2025))
	assert.Equal(t, "November 2025", single.Label())
	assert.Equal(t, "November", single.MonthText())
	assert.Equal(t, "2025", single.YearText())

	sameYear, err := period.Range(my(time.January, 2026), my(time.February, 2026))
	require.NoError(t, err)
	assert.Equal(t, "January, February - 2026", sameYear.Label())
	assert.Equal(t, "January, February", sameYear.MonthText())

	crossYear, err := period.Range(my(time.November, 2025), my(time.February, 2026))
	require.NoError(t, err)
	assert.Equal(t, "November, December - 2025 and January, February - 2026", crossYear.Label())
	assert.Equal(t, crossYear.Label(), crossYear.MonthText())
	assert.Equal(t, "2025-2026", crossYear.YearText())
}

func TestResolve_RangeAcrossYearBoundary(t *testing.T) {
	src := &fakeSource{
		consumers: []string{"007"},
		names:     []string{"Asha Traders"},
		// December 2025 has no column at all.
		columns: []period.MonthYear{my(time.November, 2025), my(time.January, 2026), my(time.February, 2026)},
		cells:   [][]string{{"500", "300", "200"}},
	}

	p, err := period.Range(my(time.November, 2025), my(time.February, 2026))
	require.NoError(t, err)

	res, err := period.Resolve(src, "007", p)
	require.NoError(t, err)

	assert.True(t, res.Found())
	assert.True(t, res.Due())
	assert.Equal(t, "Asha Traders", res.ConsumerName)
	assert.True(t, res.Total.Equal(decimal.NewFromInt(1000)), res.Total.String())
	assert.Equal(t, []period.MonthYear{my(time.December, 2025)}, res.MissingPeriods)
	assert.Len(t, res.Months, 4)
}

func TestResolve_EmptyCellsCountAsZero(t *testing.T) {
	src := &fakeSource{
		consumers: []string{"001"},
		names:     []string{"Ravi"},
		columns:   []period.MonthYear{my(time.January, 2026)},
		cells:     [][]string{{""}},
	}

	res, err := period.Resolve(src, "001", period.Single(my(time.January, 2026)))
	require.NoError(t, err)
	assert.True(t, res.Found())
	assert.False(t, res.Due())
	assert.True(t, res.Total.IsZero())
}

func TestResolve_Errors(t *testing.T) {
	src := &fakeSource{
		consumers: []string{"001"},
		names:     []string{"Ravi"},
		columns:   []period.MonthYear{my(time.January, 2026)},
		cells:     [][]string{{"100"}},
	}

	_, err := period.Resolve(src, "999", period.Single(my(time.January, 2026)))
	assert.True(t, apperror.IsConsumerNotFound(err))

	_, err = period.Resolve(src, "001", period.Single(my(time.March, 2026)))
	assert.True(t, apperror.IsColumnNotFound(err))

	p, err := period.Range(my(time.March, 2026), my(time.April, 2026))
	require.NoError(t, err)
	_, err = period.Resolve(src, "001", p)
	assert.True(t, apperror.IsColumnNotFound(err))
}

func TestResolve_NonNumericCellIsNeverNoPaymentDue(t *testing.T) {
	mar := period.MustParseLabel("Mar-26")
	apr := period.MustParseLabel("Apr-26")
	src := &fakeSource{
		consumers: []string{"007"},
		names:     []string{"Asha"},
		columns:   []period.MonthYear{mar, apr},
		cells:     [][]string{{"abc", "250"}},
	}

	res, err := period.Resolve(src, "007", period.Single(mar))
	require.NoError(t, err)
	assert.True(t, res.Found())
	assert.False(t, res.Due())
	assert.Equal(t, []period.MonthYear{mar}, res.InvalidCells)
	require.Len(t, res.Months, 1)
	assert.True(t, res.Months[0].Invalid)
	assert.Equal(t, "abc", res.Months[0].Raw)

	err = res.Unreadable()
	require.Error(t, err)
	assert.True(t, apperror.IsFormat(err))
	assert.Contains(t, err.Error(), "'abc' is not a valid amount")

	p, err := period.Range(mar, apr)
	require.NoError(t, err)
	res, err = period.Resolve(src, "007", p)
	require.NoError(t, err)
	assert.False(t, res.Due(), "a known 250 does not hide the unreadable March cell")
	assert.True(t, res.Total.Equal(decimal.NewFromInt(250)))
	assert.Error(t, res.Unreadable())
}

func TestResolve_EmptyAndNumericCellsAreReadable(t *testing.T) {
	jan := period.MustParseLabel("Jan-26")
	src := &fakeSource{
		consumers: []string{"001"},
		names:     []string{"Ravi"},
		columns:   []period.MonthYear{jan},
		cells:     [][]string{{" 1,500 "}},
	}

	res, err := period.Resolve(src, "001", period.Single(jan))
	require.NoError(t, err)
	assert.NoError(t, res.Unreadable())
	assert.Empty(t, res.InvalidCells)
	assert.True(t, res.Due())
}
