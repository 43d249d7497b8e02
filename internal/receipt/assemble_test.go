package receipt_test

import (
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/challan-generator/internal/apperror"
	"github.com/ginjaninja78/challan-generator/internal/money"
	"github.com/ginjaninja78/challan-generator/internal/period"
	"github.com/ginjaninja78/challan-generator/internal/receipt"
	"github.com/ginjaninja78/challan-generator/internal/tabular"
	"github.com/ginjaninja78/challan-generator/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const book = "Consumer Number,Name,Nov-25,Jan-26,Feb-26\n" +
	"7,Asha Traders,500,300,200\n" +
	"8,Idle Co,0,,\n"

func resolve(t *testing.T, consumer, from, to string) period.Resolution {
	t.Helper()

	table, err := tabular.ParseCSV(strings.NewReader(book), tabular.DefaultLayout())
	require.NoError(t, err)
	p, err := period.Parse(from, to)
	require.NoError(t, err)
	res, err := period.Resolve(table, consumer, p)
	require.NoError(t, err)
	return res
}

func instrument(t *testing.T, consumer string) validation.Instrument {
	t.Helper()

	inst, err := validation.New().Validate(validation.Input{
		ConsumerNumber:   consumer,
		InstrumentType:   "dd",
		InstrumentNumber: "004321",
		InstrumentDate:   "2025-11-03",
		BankName:         "Canara Bank",
	})
	require.NoError(t, err)
	return inst
}

var paymentDate = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

func TestAssemble_CrossYearRange(t *testing.T) {
	rec, err := receipt.Assemble(receipt.Parts{
		Resolution:  resolve(t, "007", "Nov-25", "Feb-26"),
		Instrument:  instrument(t, "007"),
		Formatter:   money.Formatter{OnlySuffix: true},
		PaymentDate: paymentDate,
		Serial:      100,
	})
	require.NoError(t, err)

	assert.Equal(t, 100, rec.Serial)
	assert.Equal(t, "Asha Traders", rec.ConsumerName)
	assert.Equal(t, "007", rec.ConsumerNumber)
	assert.Equal(t, "November, December - 2025 and January, February - 2026", rec.PeriodLabel)
	assert.Equal(t, "2025-2026", rec.YearText)
	assert.Equal(t, "1,000", rec.AmountDisplay)
	assert.Equal(t, "One Thousand Only", rec.AmountWords)
	assert.Equal(t, "Demand Draft", rec.InstrumentType)
	assert.Equal(t, "004321", rec.InstrumentNumber)
	assert.Equal(t, "03.11.2025", rec.InstrumentDate)
	assert.Equal(t, "02.03.2026", rec.PaymentDate)
	assert.Empty(t, rec.ID)

	fields := rec.Fields()
	assert.Equal(t, "100", fields["challan"])
	assert.Equal(t, "1,000", fields["amount"])
	assert.Equal(t, "Canara Bank", fields["bank"])
}

func TestAssemble_PaymentDateOverride(t *testing.T) {
	rec, err := receipt.Assemble(receipt.Parts{
		Resolution:          resolve(t, "007", "Nov-25", ""),
		Instrument:          instrument(t, "007"),
		PaymentDate:         paymentDate,
		PaymentDateOverride: time.Date(2026, time.April, 9, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "09.04.2026", rec.PaymentDate)
	assert.Equal(t, "November 2025", rec.PeriodLabel)
}

func TestAssemble_RejectsIncompleteParts(t *testing.T) {
	good := receipt.Parts{
		Resolution:  resolve(t, "007", "Nov-25", ""),
		Instrument:  instrument(t, "007"),
		PaymentDate: paymentDate,
	}

	noInstrument := good
	noInstrument.Instrument = validation.Instrument{ConsumerNumber: "007", Number: "123456"}
	_, err := receipt.Assemble(noInstrument)
	assert.True(t, apperror.IsValidation(err))

	noResolution := good
	noResolution.Resolution = period.Resolution{ConsumerNumber: "007"}
	_, err = receipt.Assemble(noResolution)
	assert.True(t, apperror.IsValidation(err))

	mismatch := good
	mismatch.Instrument = instrument(t, "008")
	_, err = receipt.Assemble(mismatch)
	assert.True(t, apperror.IsValidation(err))

	noDate := good
	noDate.PaymentDate = time.Time{}
	_, err = receipt.Assemble(noDate)
	assert.True(t, apperror.IsValidation(err))
}

func TestAssemble_NoPaymentDue(t *testing.T) {
	_, err := receipt.Assemble(receipt.Parts{
		Resolution:  resolve(t, "008", "Nov-25", "Feb-26"),
		Instrument:  instrument(t, "008"),
		PaymentDate: paymentDate,
	})
	assert.True(t, apperror.IsNoPaymentDue(err))
}
