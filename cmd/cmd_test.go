package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/challan-generator/internal/apperror"
	"github.com/ginjaninja78/challan-generator/internal/config"
	"github.com/ginjaninja78/challan-generator/internal/render"
	"github.com/ginjaninja78/challan-generator/internal/session"
	"github.com/ginjaninja78/challan-generator/internal/tabular"
	"github.com/ginjaninja78/challan-generator/pkg/logger"
	"github.com/ginjaninja78/challan-generator/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const book = "Consumer Number,Name,Nov-25,Jan-26,Feb-26\n" +
	"7,Asha Traders,500,300,200\n" +
	"12,Ravi,1200.75,,\n"

func newTestHandler(t *testing.T) *session.Handler {
	t.Helper()
	table, err := tabular.ParseCSV(strings.NewReader(book), tabular.DefaultLayout())
	require.NoError(t, err)
	return session.NewHandler(table, &render.XML{Options: render.DefaultXMLOptions()}, nil)
}

func withConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	appConfig = &config.MainConfig{StartNumber: 1, OutputDir: dir, OutputName: "batch_{first}"}
	log = logger.Nop()
	t.Cleanup(func() { appConfig, log = nil, nil })
	return dir
}

func TestSplitArgs(t *testing.T) {
	args, err := splitArgs(`add 7 Nov-25 --bank "Canara Bank" --number '004321'`)
	require.NoError(t, err)
	assert.Equal(t, []string{"add", "7", "Nov-25", "--bank", "Canara Bank", "--number", "004321"}, args)

	args, err = splitArgs(`  edit\ 1 "a b"  `)
	require.NoError(t, err)
	assert.Equal(t, []string{"edit 1", "a b"}, args)

	args, err = splitArgs("")
	require.NoError(t, err)
	assert.Empty(t, args)

	_, err = splitArgs(`add "Canara`)
	assert.Error(t, err)
	_, err = splitArgs(`add \`)
	assert.Error(t, err)
}

func TestPromptSession(t *testing.T) {
	dir := withConfig(t)

	var out bytes.Buffer
	p := &prompt{
		handler: newTestHandler(t),
		session: session.New(),
		files:   utils.NewFileManager(dir, appConfig.OutputName),
		out:     &out,
	}

	script := strings.Join([]string{
		"search 7 Nov-25",
		"setup --start 100 --date 02/03/2026",
		"search 7 Nov-25 Feb-26",
		`add 7 Nov-25 Feb-26 --number 004321 --date 01/11/2025 --bank "Canara Bank"`,
		"add 12 Nov-25 --type dd --number 000777 --date 05/11/2025 --bank SBI",
		"add 99 Nov-25 --number 000001 --date 05/11/2025 --bank SBI",
		"list",
		"delete 100",
		"edit 100 1500",
		"finalize",
		"quit",
		"list",
	}, "\n")

	require.NoError(t, p.loop(strings.NewReader(script)))
	text := out.String()

	assert.Contains(t, text, "Error: search is not allowed while the session is new")
	assert.Contains(t, text, "Batch starts at challan 100, payment date 02.03.2026.")
	assert.Contains(t, text, "no column, counted as 0")
	assert.Contains(t, text, "Total: Rs. 1,000 (One Thousand)")
	assert.Contains(t, text, "Added challan 100: Asha Traders, Rs. 1,000")
	assert.Contains(t, text, "Added challan 101: Ravi, Rs. 1,200")
	assert.Contains(t, text, "Error: consumer 099 not found")
	assert.Contains(t, text, "CHALLAN")
	assert.Contains(t, text, "Cheque 004321 (01.11.2025)")
	assert.Contains(t, text, "Deleted challan 100 (Asha Traders). 1 receipts remain.")
	assert.Contains(t, text, "Challan 100 now Rs. 1,500 (One Thousand Five Hundred)")
	assert.Contains(t, text, "Wrote 1 receipts to")
	assert.Equal(t, session.StateDiscarded, p.session.State())

	data, err := os.ReadFile(filepath.Join(dir, "batch_100.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<name>Ravi</name>")
	assert.Contains(t, string(data), "<amount>1,500</amount>")

	schema, err := os.ReadFile(filepath.Join(dir, "batch_100.xsd"))
	require.NoError(t, err)
	assert.Contains(t, string(schema), `<xs:element name="receipt">`)
}

func TestRunEntries(t *testing.T) {
	withConfig(t)

	entries := []config.Entry{
		{Consumer: "7", From: "Nov-25", To: "Feb-26", InstrumentType: "cheque", InstrumentNumber: "004321", InstrumentDate: "01/11/2025", Bank: "Canara Bank"},
		{Consumer: "12", From: "Nov-25", InstrumentType: "cheque", InstrumentNumber: "12", InstrumentDate: "01/11/2025", Bank: "SBI"},
		{Consumer: "12", From: "Nov-25", InstrumentType: "dd", InstrumentNumber: "000777", InstrumentDate: "05/11/2025", Bank: "SBI", Amount: "1250"},
		{Consumer: "7", From: "Jan-26", InstrumentType: "cheque", InstrumentNumber: "004322", InstrumentDate: "01/01/2026", Bank: "Canara Bank", Amount: "abc"},
	}

	var out bytes.Buffer
	result, err := runEntries(newTestHandler(t), config.BatchSettings{StartNumber: 40, PaymentDate: "02/03/2026"}, entries, &out)
	require.NoError(t, err)

	require.Len(t, result.records, 2)
	assert.Equal(t, 40, result.records[0].Serial)
	assert.Equal(t, 41, result.records[1].Serial)
	assert.Equal(t, "1,250", result.records[1].AmountDisplay)

	require.Len(t, result.failures, 2)
	assert.Equal(t, 2, result.failures[0].EntryIndex)
	assert.Equal(t, "VALIDATION_ERROR", result.failures[0].ErrorCode)
	assert.Equal(t, 4, result.failures[1].EntryIndex)
	assert.Equal(t, "VALIDATION_ERROR", result.failures[1].ErrorCode)
	assert.Equal(t, []string{"amount: amount must be a number (value: 'abc')"}, result.failures[1].Details)

	require.NotNil(t, result.document)
	assert.Equal(t, 2, result.document.Records)
	assert.Equal(t, "2,250", totalAmount(result.records, false))
}

func TestRunEntries_NothingAdded(t *testing.T) {
	withConfig(t)

	entries := []config.Entry{{Consumer: "55", From: "Nov-25"}}
	result, err := runEntries(newTestHandler(t), config.BatchSettings{StartNumber: 1, PaymentDate: "02/03/2026"}, entries, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Empty(t, result.records)
	assert.Nil(t, result.document)
	require.Len(t, result.failures, 1)
	assert.Equal(t, "CONSUMER_NOT_FOUND", result.failures[0].ErrorCode)

	_, err = runEntries(newTestHandler(t), config.BatchSettings{StartNumber: 0, PaymentDate: "02/03/2026"}, entries, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestDescribeError(t *testing.T) {
	withConfig(t)
	h := newTestHandler(t)
	s := session.New()

	err := h.Configure(s, session.ConfigureRequest{StartNumber: 0, PaymentDate: "31/02/2026"})
	require.Error(t, err)

	text := describeError(err)
	lines := strings.Split(text, "\n")
	assert.GreaterOrEqual(t, len(lines), 3)
	assert.True(t, strings.HasPrefix(lines[1], "  - "))
}

func TestAddEntry_BadAmountLeavesLedgerUntouched(t *testing.T) {
	withConfig(t)
	h := newTestHandler(t)
	s := session.New()
	require.NoError(t, h.Configure(s, session.ConfigureRequest{StartNumber: 10, PaymentDate: "02/03/2026"}))

	entry := config.Entry{
		Consumer: "7", From: "Jan-26", InstrumentType: "cheque", InstrumentNumber: "004322",
		InstrumentDate: "01/01/2026", Bank: "Canara Bank",
	}

	for _, amount := range []string{"abc", "-5", "10.5"} {
		entry.Amount = amount
		_, err := addEntry(h, s, entry)
		assert.True(t, apperror.IsValidation(err), amount)
		assert.Equal(t, 0, s.Len(), amount)
		assert.Equal(t, session.StateConfigured, s.State(), amount)
	}

	entry.Amount = "1,250"
	record, err := addEntry(h, s, entry)
	require.NoError(t, err)
	assert.Equal(t, 10, record.Serial)
	assert.Equal(t, "1,250", record.AmountDisplay)
}
