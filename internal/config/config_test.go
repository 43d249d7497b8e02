package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMainConfig_FileAndDefaults(t *testing.T) {
	path := writeFile(t, "config.yaml", `
data_file: ./dues.csv
format: XML
start_number: 250
layout:
  consumer_column: Consumer No
  delimiter: ";"
`)

	cfg, err := LoadMainConfig(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "./dues.csv", cfg.DataFile)
	assert.Equal(t, "xml", cfg.Format)
	assert.Equal(t, 250, cfg.StartNumber)
	assert.Equal(t, "./output", cfg.OutputDir)
	assert.Equal(t, "challans_{timestamp}", cfg.OutputName)
	assert.Equal(t, "info", cfg.LogLevel)

	layout := cfg.TabularLayout()
	assert.Equal(t, "Consumer No", layout.ConsumerColumn)
	assert.Equal(t, "Name", layout.NameColumn)
	assert.Equal(t, ";", layout.Delimiter)
	assert.Equal(t, "auto", layout.Mode)
}

func TestLoadMainConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("CHALLAN_START_NUMBER", "42")
	t.Setenv("CHALLAN_LAYOUT_NAME_COLUMN", "Consumer Name")

	path := writeFile(t, "config.yaml", "start_number: 7\n")
	cfg, err := LoadMainConfig(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 42, cfg.StartNumber)
	assert.Equal(t, "Consumer Name", cfg.Layout.NameColumn)
}

func TestLoadMainConfig_MissingDefaultFileIsFine(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadMainConfig(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "./Book.xlsx", cfg.DataFile)
	assert.Equal(t, 1, cfg.StartNumber)
}

func TestLoadMainConfig_Errors(t *testing.T) {
	_, err := LoadMainConfig(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)

	bad := writeFile(t, "config.yaml", "format: pdf\nstart_number: -3\nlayout:\n  mode: diagonal\n")
	_, err = LoadMainConfig(viper.New(), bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format 'pdf'")
	assert.Contains(t, err.Error(), "start_number -3")
	assert.Contains(t, err.Error(), "layout.mode 'diagonal'")
}

func TestParseEntries(t *testing.T) {
	file, err := ParseEntries([]byte(`
session:
  start_number: 100
  only_suffix: true
entries:
  - consumer: "7"
    from: Nov-25
    to: Feb-26
    instrument_type: cheque
    instrument_number: "004321"
    instrument_date: 01/11/2025
    bank: Canara Bank
  - consumer: "12"
    from: Jan-26
    amount: "1500"
`))
	require.NoError(t, err)
	require.Len(t, file.Entries, 2)
	assert.Equal(t, "004321", file.Entries[0].InstrumentNumber)
	assert.Equal(t, "consumer 7 (Nov-25..Feb-26)", file.Entries[0].Label())
	assert.Equal(t, "1500", file.Entries[1].Amount)

	settings := file.Session.Apply(BatchSettings{StartNumber: 1, PaymentDate: "01/03/2026", KeepDecimals: true})
	assert.Equal(t, BatchSettings{StartNumber: 100, PaymentDate: "01/03/2026", KeepDecimals: true, OnlySuffix: true}, settings)
}

func TestParseEntries_Errors(t *testing.T) {
	for _, doc := range []string{
		"entries: []\n",
		"entries:\n  - from: Nov-25\n",
		"entries:\n  - consumer: \"1\"\n",
		"entries: [\n",
	} {
		_, err := ParseEntries([]byte(doc))
		assert.Error(t, err, doc)
	}
}
