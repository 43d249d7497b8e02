package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// ENTRIES FILE STRUCTURE
// =============================================================================
//
// An entries file scripts one whole batch:
//
//   session:
//     start_number: 100
//     payment_date: 02/03/2026
//     only_suffix: true
//   entries:
//     - consumer: "7"
//       from: Nov-25
//       to: Feb-26
//       instrument_type: cheque
//       instrument_number: "004321"
//       instrument_date: 01/11/2025
//       bank: Canara Bank
//
// Session settings left out fall back to the main configuration.

// EntriesFile is one scripted batch.
type EntriesFile struct {
	Session SessionSettings `yaml:"session"`
	Entries []Entry         `yaml:"entries"`
}

// SessionSettings override the batch defaults of MainConfig.
type SessionSettings struct {
	StartNumber  *int   `yaml:"start_number"`
	PaymentDate  string `yaml:"payment_date"`
	KeepDecimals *bool  `yaml:"keep_decimals"`
	OnlySuffix   *bool  `yaml:"only_suffix"`
}

// Entry is one receipt of a scripted batch.
type Entry struct {
	Consumer         string `yaml:"consumer"`
	From             string `yaml:"from"`
	To               string `yaml:"to"`
	InstrumentType   string `yaml:"instrument_type"`
	InstrumentNumber string `yaml:"instrument_number"`
	InstrumentDate   string `yaml:"instrument_date"`
	Bank             string `yaml:"bank"`

	// PaymentDate overrides the batch payment date for this receipt.
	PaymentDate string `yaml:"payment_date"`

	// Amount replaces the looked-up total after the receipt is added.
	Amount string `yaml:"amount"`
}

// Label identifies the entry in logs and error reports.
func (e Entry) Label() string {
	period := e.From
	if strings.TrimSpace(e.To) != "" {
		period += ".." + e.To
	}
	return fmt.Sprintf("consumer %s (%s)", e.Consumer, period)
}

// =============================================================================
// BATCH SETTINGS RESOLUTION
// =============================================================================

// BatchSettings are the effective settings of one batch.
type BatchSettings struct {
	StartNumber  int
	PaymentDate  string
	KeepDecimals bool
	OnlySuffix   bool
}

// Defaults returns the batch settings of the main configuration.
func (c *MainConfig) Defaults() BatchSettings {
	return BatchSettings{
		StartNumber:  c.StartNumber,
		PaymentDate:  c.PaymentDate,
		KeepDecimals: c.KeepDecimals,
		OnlySuffix:   c.OnlySuffix,
	}
}

// Apply overlays the settings given in the entries file onto base.
func (s SessionSettings) Apply(base BatchSettings) BatchSettings {
	if s.StartNumber != nil {
		base.StartNumber = *s.StartNumber
	}
	if strings.TrimSpace(s.PaymentDate) != "" {
		base.PaymentDate = s.PaymentDate
	}
	if s.KeepDecimals != nil {
		base.KeepDecimals = *s.KeepDecimals
	}
	if s.OnlySuffix != nil {
		base.OnlySuffix = *s.OnlySuffix
	}
	return base
}

// =============================================================================
// ENTRIES LOADING FUNCTIONS
// =============================================================================

// LoadEntries reads and checks an entries file.
//
// PARAMETERS:
//   - filePath: The path to the entries YAML file.
//
// RETURNS:
//   - A pointer to the EntriesFile struct.
//   - An error if the file cannot be read or parsed, or has no entries.
func LoadEntries(filePath string) (*EntriesFile, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read entries file: %w", err)
	}
	return ParseEntries(data)
}

// ParseEntries parses entries YAML.
func ParseEntries(data []byte) (*EntriesFile, error) {
	var file EntriesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse entries file: %w", err)
	}

	if len(file.Entries) == 0 {
		return nil, fmt.Errorf("entries file has no entries")
	}

	for i, e := range file.Entries {
		if strings.TrimSpace(e.Consumer) == "" {
			return nil, fmt.Errorf("entry %d: consumer is required", i+1)
		}
		if strings.TrimSpace(e.From) == "" {
			return nil, fmt.Errorf("entry %d: from is required", i+1)
		}
	}

	return &file, nil
}
