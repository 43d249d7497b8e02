// =============================================================================
// Challan Generator - File Manager Utility
// =============================================================================
//
// This module provides the file handling around a batch run:
//   - Output directory management
//   - Output file naming
//   - Writing the rendered document
//   - Error log and summary generation for scripted batches
//
// OUTPUT STRATEGY:
//   - Documents are written to a temporary file first and renamed into
//     place, so a failed write never leaves a truncated document behind
//   - Existing files are never overwritten; a numeric suffix is added
//   - Error logs and summaries are created next to the document
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for batch output.
type FileManager struct {
	// OutputDir is the directory where output files are placed.
	OutputDir string

	// NamePattern is the output name pattern (see GenerateOutputFileName).
	NamePattern string
}

// NewFileManager creates a new FileManager.
func NewFileManager(outputDir, namePattern string) *FileManager {
	return &FileManager{
		OutputDir:   outputDir,
		NamePattern: namePattern,
	}
}

// EnsureDirectories creates the output directory if it doesn't exist.
func (fm *FileManager) EnsureDirectories() error {
	if err := os.MkdirAll(fm.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// WriteOutput writes a rendered document under a generated name.
//
// PARAMETERS:
//   - data: The document bytes.
//   - extension: The file extension including the dot (".xlsx").
//   - params: Extra placeholder values for the name pattern.
//
// RETURNS:
//   - The path of the written file.
//   - An error if the directory or the file cannot be written.
func (fm *FileManager) WriteOutput(data []byte, extension string, params map[string]string) (string, error) {
	if err := fm.EnsureDirectories(); err != nil {
		return "", err
	}

	name := GenerateOutputFileName(fm.NamePattern, extension, params)
	path := uniquePath(filepath.Join(fm.OutputDir, name))
	if err := writeAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// WriteCompanion writes a file that belongs to an already written document,
// such as its schema. The companion takes the document's base name with
// extension ("challans_100-112.xml" -> "challans_100-112.xsd").
//
// RETURNS:
//   - The path of the written file.
//   - An error if the file cannot be written.
func (fm *FileManager) WriteCompanion(documentPath string, data []byte, extension string) (string, error) {
	base := strings.TrimSuffix(documentPath, filepath.Ext(documentPath))
	path := uniquePath(base + extension)
	if err := writeAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// writeAtomic writes data to a temporary file in the target directory and
// renames it into place.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".challan-*"+filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close output file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move output file into place: %w", err)
	}
	return nil
}

// uniquePath appends _1, _2, ... to the base name until nothing exists
// at the path.
func uniquePath(path string) string {
	if !FileExists(path) {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		if !FileExists(candidate) {
			return candidate
		}
	}
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates a unique output file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//   - extension: Added when the name does not already end with it.
//   - params: A map of extra placeholder values ({first}, {last}, ...).
//
// EXAMPLE:
//   format: "challans_{first}-{last}_{date}"
//   params: {"first": "100", "last": "112"}
//   output: "challans_100-112_20260302.xlsx"
func GenerateOutputFileName(format, extension string, params map[string]string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	if result == "" {
		result = "{uuid}"
	}
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	result = sanitizeFileName(result)

	if extension != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(extension)) {
		result += extension
	}

	return result
}

// sanitizeFileName replaces path separators and characters Windows rejects.
func sanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}

// =============================================================================
// ERROR LOG GENERATION
// =============================================================================

// ErrorLogEntry represents a single failed entry of a scripted batch.
type ErrorLogEntry struct {
	Timestamp  time.Time
	SourceFile string
	EntryIndex int
	Entry      string
	ErrorCode  string
	Message    string
	Details    []string
}

// WriteErrorLog writes error entries to a log file.
//
// PARAMETERS:
//   - entries: The error entries to write.
//   - outputDir: The directory to write the log file.
//
// RETURNS:
//   - The path to the error log file ("" when there is nothing to write).
//   - An error if writing fails.
func WriteErrorLog(entries []ErrorLogEntry, outputDir string) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	timestamp := time.Now().Format("20060102_150405")
	logPath := uniquePath(filepath.Join(outputDir, fmt.Sprintf("error_log_%s.txt", timestamp)))

	file, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create error log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "Challan Generator - Error Log\n"+
		"Generated: %s\n"+
		"Total Errors: %d\n"+
		"================================================================================\n\n",
		time.Now().Format("2006-01-02 15:04:05"),
		len(entries))

	for i, entry := range entries {
		fmt.Fprintf(writer, "Error #%d\n"+
			"  Timestamp:      %s\n"+
			"  File:           %s\n"+
			"  Entry:          #%d %s\n"+
			"  Error Code:     %s\n"+
			"  Message:        %s\n",
			i+1,
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			entry.SourceFile,
			entry.EntryIndex,
			entry.Entry,
			entry.ErrorCode,
			entry.Message)

		for _, detail := range entry.Details {
			fmt.Fprintf(writer, "  - %s\n", detail)
		}
		writer.WriteString("\n")
	}

	writer.WriteString("================================================================================\n" +
		"End of Error Log\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush error log: %w", err)
	}

	return logPath, nil
}

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// BatchSummary contains summary information about a scripted batch run.
type BatchSummary struct {
	StartTime    time.Time
	EndTime      time.Time
	EntriesFile  string
	DataFile     string
	OutputFile   string
	TotalEntries int
	Added        int
	Failed       int
	FirstSerial  int
	LastSerial   int
	TotalAmount  string
	DryRun       bool
}

// WriteSummaryLog writes a batch summary to a text file.
func WriteSummaryLog(summary BatchSummary, outputDir string) (string, error) {
	timestamp := time.Now().Format("20060102_150405")
	summaryPath := uniquePath(filepath.Join(outputDir, fmt.Sprintf("batch_summary_%s.txt", timestamp)))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	writer.WriteString(FormatSummary(summary))
	writer.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}

// FormatSummary renders the summary block shared by the log file and the
// console.
func FormatSummary(summary BatchSummary) string {
	serials := "-"
	if summary.Added > 0 {
		serials = fmt.Sprintf("%d - %d", summary.FirstSerial, summary.LastSerial)
	}
	output := summary.OutputFile
	if summary.DryRun {
		output = "(dry run, nothing written)"
	}

	return fmt.Sprintf("Challan Generator - Batch Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n"+
		"  Entries File:   %s\n"+
		"  Data File:      %s\n"+
		"  Output:         %s\n\n"+
		"Statistics:\n"+
		"  Total Entries:  %d\n"+
		"  Added:          %d\n"+
		"  Failed:         %d\n"+
		"  Challan Nos.:   %s\n"+
		"  Total Amount:   %s\n\n",
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Sub(summary.StartTime).Round(time.Millisecond).String(),
		summary.EntriesFile,
		summary.DataFile,
		output,
		summary.TotalEntries,
		summary.Added,
		summary.Failed,
		serials,
		summary.TotalAmount)
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
