// =============================================================================
// Net Sales Summarizer - File Manager Utility
// =============================================================================
//
// This module provides the file handling of the CLI:
//   - Input discovery (ledger workbooks and delimited text files)
//   - Directory management for exports
//   - Export file naming
//
// Input files are only read. They are never moved or modified.
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// WorkbookExtension is the extension of files read as workbooks.
const WorkbookExtension = ".xlsx"

// textExtensions are read as delimited text.
var textExtensions = []string{".csv", ".tsv", ".txt"}

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the CLI.
type FileManager struct {
	// InputDir is scanned when no input files are named.
	InputDir string

	// OutputDir receives exported workbooks.
	OutputDir string
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(inputDir, outputDir string) *FileManager {
	return &FileManager{
		InputDir:  inputDir,
		OutputDir: outputDir,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates the output directory if it doesn't exist.
//
// RETURNS:
//   - An error if the directory cannot be created.
func (fm *FileManager) EnsureDirectories() error {
	if err := os.MkdirAll(fm.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles lists the supported files directly inside the input
// directory, sorted by name.
//
// RETURNS:
//   - A slice of file paths.
//   - An error if the directory cannot be read.
func (fm *FileManager) DiscoverInputFiles() ([]string, error) {
	entries, err := os.ReadDir(fm.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	var result []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), "~$") {
			// "~$" files are Office lock files.
			continue
		}
		path := filepath.Join(fm.InputDir, entry.Name())
		if IsSupportedInput(path) {
			result = append(result, path)
		}
	}

	sort.Strings(result)
	return result, nil
}

// IsWorkbook reports whether path names an XLSX workbook.
func IsWorkbook(path string) bool {
	return strings.EqualFold(filepath.Ext(path), WorkbookExtension)
}

// IsSupportedInput reports whether path has an extension the CLI reads.
func IsSupportedInput(path string) bool {
	if IsWorkbook(path) {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, textExt := range textExtensions {
		if ext == textExt {
			return true
		}
	}
	return false
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates an export file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//               {original}  - Input file name without extension (params)
//   - params: A map of extra placeholder values.
//
// RETURNS:
//   - The generated file name, always ending in .xlsx.
//
// EXAMPLE:
//   format: "{original}_summary_{timestamp}.xlsx"
//   params: {"original": "ledger_1402"}
//   output: "ledger_1402_summary_20240115_143022.xlsx"
func GenerateOutputFileName(format string, params map[string]string) string {
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
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if !IsWorkbook(result) {
		result += WorkbookExtension
	}

	return result
}

// ExportPath returns the output path for an export of the named input.
func (fm *FileManager) ExportPath(format, inputPath string) string {
	original := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	name := GenerateOutputFileName(format, map[string]string{"original": original})
	return filepath.Join(fm.OutputDir, name)
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
