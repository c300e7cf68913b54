package fileutil

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// maxFilenameLength bounds the sanitized base name, leaving room for an extension.
const maxFilenameLength = 120

var filenameReplacer = strings.NewReplacer(
	":", " -",
	"/", "-",
	"\\", "-",
	"?", "",
	"*", "",
	"\"", "'",
	"<", "",
	">", "",
	"|", "-",
)

// GetMarkdownFilePath returns the expected markdown file path for a given name
func GetMarkdownFilePath(name string, directory string) string {
	return filepath.Join(directory, SanitizeFilename(name)+".md")
}

// BookNoteName returns the note name for a book: "<title> (<isbn>)".
// The ISBN keeps names unique across books sharing a title.
func BookNoteName(title, isbn string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return isbn
	}
	return fmt.Sprintf("%s (%s)", title, isbn)
}

// SanitizeFilename cleans a filename by replacing problematic characters
func SanitizeFilename(name string) string {
	name = filenameReplacer.Replace(name)
	name = strings.Join(strings.Fields(name), " ")
	if r := []rune(name); len(r) > maxFilenameLength {
		name = strings.TrimSpace(string(r[:maxFilenameLength]))
	}
	return name
}

// FileExists checks if a file exists at the given path
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// WriteFileWithOverwrite writes data to a file, respecting the overwrite flag
// Returns true if the file was written, false if it was skipped
func WriteFileWithOverwrite(filePath string, data []byte, perm os.FileMode, overwrite bool) (bool, error) {
	if FileExists(filePath) && !overwrite {
		return false, nil
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, err
	}

	if err := os.WriteFile(filePath, data, perm); err != nil {
		return false, err
	}

	return true, nil
}

// WriteMarkdownFile writes a markdown note, respecting the overwrite flag
func WriteMarkdownFile(filePath string, content []byte, overwrite bool) (bool, error) {
	written, err := WriteFileWithOverwrite(filePath, content, 0644, overwrite)
	if err != nil {
		return false, fmt.Errorf("failed to write markdown file %s: %w", filePath, err)
	}
	if !written {
		slog.Debug("Markdown file already exists, skipping", "filename", filePath)
	}
	return written, nil
}

// WriteJSONFile writes data as JSON to a file, respecting the overwrite flag
// Returns true if the file was written, false if it was skipped
func WriteJSONFile(data any, filePath string, overwrite bool) (bool, error) {
	if FileExists(filePath) && !overwrite {
		slog.Info("JSON file already exists, skipping", "filename", filePath, "overwrite", overwrite)
		return false, nil
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return false, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, fmt.Errorf("failed to create directory: %w", err)
	}

	slog.Info("Writing JSON file", "filename", filePath, "overwrite", overwrite)
	if err := os.WriteFile(filePath, jsonData, 0644); err != nil {
		return false, fmt.Errorf("failed to write JSON file: %w", err)
	}

	return true, nil
}
