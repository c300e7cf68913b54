package fileutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lepinkainen/springer-meta/internal/metadata"
	"github.com/lepinkainen/springer-meta/internal/testutil"
)

func testRecords() []*metadata.Record {
	pub := time.Date(2025, time.August, 30, 0, 0, 0, 0, time.UTC)
	return []*metadata.Record{
		{Title: "Foo: Bar", ISBN: "9783658000000", PubDate: &pub, Authors: []string{"Jane Doe"}},
		{Title: "Unbekannt", ISBN: "9783030000002"},
	}
}

func readRecords(t *testing.T, path string) []map[string]any {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	var result []map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}
	return result
}

func TestWriteJSONFile_NewFile(t *testing.T) {
	env := testutil.NewTestEnv(t)
	filePath := filepath.Join(env.RootDir(), "books.json")

	written, err := WriteJSONFile(testRecords(), filePath, true)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !written {
		t.Error("Expected file to be written")
	}

	result := readRecords(t, filePath)
	if len(result) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(result))
	}
	if result[0]["title"] != "Foo: Bar" || result[0]["pubdate"] != "2025-08-30" || result[0]["authors"] != "Jane Doe" {
		t.Errorf("unexpected first record: %+v", result[0])
	}
	if result[1]["pubdate"] != nil {
		t.Errorf("expected null pubdate, got %v", result[1]["pubdate"])
	}
}

func TestWriteJSONFile_OverwriteTrue(t *testing.T) {
	env := testutil.NewTestEnv(t)
	filePath := filepath.Join(env.RootDir(), "books.json")

	_, _ = WriteJSONFile(testRecords(), filePath, true)

	written, err := WriteJSONFile(testRecords()[:1], filePath, true)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !written {
		t.Error("Expected file to be written")
	}
	if got := len(readRecords(t, filePath)); got != 1 {
		t.Errorf("Expected file to be overwritten with 1 record, got %d", got)
	}
}

func TestWriteJSONFile_OverwriteFalse(t *testing.T) {
	env := testutil.NewTestEnv(t)
	filePath := filepath.Join(env.RootDir(), "books.json")

	_, _ = WriteJSONFile(testRecords(), filePath, true)

	written, err := WriteJSONFile(testRecords()[:1], filePath, false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if written {
		t.Error("Expected file not to be written")
	}
	if got := len(readRecords(t, filePath)); got != 2 {
		t.Errorf("Expected file to remain unchanged, got %d records", got)
	}
}

func TestWriteJSONFile_CreateDirectory(t *testing.T) {
	env := testutil.NewTestEnv(t)
	filePath := filepath.Join(env.RootDir(), "subdir", "nested", "books.json")

	written, err := WriteJSONFile(testRecords(), filePath, true)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !written || !FileExists(filePath) {
		t.Error("Expected file to be written")
	}
}

func TestWriteJSONFile_InvalidData(t *testing.T) {
	env := testutil.NewTestEnv(t)
	filePath := filepath.Join(env.RootDir(), "books.json")

	written, err := WriteJSONFile(make(chan int), filePath, true)
	if err == nil {
		t.Fatal("Expected error for invalid data")
	}
	if written {
		t.Error("Expected file not to be written")
	}
	if FileExists(filePath) {
		t.Error("Expected file not to exist")
	}
}
