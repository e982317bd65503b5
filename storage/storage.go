// Package storage persists download reports as structured records in one of
// several interchangeable formats.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hlsget-cli/hlsget/filesystem"
	"github.com/samber/lo"
)

// Format selects the on-disk representation of a report file.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
)

// Formats lists every supported format identifier.
func Formats() []Format {
	return []Format{FormatCSV, FormatJSON, FormatJSONL}
}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(s))
	if !lo.Contains(Formats(), format) {
		return "", fmt.Errorf("unknown storage format %q, expected one of %v", s, Formats())
	}
	return format, nil
}

// Extension returns the filename extension for the format, dot included.
func (f Format) Extension() string {
	return "." + string(f)
}

// Writer appends one flat record to a report file. Implementations create the
// file on first use and keep earlier records intact.
type Writer interface {
	Write(record map[string]any) error
}

// New returns the Writer for the given format, targeting path.
func New(format Format, path string) (Writer, error) {
	switch format {
	case FormatCSV:
		return &csvWriter{path: path}, nil
	case FormatJSON:
		return &jsonWriter{path: path}, nil
	case FormatJSONL:
		return &jsonlWriter{path: path}, nil
	default:
		return nil, fmt.Errorf("unknown storage format %q", format)
	}
}

// sortedKeys gives records a deterministic column order regardless of map
// iteration.
func sortedKeys(record map[string]any) []string {
	keys := lo.Keys(record)
	sort.Strings(keys)
	return keys
}

func ensureParent(path string) error {
	return filesystem.API().MkdirAll(filepath.Dir(path), os.ModePerm)
}

// csvWriter appends rows to a comma-separated file, emitting the header only
// when the file is new or empty. Columns are the record's keys in sorted
// order, so every record of a run must share the same shape.
type csvWriter struct {
	path string
}

func (w *csvWriter) Write(record map[string]any) error {
	if err := ensureParent(w.path); err != nil {
		return err
	}

	fs := filesystem.API()

	fresh := true
	if info, err := fs.Stat(w.path); err == nil && info.Size() > 0 {
		fresh = false
	}

	file, err := fs.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	keys := sortedKeys(record)
	out := csv.NewWriter(file)

	if fresh {
		if err := out.Write(keys); err != nil {
			return err
		}
	}

	row := lo.Map(keys, func(k string, _ int) string {
		return fmt.Sprint(record[k])
	})
	if err := out.Write(row); err != nil {
		return err
	}

	out.Flush()
	return out.Error()
}

// jsonWriter maintains a single JSON array, rereading and rewriting the whole
// file on each append.
type jsonWriter struct {
	path string
}

func (w *jsonWriter) Write(record map[string]any) error {
	if err := ensureParent(w.path); err != nil {
		return err
	}

	fs := filesystem.API()

	var records []map[string]any
	if data, err := fs.ReadFile(w.path); err == nil && len(data) > 0 {
		if err := json.Unmarshal(data, &records); err != nil {
			return fmt.Errorf("existing report is not a JSON array: %w", err)
		}
	}

	records = append(records, record)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return fs.WriteFile(w.path, append(data, '\n'), 0644)
}

// jsonlWriter appends one JSON object per line.
type jsonlWriter struct {
	path string
}

func (w *jsonlWriter) Write(record map[string]any) error {
	if err := ensureParent(w.path); err != nil {
		return err
	}

	line, err := json.Marshal(record)
	if err != nil {
		return err
	}

	file, err := filesystem.API().OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.Write(append(line, '\n'))
	return err
}
