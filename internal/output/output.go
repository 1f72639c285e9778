package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"yotagrabber/internal/curate"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q, expected csv or json", s)
}

// SortByVIN sorts records by VIN ascending, in place.
func SortByVIN(records []curate.Record) {
	slices.SortStableFunc(records, func(a, b curate.Record) int {
		return strings.Compare(a.VIN, b.VIN)
	})
}

// FormatValue renders a single field the way it appears in the csv output.
func FormatValue(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		if value {
			return "True"
		}
		return "False"
	}
	return fmt.Sprint(v)
}

func Write(w io.Writer, format Format, records []curate.Record) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, records)
	case FormatJSON:
		return writeJSON(w, records)
	}
	return fmt.Errorf("unknown output format %q", format)
}

func writeCSV(w io.Writer, records []curate.Record) error {
	writer := csv.NewWriter(w)
	err := writer.Write(curate.Columns)
	if err != nil {
		return err
	}

	row := make([]string, len(curate.Columns))
	for _, record := range records {
		for i, v := range record.Values() {
			row[i] = FormatValue(v)
		}
		err = writer.Write(row)
		if err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func writeJSON(w io.Writer, records []curate.Record) error {
	if records == nil {
		records = []curate.Record{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records)
}

// Path is where the curated output of a model is written.
func Path(dir, model string, format Format) string {
	return filepath.Join(dir, fmt.Sprintf("%s.%s", model, format))
}

// WriteFile writes the curated output of a model under dir, replacing any
// previous output, and returns its path.
func WriteFile(dir, model string, format Format, records []curate.Record) (string, error) {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return "", err
	}

	path := Path(dir, model, format)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	err = Write(f, format, records)
	if err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	err = f.Close()
	if err != nil {
		return "", err
	}
	return path, nil
}

// ReadCSV reads a curated csv file back into its header and rows.
func ReadCSV(r io.Reader) (header []string, rows [][]string, err error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("empty csv")
	}
	return records[0], records[1:], nil
}
