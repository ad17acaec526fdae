package records

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Columns names the header columns that carry the three record fields.
type Columns struct {
	Patient     string `yaml:"patient"`
	Description string `yaml:"description"`
	Start       string `yaml:"start"`
}

// DefaultColumns matches the export format of the upstream conditions file.
func DefaultColumns() Columns {
	return Columns{Patient: "PATIENT", Description: "DESCRIPTION", Start: "START"}
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// CSVSource streams ConditionRecords out of a delimited file with a
// header row. Rows are delivered one at a time in file order; any
// malformed row aborts the stream with an error.
type CSVSource struct {
	path    string
	columns Columns
}

func NewCSVSource(path string, columns Columns) *CSVSource {
	if columns.Patient == "" || columns.Description == "" || columns.Start == "" {
		columns = DefaultColumns()
	}
	return &CSVSource{path: path, columns: columns}
}

// Each reads the file and invokes fn for every record in order. The
// first error, from the file, a row, or fn itself, stops the scan.
func (s *CSVSource) Each(fn func(ConditionRecord) error) error {
	f, err := os.Open(filepath.Clean(s.path))
	if err != nil {
		return fmt.Errorf("open record source: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err == io.EOF {
		return fmt.Errorf("record source %s is empty", s.path)
	}
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	patientIdx, err := columnIndex(header, s.columns.Patient)
	if err != nil {
		return err
	}
	descriptionIdx, err := columnIndex(header, s.columns.Description)
	if err != nil {
		return err
	}
	startIdx, err := columnIndex(header, s.columns.Start)
	if err != nil {
		return err
	}

	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read row: %w", err)
		}
		line++

		record, err := rowToRecord(row, patientIdx, descriptionIdx, startIdx)
		if err != nil {
			return fmt.Errorf("row %d: %w", line, err)
		}
		if err := fn(record); err != nil {
			return err
		}
	}
}

func rowToRecord(row []string, patientIdx, descriptionIdx, startIdx int) (ConditionRecord, error) {
	width := max(patientIdx, descriptionIdx, startIdx) + 1
	if len(row) < width {
		return ConditionRecord{}, fmt.Errorf("expected at least %d fields, got %d", width, len(row))
	}

	patient := strings.TrimSpace(row[patientIdx])
	description := strings.TrimSpace(row[descriptionIdx])
	if patient == "" {
		return ConditionRecord{}, fmt.Errorf("empty patient identifier")
	}
	if description == "" {
		return ConditionRecord{}, fmt.Errorf("empty condition description")
	}

	start, err := ParseTimestamp(row[startIdx])
	if err != nil {
		return ConditionRecord{}, err
	}

	return ConditionRecord{PatientID: patient, Description: description, Start: start}, nil
}

// ParseTimestamp accepts the ISO-style date and date-time forms seen in
// exported condition files.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable timestamp %q", value)
}

func columnIndex(header []string, name string) (int, error) {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("required column %s not found in header", name)
}
