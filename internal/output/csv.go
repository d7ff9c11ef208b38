package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/KilimcininKorOglu/echocheck/internal/check"
)

// CSVFormatter formats check results as CSV.
type CSVFormatter struct {
	config  Config
	columns []string
}

// Default CSV columns
var defaultCSVColumns = []string{
	"target", "resolved_ip", "reachable", "outcome",
	"probes", "completed", "failed_seq", "error",
}

// NewCSVFormatter creates a new CSV formatter.
func NewCSVFormatter(config Config) *CSVFormatter {
	return &CSVFormatter{
		config:  config,
		columns: defaultCSVColumns,
	}
}

// SetColumns allows customizing which columns to include.
func (f *CSVFormatter) SetColumns(columns []string) {
	f.columns = columns
}

// Format formats the results as CSV, one row per host.
func (f *CSVFormatter) Format(results []*check.Result) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(f.columns); err != nil {
		return nil, err
	}

	for _, r := range results {
		if err := writer.Write(f.formatRow(r)); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// formatRow formats a single result as a CSV row.
func (f *CSVFormatter) formatRow(r *check.Result) []string {
	row := make([]string, len(f.columns))
	for i, col := range f.columns {
		row[i] = f.getValue(r, col)
	}
	return row
}

// getValue returns the value for a specific column.
func (f *CSVFormatter) getValue(r *check.Result, column string) string {
	switch column {
	case "target":
		return r.Target

	case "resolved_ip":
		return formatIP(r)

	case "reachable":
		return strconv.FormatBool(r.Reachable)

	case "outcome":
		return r.Outcome.String()

	case "probes":
		return strconv.Itoa(r.ProbeCount)

	case "completed":
		return strconv.Itoa(r.Completed)

	case "failed_seq":
		if r.FailedSeq > 0 {
			return strconv.Itoa(r.FailedSeq)
		}
		return ""

	case "identifier":
		return strconv.Itoa(int(r.Identifier))

	case "error":
		return r.ErrorString()

	case "timestamp":
		return r.Timestamp.Format("2006-01-02T15:04:05Z07:00")

	default:
		return ""
	}
}

// ContentType returns the MIME type for CSV output.
func (f *CSVFormatter) ContentType() string {
	return "text/csv"
}

// FileExtension returns the file extension for CSV output.
func (f *CSVFormatter) FileExtension() string {
	return "csv"
}
