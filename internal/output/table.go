package output

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/KilimcininKorOglu/echocheck/internal/check"
)

// TableFormatter formats check results as a detailed table.
type TableFormatter struct {
	config Config
	colors *ColorScheme
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(config Config) *TableFormatter {
	var colors *ColorScheme
	if config.Colors {
		colors = DefaultColorScheme()
	}

	return &TableFormatter{
		config: config,
		colors: colors,
	}
}

// Format formats the results as a detailed table.
func (f *TableFormatter) Format(results []*check.Result) ([]byte, error) {
	var buf bytes.Buffer

	f.writeHeader(&buf, results)

	table := tablewriter.NewWriter(&buf)
	f.configureTable(table)
	table.SetHeader([]string{"Target", "IP Address", "Status", "Probes", "Failed At", "Outcome", "ID", "Error"})

	for _, r := range results {
		table.Append(f.formatRow(r))
	}

	table.Render()

	f.writeSummary(&buf, results)

	return buf.Bytes(), nil
}

// writeHeader writes the time of the first check.
func (f *TableFormatter) writeHeader(buf *bytes.Buffer, results []*check.Result) {
	started := time.Now()
	if len(results) > 0 {
		started = results[0].Timestamp
	}

	header := fmt.Sprintf("Echo check | Time: %s\n\n", started.Format("2006-01-02 15:04:05"))
	if f.colors != nil {
		header = f.colors.Header.Sprint(header)
	}
	buf.WriteString(header)
}

// configureTable sets up the table appearance.
func (f *TableFormatter) configureTable(table *tablewriter.Table) {
	table.SetBorder(true)
	table.SetRowLine(false)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("│")
	table.SetColumnSeparator("│")
	table.SetRowSeparator("─")
	table.SetHeaderLine(true)
	table.SetTablePadding(" ")
}

// formatRow formats a single result as a table row.
func (f *TableFormatter) formatRow(r *check.Result) []string {
	ip := formatIP(r)
	if ip == "" {
		ip = "-"
	}

	failedAt := "-"
	if r.FailedSeq > 0 {
		failedAt = strconv.Itoa(r.FailedSeq)
	}

	id := "-"
	if r.Identifier != 0 {
		id = fmt.Sprintf("0x%04x", r.Identifier)
	}

	errStr := "-"
	if r.Err != nil {
		errStr = truncateString(r.ErrorString(), 40)
	}

	return []string{
		truncateString(r.Target, 30),
		ip,
		f.formatStatus(r.Reachable),
		fmt.Sprintf("%d/%d", r.Completed, r.ProbeCount),
		failedAt,
		r.Outcome.String(),
		id,
		errStr,
	}
}

// formatStatus formats reachability with optional coloring.
func (f *TableFormatter) formatStatus(reachable bool) string {
	if reachable {
		if f.colors != nil {
			return f.colors.Reachable.Sprint("UP")
		}
		return "UP"
	}
	if f.colors != nil {
		return f.colors.Unreachable.Sprint("DOWN")
	}
	return "DOWN"
}

// writeSummary writes the result summary.
func (f *TableFormatter) writeSummary(buf *bytes.Buffer, results []*check.Result) {
	s := check.Summarize(results)

	buf.WriteString("\nSummary:\n")
	fmt.Fprintf(buf, "  Hosts:         %d\n", s.Total)
	fmt.Fprintf(buf, "  Reachable:     %d\n", s.Reachable)
	fmt.Fprintf(buf, "  Unreachable:   %d\n", s.Unreachable)

	buf.WriteString("  Status:        ")
	status := "All reachable"
	if !check.AllReachable(results) {
		status = "Failed"
	}
	if f.colors != nil {
		if check.AllReachable(results) {
			status = f.colors.Reachable.Sprint(status)
		} else {
			status = f.colors.Unreachable.Sprint(status)
		}
	}
	buf.WriteString(status)
	buf.WriteString("\n")
}

// ContentType returns the MIME type for table output.
func (f *TableFormatter) ContentType() string {
	return "text/plain"
}

// FileExtension returns the file extension for table output.
func (f *TableFormatter) FileExtension() string {
	return "txt"
}
