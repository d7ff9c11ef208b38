package output

import (
	"bytes"
	"fmt"

	"github.com/fatih/color"

	"github.com/KilimcininKorOglu/echocheck/internal/check"
)

// TextFormatter formats check results one line per host.
type TextFormatter struct {
	config Config
	colors *ColorScheme
}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter(config Config) *TextFormatter {
	var colors *ColorScheme
	if config.Colors {
		colors = DefaultColorScheme()
	}

	return &TextFormatter{
		config: config,
		colors: colors,
	}
}

// Format formats the results as plain text lines.
func (f *TextFormatter) Format(results []*check.Result) ([]byte, error) {
	var buf bytes.Buffer

	for _, r := range results {
		f.formatResult(&buf, r)
	}

	if !f.config.NoSummary && len(results) > 1 {
		s := check.Summarize(results)
		fmt.Fprintf(&buf, "\n%d of %d hosts reachable\n", s.Reachable, s.Total)
	}

	return buf.Bytes(), nil
}

// FormatResult formats a single result and returns it as a string.
// This can be used for streaming output.
func (f *TextFormatter) FormatResult(r *check.Result) string {
	var buf bytes.Buffer
	f.formatResult(&buf, r)
	return buf.String()
}

// formatResult formats a single host line.
func (f *TextFormatter) formatResult(buf *bytes.Buffer, r *check.Result) {
	target := r.Target
	if f.colors != nil {
		target = f.colors.Target.Sprint(target)
	}
	buf.WriteString(target)

	if r.ResolvedIP.IsValid() && r.ResolvedIP.String() != r.Target {
		ip := r.ResolvedIP.String()
		if f.colors != nil {
			ip = f.colors.IP.Sprint(ip)
		}
		fmt.Fprintf(buf, " (%s)", ip)
	}
	buf.WriteString(": ")

	if r.Reachable {
		status := "reachable"
		if f.colors != nil {
			status = f.colors.Reachable.Sprint(status)
		}
		fmt.Fprintf(buf, "%s, %d/%d probes answered\n", status, r.Completed, r.ProbeCount)
		return
	}

	status := "unreachable"
	if f.colors != nil {
		status = f.colors.Unreachable.Sprint(status)
	}
	buf.WriteString(status)

	detail := r.Outcome.String()
	if r.FailedSeq > 0 {
		detail = fmt.Sprintf("%s at probe %d/%d", detail, r.FailedSeq, r.ProbeCount)
	}
	if f.colors != nil {
		detail = f.colors.Detail.Sprint(detail)
	}
	fmt.Fprintf(buf, " (%s)\n", detail)
}

// ContentType returns the MIME type for text output.
func (f *TextFormatter) ContentType() string {
	return "text/plain"
}

// FileExtension returns the file extension for text output.
func (f *TextFormatter) FileExtension() string {
	return "txt"
}

// ColorScheme defines colors for different output elements.
type ColorScheme struct {
	Target      *color.Color
	IP          *color.Color
	Reachable   *color.Color
	Unreachable *color.Color
	Detail      *color.Color
	Header      *color.Color
}

// DefaultColorScheme returns the default color scheme.
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Target:      color.New(color.FgCyan, color.Bold),
		IP:          color.New(color.FgWhite),
		Reachable:   color.New(color.FgGreen, color.Bold),
		Unreachable: color.New(color.FgRed, color.Bold),
		Detail:      color.New(color.FgYellow),
		Header:      color.New(color.FgWhite, color.Bold),
	}
}

// Helper functions

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func formatIP(r *check.Result) string {
	if !r.ResolvedIP.IsValid() {
		return ""
	}
	return r.ResolvedIP.String()
}
