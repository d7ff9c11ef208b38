package output

import (
	"encoding/json"

	"github.com/KilimcininKorOglu/echocheck/internal/check"
)

// JSONFormatter formats check results as JSON.
type JSONFormatter struct {
	config Config
	pretty bool
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(config Config) *JSONFormatter {
	return &JSONFormatter{
		config: config,
		pretty: true, // Default to pretty-printed
	}
}

// NewJSONFormatterCompact creates a JSON formatter with compact output.
func NewJSONFormatterCompact(config Config) *JSONFormatter {
	return &JSONFormatter{
		config: config,
		pretty: false,
	}
}

// SetPretty enables or disables pretty-printing.
func (f *JSONFormatter) SetPretty(pretty bool) {
	f.pretty = pretty
}

// Format formats the results as JSON.
func (f *JSONFormatter) Format(results []*check.Result) ([]byte, error) {
	output := f.toJSONOutput(results)

	if f.pretty {
		return json.MarshalIndent(output, "", "  ")
	}
	return json.Marshal(output)
}

// JSONOutput is the JSON-serializable representation of a check run.
type JSONOutput struct {
	Hosts   []JSONHost    `json:"hosts"`
	Summary check.Summary `json:"summary"`
}

// JSONHost represents a single host in JSON format.
type JSONHost struct {
	Target     string `json:"target"`
	ResolvedIP string `json:"resolved_ip,omitempty"`
	Reachable  bool   `json:"reachable"`
	Outcome    string `json:"outcome"`
	Probes     int    `json:"probes"`
	Completed  int    `json:"completed"`
	FailedSeq  int    `json:"failed_seq,omitempty"`
	Identifier uint16 `json:"identifier,omitempty"`
	Error      string `json:"error,omitempty"`
	Timestamp  string `json:"timestamp"`
}

// toJSONOutput converts results to JSONOutput.
func (f *JSONFormatter) toJSONOutput(results []*check.Result) *JSONOutput {
	output := &JSONOutput{
		Hosts:   make([]JSONHost, len(results)),
		Summary: check.Summarize(results),
	}

	for i, r := range results {
		output.Hosts[i] = JSONHost{
			Target:     r.Target,
			ResolvedIP: formatIP(r),
			Reachable:  r.Reachable,
			Outcome:    r.Outcome.String(),
			Probes:     r.ProbeCount,
			Completed:  r.Completed,
			FailedSeq:  r.FailedSeq,
			Identifier: r.Identifier,
			Error:      r.ErrorString(),
			Timestamp:  r.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	return output
}

// ContentType returns the MIME type for JSON output.
func (f *JSONFormatter) ContentType() string {
	return "application/json"
}

// FileExtension returns the file extension for JSON output.
func (f *JSONFormatter) FileExtension() string {
	return "json"
}
