package output

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/KilimcininKorOglu/echocheck/internal/check"
)

// HTMLFormatter formats check results as an HTML report.
type HTMLFormatter struct {
	config   Config
	template *template.Template
}

// NewHTMLFormatter creates a new HTML formatter.
func NewHTMLFormatter(config Config) *HTMLFormatter {
	tmpl := template.Must(template.New("report").Funcs(template.FuncMap{
		"formatTime": func(t time.Time) string {
			return t.Format("2006-01-02 15:04:05 MST")
		},
	}).Parse(htmlTemplate))

	return &HTMLFormatter{
		config:   config,
		template: tmpl,
	}
}

// Format formats the results as an HTML report.
func (f *HTMLFormatter) Format(results []*check.Result) ([]byte, error) {
	data := f.prepareData(results)

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.Bytes(), nil
}

// htmlData holds the data for the HTML template.
type htmlData struct {
	Title       string
	Hosts       []htmlHost
	Summary     htmlSummary
	GeneratedAt time.Time
}

// htmlHost represents a host row for HTML rendering.
type htmlHost struct {
	Target      string
	ResolvedIP  string
	Status      string
	StatusClass string
	Probes      string
	Outcome     string
	Error       string
	Timestamp   time.Time
}

// htmlSummary holds summary data for HTML.
type htmlSummary struct {
	Total       int
	Reachable   int
	Unreachable int
	Status      string
	StatusClass string
}

// prepareData converts results to template data.
func (f *HTMLFormatter) prepareData(results []*check.Result) *htmlData {
	data := &htmlData{
		Title:       "Echo reachability report",
		Hosts:       make([]htmlHost, len(results)),
		GeneratedAt: time.Now(),
	}

	for i, r := range results {
		h := htmlHost{
			Target:     r.Target,
			ResolvedIP: formatIP(r),
			Probes:     fmt.Sprintf("%d/%d", r.Completed, r.ProbeCount),
			Outcome:    r.Outcome.String(),
			Error:      r.ErrorString(),
			Timestamp:  r.Timestamp,
		}
		if h.ResolvedIP == "" {
			h.ResolvedIP = "-"
		}

		if r.Reachable {
			h.Status = "Reachable"
			h.StatusClass = "success"
		} else {
			h.Status = "Unreachable"
			h.StatusClass = "error"
			if r.FailedSeq > 0 {
				h.Outcome = fmt.Sprintf("%s at probe %d", h.Outcome, r.FailedSeq)
			}
		}

		data.Hosts[i] = h
	}

	s := check.Summarize(results)
	data.Summary = htmlSummary{
		Total:       s.Total,
		Reachable:   s.Reachable,
		Unreachable: s.Unreachable,
	}

	if check.AllReachable(results) {
		data.Summary.Status = "All reachable"
		data.Summary.StatusClass = "success"
	} else {
		data.Summary.Status = "Failed"
		data.Summary.StatusClass = "error"
	}

	return data
}

// ContentType returns the MIME type for HTML output.
func (f *HTMLFormatter) ContentType() string {
	return "text/html"
}

// FileExtension returns the file extension for HTML output.
func (f *HTMLFormatter) FileExtension() string {
	return "html"
}

// HTML template
const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}} - echocheck</title>
    <style>
        :root {
            --bg-primary: #1a1b26;
            --bg-secondary: #24283b;
            --bg-tertiary: #414868;
            --text-primary: #c0caf5;
            --text-muted: #565f89;
            --accent: #7aa2f7;
            --success: #9ece6a;
            --error: #f7768e;
            --border: #3b4261;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif;
            background: var(--bg-primary);
            color: var(--text-primary);
            margin: 0;
            padding: 2rem;
        }

        .container { max-width: 1000px; margin: 0 auto; }

        h1 { color: var(--accent); font-size: 1.75rem; }

        table {
            width: 100%;
            border-collapse: collapse;
            background: var(--bg-secondary);
            margin-bottom: 2rem;
        }

        th, td {
            padding: 0.6rem 1rem;
            text-align: left;
            border-bottom: 1px solid var(--border);
        }

        th {
            background: var(--bg-tertiary);
            font-size: 0.85rem;
            text-transform: uppercase;
        }

        .mono { font-family: 'Monaco', 'Menlo', monospace; }
        .muted { color: var(--text-muted); font-size: 0.85rem; }
        .success { color: var(--success); font-weight: 600; }
        .error { color: var(--error); font-weight: 600; }

        .summary {
            display: flex;
            gap: 2rem;
            background: var(--bg-secondary);
            padding: 1rem 1.5rem;
            border: 1px solid var(--border);
        }

        footer {
            margin-top: 2rem;
            color: var(--text-muted);
            font-size: 0.8rem;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>{{.Title}}</h1>

        <table>
            <thead>
                <tr>
                    <th>Target</th>
                    <th>IP Address</th>
                    <th>Status</th>
                    <th>Probes</th>
                    <th>Outcome</th>
                    <th>Checked</th>
                </tr>
            </thead>
            <tbody>
                {{range .Hosts}}
                <tr>
                    <td>{{.Target}}</td>
                    <td class="mono">{{.ResolvedIP}}</td>
                    <td class="{{.StatusClass}}">{{.Status}}</td>
                    <td class="mono">{{.Probes}}</td>
                    <td>{{.Outcome}}{{if .Error}}<br><span class="muted">{{.Error}}</span>{{end}}</td>
                    <td class="muted">{{formatTime .Timestamp}}</td>
                </tr>
                {{end}}
            </tbody>
        </table>

        <div class="summary">
            <div>Hosts: <strong>{{.Summary.Total}}</strong></div>
            <div>Reachable: <strong>{{.Summary.Reachable}}</strong></div>
            <div>Unreachable: <strong>{{.Summary.Unreachable}}</strong></div>
            <div class="{{.Summary.StatusClass}}">{{.Summary.Status}}</div>
        </div>

        <footer>
            <p>Generated by <strong>echocheck</strong> on {{formatTime .GeneratedAt}}</p>
        </footer>
    </div>
</body>
</html>
`
