package reporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/amosWeiskopf/sitearchiver/internal/models"
)

// Reporter renders the end-of-run summary in various formats
type Reporter struct{}

// New creates a new Reporter instance
func New() *Reporter {
	return &Reporter{}
}

// GenerateReport renders summary in the specified format
func (r *Reporter) GenerateReport(summary *models.RunSummary, format string) (string, error) {
	switch format {
	case "json":
		return r.generateJSON(summary)
	case "html":
		return r.generateHTML(summary)
	case "markdown":
		return r.generateMarkdown(summary)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// generateJSON creates a JSON formatted report
func (r *Reporter) generateJSON(summary *models.RunSummary) (string, error) {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	return string(data), nil
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Archive Run {{.RunID}}</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 1200px;
            margin: 0 auto;
            padding: 20px;
            background: #f5f5f5;
        }
        .header {
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: white;
            padding: 2rem;
            border-radius: 10px;
            margin-bottom: 2rem;
        }
        .card {
            background: white;
            border-radius: 10px;
            padding: 1.5rem;
            margin-bottom: 1.5rem;
            box-shadow: 0 2px 10px rgba(0,0,0,0.1);
        }
        .stat-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
            gap: 1rem;
            margin: 1rem 0;
        }
        .stat-item {
            text-align: center;
            padding: 1rem;
            background: #f8f9fa;
            border-radius: 8px;
        }
        .stat-value {
            font-size: 2rem;
            font-weight: bold;
            color: #667eea;
        }
        .stat-label {
            color: #666;
            font-size: 0.9rem;
            margin-top: 0.5rem;
        }
        .failure {
            border-left: 4px solid #dc3545;
            padding: 0.5rem 1rem;
            margin: 0.5rem 0;
        }
        table {
            width: 100%;
            border-collapse: collapse;
        }
        td, th {
            text-align: left;
            padding: 0.25rem 0.5rem;
            border-bottom: 1px solid #eee;
        }
    </style>
</head>
<body>
    <div class="header">
        <h1>Archive run {{.RunID}}</h1>
        <p>{{.Command}} started {{.StartedAt.Format "January 2, 2006 15:04"}}, finished {{.FinishedAt.Format "15:04"}}</p>
    </div>

    <div class="card">
        <h2>Summary</h2>
        <div class="stat-grid">
            <div class="stat-item">
                <div class="stat-value">{{len .Roots}}</div>
                <div class="stat-label">Roots crawled</div>
            </div>
            <div class="stat-item">
                <div class="stat-value">{{.FilesFound}}</div>
                <div class="stat-label">Files found</div>
            </div>
            {{with .Downloads}}
            <div class="stat-item">
                <div class="stat-value">{{len .Records}}/{{.Attempted}}</div>
                <div class="stat-label">Files downloaded</div>
            </div>
            <div class="stat-item">
                <div class="stat-value">{{.FilenameHints}}</div>
                <div class="stat-label">Filename hints</div>
            </div>
            {{end}}
        </div>
    </div>

    {{if .Roots}}
    <div class="card">
        <h2>Roots</h2>
        <table>
            <tr><th>Root</th><th>Pages</th><th>Files</th><th>Errors</th></tr>
            {{range .Roots}}
            <tr><td>{{.Root}}</td><td>{{len .Visited}}</td><td>{{.FilesFound}}</td><td>{{.Errors}}</td></tr>
            {{end}}
        </table>
    </div>
    {{end}}

    {{with .Downloads}}{{if .Failures}}
    <div class="card">
        <h2>Failed downloads</h2>
        {{range .Failures}}
        <div class="failure">
            <h4>{{.URL}}</h4>
            <p><small>{{.Kind}}: {{.Error}}</small></p>
        </div>
        {{end}}
    </div>
    {{end}}{{end}}

    {{if .Artifacts}}
    <div class="card">
        <h2>Artifacts</h2>
        <ul>
            {{range .Artifacts}}
            <li>{{.}}</li>
            {{end}}
        </ul>
    </div>
    {{end}}
</body>
</html>
`

// generateHTML creates an HTML formatted report
func (r *Reporter) generateHTML(summary *models.RunSummary) (string, error) {
	t, err := template.New("report").Parse(htmlTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, summary); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// generateMarkdown creates a Markdown formatted report
func (r *Reporter) generateMarkdown(summary *models.RunSummary) (string, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# Archive run %s\n\n", summary.RunID)
	fmt.Fprintf(&buf, "*%s started %s, finished %s*\n\n",
		summary.Command,
		summary.StartedAt.Format("January 2, 2006 15:04"),
		summary.FinishedAt.Format("15:04"))

	fmt.Fprintf(&buf, "## Summary\n\n")
	fmt.Fprintf(&buf, "| Metric | Value |\n")
	fmt.Fprintf(&buf, "|--------|-------|\n")
	fmt.Fprintf(&buf, "| Roots crawled | %d |\n", len(summary.Roots))
	fmt.Fprintf(&buf, "| Files found | %d |\n", summary.FilesFound)
	if d := summary.Downloads; d != nil {
		fmt.Fprintf(&buf, "| Files downloaded | %d/%d |\n", len(d.Records), d.Attempted)
		fmt.Fprintf(&buf, "| Filename hints | %d |\n", d.FilenameHints())
	}
	fmt.Fprintf(&buf, "\n")

	if len(summary.Roots) > 0 {
		fmt.Fprintf(&buf, "## Roots\n\n")
		fmt.Fprintf(&buf, "| Root | Pages | Files | Errors |\n")
		fmt.Fprintf(&buf, "|------|-------|-------|--------|\n")
		for _, root := range summary.Roots {
			fmt.Fprintf(&buf, "| %s | %d | %d | %d |\n", root.Root, len(root.Visited), root.FilesFound, root.Errors)
		}
		fmt.Fprintf(&buf, "\n")
	}

	if d := summary.Downloads; d != nil && len(d.Failures) > 0 {
		fmt.Fprintf(&buf, "## Failed downloads\n\n")
		for _, failure := range d.Failures {
			fmt.Fprintf(&buf, "- %s (%s): %s\n", failure.URL, failure.Kind, failure.Error)
		}
		fmt.Fprintf(&buf, "\n")
	}

	if len(summary.Artifacts) > 0 {
		fmt.Fprintf(&buf, "## Artifacts\n\n")
		for _, artifact := range summary.Artifacts {
			fmt.Fprintf(&buf, "- %s\n", artifact)
		}
		fmt.Fprintf(&buf, "\n")
	}

	return buf.String(), nil
}
