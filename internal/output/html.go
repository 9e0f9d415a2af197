package output

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/torosent/httpperf/internal/metrics"
)

// HTMLReportData contains all data needed for the HTML report template.
type HTMLReportData struct {
	GeneratedAt string
	Report      Report
	Metadata    ReportMetadata
	MaxLatency  time.Duration
}

// ReportMetadata contains configuration information about the test run.
type ReportMetadata struct {
	TargetURL string
	Method    string
	Requests  int // distinct request bodies replayed
}

// GenerateHTMLReport generates a standalone HTML report.
func GenerateHTMLReport(w io.Writer, report Report, metadata ReportMetadata) error {
	data := HTMLReportData{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Report:      report,
		Metadata:    metadata,
		MaxLatency:  report.Max,
	}

	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"formatDuration": func(d time.Duration) string {
			return d.String()
		},
		"formatFloat": func(f float64) string {
			return fmt.Sprintf("%.2f", f)
		},
		"formatPercent": func(part, total int) string {
			if total == 0 {
				return "0.0"
			}
			return fmt.Sprintf("%.1f", (float64(part)/float64(total))*100)
		},
		"barWidth": func(v, max time.Duration) string {
			if max <= 0 {
				return "0"
			}
			return fmt.Sprintf("%.1f", metrics.Millis(v)/metrics.Millis(max)*100)
		},
	}).Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return nil
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>httpperf Report</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background: #f5f7fa;
            color: #2c3e50;
            line-height: 1.6;
            padding: 20px;
        }
        .container { max-width: 1100px; margin: 0 auto; background: white; border-radius: 8px; box-shadow: 0 2px 8px rgba(0,0,0,0.1); overflow: hidden; }
        header { background: #1f2937; color: white; padding: 30px 40px; }
        header h1 { font-size: 1.8rem; margin-bottom: 10px; }
        header .meta { opacity: 0.9; font-size: 0.9rem; }
        .content { padding: 40px; }
        .grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 20px; margin-bottom: 40px; }
        .card { background: #f8f9fa; border-radius: 8px; padding: 20px; border-left: 4px solid #3b82f6; }
        .card h3 { font-size: 0.85rem; color: #6c757d; text-transform: uppercase; letter-spacing: 0.5px; margin-bottom: 10px; }
        .card .value { font-size: 1.8rem; font-weight: bold; }
        .card .subvalue { font-size: 0.85rem; color: #6c757d; margin-top: 5px; }
        .card.success { border-left-color: #10b981; }
        .card.error { border-left-color: #ef4444; }
        .section { margin-bottom: 40px; }
        .section h2 { font-size: 1.4rem; margin-bottom: 20px; padding-bottom: 10px; border-bottom: 2px solid #e5e7eb; }
        table { width: 100%; border-collapse: collapse; }
        th, td { text-align: left; padding: 10px 12px; border-bottom: 1px solid #e5e7eb; }
        th { background: #f8f9fa; font-weight: 600; color: #4b5563; font-size: 0.85rem; text-transform: uppercase; }
        .bar { background: #3b82f6; height: 10px; border-radius: 5px; }
        .badge { display: inline-block; padding: 4px 12px; border-radius: 12px; font-size: 0.85rem; font-weight: 600; }
        .badge-success { background: #d1fae5; color: #065f46; }
        .badge-error { background: #fee2e2; color: #991b1b; }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>httpperf Report</h1>
            {{if .Metadata.TargetURL}}
            <div class="meta">{{.Metadata.Method}} {{.Metadata.TargetURL}}{{if gt .Metadata.Requests 1}} ({{.Metadata.Requests}} request bodies){{end}}</div>
            {{end}}
            <div class="meta">Generated: {{.GeneratedAt}}{{if .Report.RunID}} | Run: {{.Report.RunID}}{{end}} | Test time: {{formatDuration .Report.TotalTestTime}}</div>
        </header>
        <div class="content">
            <div class="grid">
                <div class="card">
                    <h3>Total Requests</h3>
                    <div class="value">{{.Report.TotalRequestCount}}</div>
                    <div class="subvalue">{{.Report.ThreadCount}} threads x {{.Report.RequestCountPerThread}}</div>
                </div>
                <div class="card {{if .Report.TotalFailedRequests}}error{{else}}success{{end}}">
                    <h3>Failed</h3>
                    <div class="value">{{.Report.TotalFailedRequests}}</div>
                    <div class="subvalue">{{formatPercent .Report.TotalFailedRequests .Report.TotalRequestCount}}%</div>
                </div>
                <div class="card">
                    <h3>Requests/sec</h3>
                    <div class="value">{{formatFloat .Report.RequestsPerSecond}}</div>
                </div>
                <div class="card">
                    <h3>Mean Latency</h3>
                    <div class="value">{{formatDuration .Report.Mean}}</div>
                    <div class="subvalue">stddev {{formatDuration .Report.StdDev}}</div>
                </div>
            </div>

            <div class="section">
                <h2>Latency Percentiles</h2>
                <table>
                    <thead>
                        <tr><th>Percentile</th><th>Latency</th><th style="width: 55%"></th></tr>
                    </thead>
                    <tbody>
                        <tr><td>min</td><td>{{formatDuration .Report.Min}}</td><td><div class="bar" style="width: {{barWidth .Report.Min $.MaxLatency}}%"></div></td></tr>
                        {{range .Report.Percentiles}}
                        <tr><td>p{{.P}}</td><td>{{formatDuration .Value}}</td><td><div class="bar" style="width: {{barWidth .Value $.MaxLatency}}%"></div></td></tr>
                        {{end}}
                        <tr><td>max</td><td>{{formatDuration .Report.Max}}</td><td><div class="bar" style="width: 100%"></div></td></tr>
                    </tbody>
                </table>
            </div>

            {{if .Report.StatusCodes}}
            <div class="section">
                <h2>Status Codes</h2>
                <table>
                    <thead><tr><th>Code</th><th>Count</th></tr></thead>
                    <tbody>
                        {{range .Report.StatusCodes}}
                        <tr><td>{{.Code}} {{.Text}}</td><td>{{.Count}}</td></tr>
                        {{end}}
                    </tbody>
                </table>
            </div>
            {{end}}

            {{if .Report.TotalFailedRequests}}
            <div class="section">
                <h2>Failures</h2>
                <table>
                    <thead><tr><th>Cause</th><th>Count</th></tr></thead>
                    <tbody>
                        {{range .Report.ErrorKinds}}
                        <tr><td>{{.Kind}}</td><td>{{.Count}}</td></tr>
                        {{end}}
                        {{range $name, $n := .Report.ValidationFailures}}
                        <tr><td>validation {{$name}}</td><td>{{$n}}</td></tr>
                        {{end}}
                    </tbody>
                </table>
            </div>
            {{end}}

            {{with .Report.Thresholds}}
            <div class="section">
                <h2>Thresholds ({{.Passed}}/{{.Total}} Passed)</h2>
                <table>
                    <thead>
                        <tr><th>Threshold</th><th>Expected</th><th>Actual</th><th>Status</th></tr>
                    </thead>
                    <tbody>
                        {{range .Results}}
                        <tr>
                            <td>{{.Threshold}}</td>
                            <td>{{.Operator}} {{formatFloat .Expected}}</td>
                            <td>{{formatFloat .Actual}}</td>
                            <td>{{if .Pass}}<span class="badge badge-success">✓ PASS</span>{{else}}<span class="badge badge-error">✗ FAIL</span>{{end}}</td>
                        </tr>
                        {{end}}
                    </tbody>
                </table>
            </div>
            {{end}}
        </div>
    </div>
</body>
</html>
`
