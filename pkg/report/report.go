// Package report renders NAND endurance comparison reports: an HTML page
// with the log-scaled BER chart, run parameters and system information.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/cellwear/nandsim/pkg/db"
)

// ReportData contains all data needed for report generation
type ReportData struct {
	Entries     []RunEntry
	GeneratedAt time.Time
	SystemInfo  SystemInfo
	Chart       template.HTML
}

// RunEntry pairs a stored run with its BER curve for display.
type RunEntry struct {
	Run         *db.Run
	Curve       []*db.CurvePoint
	Checkpoints int
	FinalBER    float64
	Histogram   template.HTML
}

// SystemInfo contains system information
type SystemInfo struct {
	Hostname     string
	OS           string
	Architecture string
	CPUModel     string
	CPUCores     int
	TotalMemory  string
}

// Generator creates reports from stored simulation runs
type Generator struct {
	database *db.DB
}

// NewGenerator creates a new report generator
func NewGenerator(database *db.DB) *Generator {
	return &Generator{
		database: database,
	}
}

// GenerateHTML generates an HTML comparison report for the given runs.
func (g *Generator) GenerateHTML(runIDs []int64) (string, error) {
	// Load data
	data, err := g.loadReportData(runIDs)
	if err != nil {
		return "", err
	}

	// Load template
	tmpl, err := g.loadHTMLTemplate()
	if err != nil {
		return "", err
	}

	// Execute template
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// GenerateSVG renders only the comparison chart for the given runs.
func (g *Generator) GenerateSVG(runIDs []int64) (string, error) {
	data, err := g.loadReportData(runIDs)
	if err != nil {
		return "", err
	}
	return RenderSVG(entriesToSeries(data.Entries)), nil
}

// loadReportData loads all runs, their curves and system info.
func (g *Generator) loadReportData(runIDs []int64) (*ReportData, error) {
	if len(runIDs) == 0 {
		return nil, fmt.Errorf("no runs to report on")
	}

	data := &ReportData{
		GeneratedAt: time.Now(),
		SystemInfo:  getSystemInfo(),
	}

	for _, id := range runIDs {
		run, err := g.database.GetRun(id)
		if err != nil {
			return nil, fmt.Errorf("failed to get run %d: %w", id, err)
		}

		curve, err := g.database.GetCurve(id)
		if err != nil {
			return nil, fmt.Errorf("failed to get curve for run %d: %w", id, err)
		}
		if len(curve) == 0 {
			return nil, fmt.Errorf("run %d has no stored curve", id)
		}

		entry := RunEntry{
			Run:         run,
			Curve:       curve,
			Checkpoints: len(curve),
			FinalBER:    curve[len(curve)-1].BER,
		}
		series := entriesToSeries([]RunEntry{entry})
		entry.Histogram = template.HTML(RenderHistogramSVG(series[0])) // #nosec G203 -- histogram SVG is generated locally, not user input
		data.Entries = append(data.Entries, entry)
	}

	data.Chart = template.HTML(RenderSVG(entriesToSeries(data.Entries))) // #nosec G203 -- chart SVG is generated locally, not user input
	return data, nil
}

// entriesToSeries converts stored curves into chart series.
func entriesToSeries(entries []RunEntry) []Series {
	series := make([]Series, len(entries))
	for i, e := range entries {
		s := Series{Name: e.Run.Architecture}
		for _, pt := range e.Curve {
			s.Cycles = append(s.Cycles, pt.Cycle)
			s.BERs = append(s.BERs, pt.BER)
		}
		series[i] = s
	}
	return series
}

// getSystemInfo collects system information via gopsutil. Failures leave
// fields at their zero value; a report is still produced.
func getSystemInfo() SystemInfo {
	info := SystemInfo{}

	if hostInfo, err := host.Info(); err == nil {
		info.Hostname = hostInfo.Hostname
		info.OS = fmt.Sprintf("%s %s", hostInfo.Platform, hostInfo.PlatformVersion)
		info.Architecture = hostInfo.KernelArch
	}

	if cpuInfo, err := cpu.Info(); err == nil && len(cpuInfo) > 0 {
		info.CPUModel = cpuInfo[0].ModelName
	}
	if cores, err := cpu.Counts(true); err == nil {
		info.CPUCores = cores
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		info.TotalMemory = fmt.Sprintf("%.1f GB", float64(vm.Total)/(1<<30))
	}

	return info
}

// loadHTMLTemplate loads the HTML report template
func (g *Generator) loadHTMLTemplate() (*template.Template, error) {
	// Define template functions
	funcMap := template.FuncMap{
		"formatTime": func(t time.Time) string {
			return t.Format("2006-01-02 15:04:05")
		},
		"formatDuration": func(d time.Duration) string {
			return fmt.Sprintf("%.2f seconds", d.Seconds())
		},
		"formatBER": func(ber float64) string {
			return fmt.Sprintf("%.6f", ber)
		},
		"statusClass": func(success bool) string {
			if success {
				return "success"
			}
			return "failure"
		},
		"statusText": func(success bool) string {
			if success {
				return "COMPLETE"
			}
			return "FAILED"
		},
	}

	// Parse template
	tmpl := template.New("report").Funcs(funcMap)
	tmpl, err := tmpl.Parse(htmlTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	return tmpl, nil
}

// htmlTemplate is the default HTML report template
const htmlTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>NAND Endurance Report</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 1200px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f5f5f5;
        }
        .container {
            background-color: white;
            border-radius: 8px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
            padding: 30px;
        }
        h1, h2, h3 {
            color: #2c3e50;
        }
        .header {
            border-bottom: 3px solid #FF6B35;
            padding-bottom: 20px;
            margin-bottom: 30px;
        }
        .status {
            display: inline-block;
            padding: 3px 10px;
            border-radius: 4px;
            font-weight: bold;
            text-transform: uppercase;
            font-size: 0.8em;
        }
        .status.success {
            background-color: #10B981;
            color: white;
        }
        .status.failure {
            background-color: #EF4444;
            color: white;
        }
        .chart {
            margin: 20px 0;
            text-align: center;
        }
        .info-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(250px, 1fr));
            gap: 20px;
            margin: 20px 0;
        }
        .info-card {
            background-color: #f8f9fa;
            padding: 15px;
            border-radius: 4px;
            border-left: 4px solid #FF6B35;
        }
        .info-card h3 {
            margin: 0 0 10px 0;
            color: #666;
            font-size: 0.9em;
            text-transform: uppercase;
        }
        .info-card p {
            margin: 0;
            font-size: 1.1em;
            font-weight: 500;
        }
        .runs-table {
            width: 100%;
            border-collapse: collapse;
            margin: 20px 0;
        }
        .runs-table th,
        .runs-table td {
            padding: 10px;
            text-align: left;
            border-bottom: 1px solid #e0e0e0;
        }
        .runs-table th {
            background-color: #f8f9fa;
            font-weight: 600;
            color: #666;
        }
        .footer {
            margin-top: 40px;
            padding-top: 20px;
            border-top: 1px solid #e0e0e0;
            text-align: center;
            color: #666;
            font-size: 0.9em;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>NAND Flash Endurance Report</h1>
            <p>Monte Carlo BER simulation across {{len .Entries}} architecture(s)</p>
        </div>

        <div class="chart">
            {{.Chart}}
        </div>

        <h2>Endurance Distributions</h2>
        {{range .Entries}}
        <div class="chart">
            {{.Histogram}}
        </div>
        {{end}}

        <h2>Simulated Runs</h2>
        <table class="runs-table">
            <thead>
                <tr>
                    <th>Run</th>
                    <th>Architecture</th>
                    <th>Seed</th>
                    <th>Checkpoints</th>
                    <th>Final BER</th>
                    <th>Started</th>
                    <th>Status</th>
                </tr>
            </thead>
            <tbody>
                {{range .Entries}}
                <tr>
                    <td>#{{.Run.ID}}</td>
                    <td>{{.Run.Architecture}}</td>
                    <td>{{.Run.Seed}}</td>
                    <td>{{.Checkpoints}}</td>
                    <td>{{formatBER .FinalBER}}</td>
                    <td>{{formatTime .Run.StartTime}}</td>
                    <td><span class="status {{statusClass .Run.Success}}">{{statusText .Run.Success}}</span></td>
                </tr>
                {{end}}
            </tbody>
        </table>

        {{range .Entries}}
        {{if .Run.Params}}
        <h3>{{.Run.Architecture}} parameters</h3>
        <table class="runs-table">
            <thead>
                <tr>
                    <th>Parameter</th>
                    <th>Value</th>
                </tr>
            </thead>
            <tbody>
                {{$params := .Run.Params}}
                {{range $key, $value := $params}}
                <tr>
                    <td>{{$key}}</td>
                    <td>{{$value}}</td>
                </tr>
                {{end}}
            </tbody>
        </table>
        {{end}}
        {{end}}

        <h2>System Information</h2>
        <div class="info-grid">
            <div class="info-card">
                <h3>Host</h3>
                <p>{{.SystemInfo.Hostname}}</p>
            </div>
            <div class="info-card">
                <h3>OS</h3>
                <p>{{.SystemInfo.OS}} ({{.SystemInfo.Architecture}})</p>
            </div>
            <div class="info-card">
                <h3>CPU</h3>
                <p>{{.SystemInfo.CPUModel}} ({{.SystemInfo.CPUCores}} cores)</p>
            </div>
            <div class="info-card">
                <h3>Memory</h3>
                <p>{{.SystemInfo.TotalMemory}}</p>
            </div>
        </div>

        <div class="footer">
            <p>Generated by nandsim on {{formatTime .GeneratedAt}}</p>
        </div>
    </div>
</body>
</html>
`
