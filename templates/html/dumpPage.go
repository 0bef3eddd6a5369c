package templates

import (
	"html/template"
	"io"
	"time"

	"github.com/linesmerrill/wildlife-watch-api/models"
)

var dumpPage = template.Must(template.New("dump").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Wildlife reports</title>
  <style>
    body { font-family: ui-monospace, Menlo, monospace; margin: 2rem; }
    table { border-collapse: collapse; }
    th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
  </style>
</head>
<body>
  <h1>Wildlife reports</h1>
  <p>{{len .Reports}} rows as of {{.Generated.Format "2006-01-02T15:04:05Z07:00"}}</p>
  <table>
    <tr><th>id</th><th>animalType</th><th>latitude</th><th>longitude</th><th>reportTime</th><th>created_at</th></tr>
    {{- range .Reports}}
    <tr><td>{{.ID}}</td><td>{{.AnimalType}}</td><td>{{.Latitude}}</td><td>{{.Longitude}}</td><td>{{.ReportTime.Format "2006-01-02T15:04:05.000Z07:00"}}</td><td>{{.CreatedAt.Format "2006-01-02T15:04:05.000Z07:00"}}</td></tr>
    {{- end}}
  </table>
</body>
</html>
`))

// RenderDumpPage writes every report verbatim as an HTML table
func RenderDumpPage(w io.Writer, reports []models.Report, generated time.Time) error {
	return dumpPage.Execute(w, struct {
		Reports   []models.Report
		Generated time.Time
	}{reports, generated})
}
