package export

import (
	"html/template"
	"io"

	"github.com/sheikh-saqib/bookkeeping-ledger/internal/models"
)

var printTemplate = template.Must(template.New("ledger").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Ledger</title>
    <style>
      body { font-family: Arial, sans-serif; padding: 20px; }
      table { width: 100%; border-collapse: collapse; margin-top: 20px; }
      th, td { border: 1px solid #000; padding: 8px; text-align: center; }
      th { background-color: #f2f2f2; }
    </style>
  </head>
  <body>
    <h2>Ledger</h2>
    <table>
      <thead>
        <tr>
          <th>Account</th>
          <th>Due</th>
          <th>Received</th>
          <th>Reference</th>
          <th>Date</th>
        </tr>
      </thead>
      <tbody>
{{- range .}}
        <tr>
          <td>{{.AccountName}}</td>
          <td>{{.AmountDue}}</td>
          <td>{{.AmountReceived}}</td>
          <td>{{.Reference}}</td>
          <td>{{.Date}}</td>
        </tr>
{{- end}}
      </tbody>
    </table>
    <script>
      window.onload = function() {
        window.print();
        window.onafterprint = function() { window.close(); };
      };
    </script>
  </body>
</html>
`))

// WritePrintHTML writes a self-printing HTML table of entries. Cell values
// are HTML-escaped.
func WritePrintHTML(w io.Writer, entries []models.LedgerEntry) error {
	return printTemplate.Execute(w, entries)
}
