package presentation

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	apperrors "postcodelookup/internal/errors"
	"postcodelookup/pkg/contracts/domain"
)

const tableTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
table { border-collapse: collapse; font-family: Arial, sans-serif; font-size: 12px; background: white; }
th, td { padding: 4px 8px; white-space: nowrap; }
th.spacer, td.spacer { padding: 0 6px; }
{{.CSS}}
</style>
</head>
<body>
<table id="wide-table">
<thead>
<tr>{{range .Spans}}<th class="level0 col{{.Start}}{{if .Spacer}} spacer{{end}}" colspan="{{.Width}}">{{.Label}}</th>{{end}}</tr>
<tr>{{range .Columns}}<th class="level1 col{{.Index}}{{if .Spacer}} spacer{{end}}">{{.Label}}</th>{{end}}</tr>
</thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td class="col{{.Index}}{{if .Spacer}} spacer{{end}}">{{.Label}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
</body>
</html>
`

var pageTemplate = template.Must(template.New("table").Parse(tableTemplate))

type htmlCell struct {
	Index  int
	Label  string
	Spacer bool
}

type htmlSpan struct {
	Span
	Spacer bool
}

type htmlPage struct {
	Title   string
	CSS     template.CSS
	Spans   []htmlSpan
	Columns []htmlCell
	Rows    [][]htmlCell
}

// StyleSheet renders the style rules as CSS.
func StyleSheet(rules []StyleRule) string {
	var b strings.Builder
	for _, r := range rules {
		b.WriteString(r.Selector)
		b.WriteString(" {")
		for _, p := range r.Props {
			fmt.Fprintf(&b, " %s: %s;", p.Name, p.Value)
		}
		b.WriteString(" }\n")
	}
	return b.String()
}

// RenderHTML writes the layout as a standalone HTML page.
func RenderHTML(w io.Writer, layout *Layout, title string) error {
	page := htmlPage{
		Title: title,
		CSS:   template.CSS(StyleSheet(layout.Styles)),
	}

	spacer := make([]bool, layout.ColumnCount())
	for i, cell := range layout.Header {
		spacer[i] = cell.Kind == domain.ColumnSpacer
		page.Columns = append(page.Columns, htmlCell{Index: i, Label: cell.Level1, Spacer: spacer[i]})
	}
	for _, s := range layout.Spans {
		page.Spans = append(page.Spans, htmlSpan{Span: s, Spacer: s.Kind == domain.ColumnSpacer})
	}
	for _, row := range layout.Rows {
		cells := make([]htmlCell, len(row))
		for i, v := range row {
			cells[i] = htmlCell{Index: i, Label: v, Spacer: spacer[i]}
		}
		page.Rows = append(page.Rows, cells)
	}

	if err := pageTemplate.Execute(w, page); err != nil {
		return apperrors.NewRenderError("failed to render HTML table", err)
	}
	return nil
}
