package render

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"ProjectCatalog/internal/domain"
)

// View is the data behind one rendered archive page.
type View struct {
	Title    string
	Projects []domain.Project
	Filter   domain.Filter
	Sort     domain.SortConfig
}

var funcs = template.FuncMap{
	"join": func(items []string) string { return strings.Join(items, ", ") },
}

var page = template.Must(template.New("archive").Funcs(funcs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h2>{{.Title}}</h2>
<p class="record-count">{{len .Projects}} Verified Records</p>
{{- if .Filter.Search}}
<p class="active-search">{{.Filter.Search}}</p>
{{- end}}
<table class="projects" data-sort="{{.Sort.Key}}" data-direction="{{.Sort.Direction}}">
<thead>
<tr><th>Project</th><th>Year</th><th>Client</th><th>Client Type</th><th>Categories</th><th>Subcategories</th></tr>
</thead>
<tbody>
{{- range .Projects}}
<tr class="project" id="{{.ID}}">
<td class="name">{{.Name}}{{if .Code}} <span class="code">{{.Code}}</span>{{end}}
{{- if .Description}}<details><summary>Details</summary><p class="description">{{.Description}}</p></details>{{end}}</td>
<td class="year">{{.Year}}</td>
<td class="client">{{.Client}}</td>
<td class="client-type">{{.ClientType}}</td>
<td class="categories">{{join .Categories}}</td>
<td class="subcategories">{{join .Subcategories}}</td>
</tr>
{{- else}}
<tr class="empty"><td colspan="6">No projects match the current filters.</td></tr>
{{- end}}
</tbody>
</table>
</body>
</html>
`))

// Table writes the archive page for v.
func Table(w io.Writer, v View) error {
	if v.Title == "" {
		v.Title = "Project Archive"
	}
	if err := page.Execute(w, v); err != nil {
		return fmt.Errorf("render archive: %w", err)
	}
	return nil
}
