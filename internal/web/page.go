package web

import "html/template"

const loadErrorMessage = "Failed to load data."

type optionData struct {
	Value    string
	Label    string
	Selected bool
}

type headerData struct {
	Title   string
	SortURL string
	Arrow   string
}

type pageLink struct {
	Number  int
	URL     string
	Current bool
}

type pageData struct {
	Title       string
	Failed      bool
	Error       string
	Options     []optionData
	Category    string
	Search      string
	Sort        string
	Dir         string
	Headers     []headerData
	Rows        [][]template.HTML
	ColumnCount int
	Empty       string
	Info        string
	PrevURL     string
	NextURL     string
	Pages       []pageLink
	ExportCSV   string
	ExportXLSX  string
}

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css">
</head>
<body>
<div class="container py-4">
<h1 class="h3 mb-3">TikTok viral keywords</h1>
<form id="filters" class="row g-2 mb-3" method="get" action="/">
  <input type="hidden" name="category" value="{{.Category}}">
  {{if .Sort}}<input type="hidden" name="sort" value="{{.Sort}}"><input type="hidden" name="dir" value="{{.Dir}}">{{end}}
  <div class="col-auto">
    <label class="form-label" for="categoryFilter">Category</label>
    <select id="categoryFilter" name="selected" class="form-select" onchange="this.form.submit()">
    {{- range .Options}}
      <option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
    {{- end}}
    </select>
  </div>
  <div class="col-auto">
    <label class="form-label" for="search">Search</label>
    <input id="search" type="search" name="q" value="{{.Search}}" class="form-control">
  </div>
  <div class="col-auto align-self-end">
    <button type="submit" class="btn btn-primary">Apply</button>
  </div>
</form>
<div id="trendsContainer">
{{- if not .Failed}}
<div class="mb-2">
  <a class="btn btn-outline-secondary btn-sm" href="{{.ExportCSV}}">CSV</a>
  <a class="btn btn-outline-secondary btn-sm" href="{{.ExportXLSX}}">Excel</a>
</div>
<table id="trendsTable" class="table table-striped">
<thead><tr>
{{- range .Headers}}
  <th><a href="{{.SortURL}}">{{.Title}}</a>{{.Arrow}}</th>
{{- end}}
</tr></thead>
<tbody>
{{- range .Rows}}
<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- else}}
<tr><td colspan="{{.ColumnCount}}" class="text-center">{{$.Empty}}</td></tr>
{{- end}}
</tbody>
</table>
<div class="d-flex justify-content-between align-items-center">
  <div id="trendsInfo">{{.Info}}</div>
  <nav><ul class="pagination mb-0">
    <li class="page-item{{if not .PrevURL}} disabled{{end}}"><a class="page-link" href="{{.PrevURL}}">Previous</a></li>
    {{- range .Pages}}
    <li class="page-item{{if .Current}} active{{end}}"><a class="page-link" href="{{.URL}}">{{.Number}}</a></li>
    {{- end}}
    <li class="page-item{{if not .NextURL}} disabled{{end}}"><a class="page-link" href="{{.NextURL}}">Next</a></li>
  </ul></nav>
</div>
{{- end}}
</div>
{{- if .Failed}}
<p class="text-danger text-center mt-3">{{.Error}}</p>
{{- end}}
</div>
</body>
</html>
`))
