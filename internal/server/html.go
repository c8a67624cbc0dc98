package server

import (
	"html/template"
	"net/http"

	"github.com/goto/encoded/core/search"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} | 4DN Data Portal</title>
</head>
<body>
<h1>{{.Title}}</h1>
<p>{{.Notification}} ({{.Total}} total)</p>
<ul>
{{- range .Graph}}
{{- with index . "@id"}}
<li><a href="{{.}}">{{.}}</a></li>
{{- end}}
{{- end}}
</ul>
<script type="application/json" id="data">{{.}}</script>
</body>
</html>
`))

// writeHTML renders the result as a page that embeds the same JSON
// document the json format returns.
func writeHTML(w http.ResponseWriter, status int, res search.Result) error {
	w.Header().Set("content-type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return pageTemplate.Execute(w, res)
}
