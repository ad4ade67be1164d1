// Package web holds the console's HTML templates and the view models they
// render.
package web

import (
	"embed"
	"html/template"
	"strings"
	"time"

	"github.com/ppldoc/superadmin-console/internal/table"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Page template names.
const (
	PageLogin       = "login.html"
	PageHospitals   = "hospitals.html"
	PageHospital    = "hospital_detail.html"
	PageAddHospital = "add_hospital.html"
	PageError       = "error.html"
)

// Templates parses every embedded template into one set for
// gin.Engine.SetHTMLTemplate.
func Templates() (*template.Template, error) {
	return template.New("console").Funcs(FuncMap()).ParseFS(templatesFS, "templates/*.html")
}

// FuncMap returns the helpers available to templates.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"dict":        dict,
		"date":        formatDate,
		"activeLabel": func(b bool) string { return table.ActiveLabel(b) },
		"flashClass":  flashClass,
	}
}

func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			m[k] = kv[i+1]
		}
	}
	return m
}

// formatDate renders a backend timestamp. Unparseable values are shown as is.
func formatDate(raw string) string {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	return table.DateTime(t)
}

func flashClass(kind string) string {
	switch strings.ToLower(kind) {
	case "success":
		return "toast toast-success"
	case "error":
		return "toast toast-error"
	}
	return "toast toast-info"
}
