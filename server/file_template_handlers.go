package server

import (
	"embed"
	"errors"
	"html/template"

	"github.com/jrsteele09/go-todo-web/internal/timestamp"
)

//go:embed templates/*
var templateFiles embed.FS

var templateRoot = embeddedDir(templateFiles, "templates")

const dateLayout = "2006-01-02"

var templateFuncs = template.FuncMap{
	// date renders an optional date for display and for date inputs.
	"date": func(t *timestamp.Time) string {
		if t == nil {
			return ""
		}
		return t.Format(dateLayout)
	},
}

// ParseTemplate parses the named templates from the embedded filesystem.
// The first name is the one Execute renders; the rest supply partials.
func ParseTemplate(names ...string) (*template.Template, error) {
	if len(names) == 0 {
		return nil, errors.New("no template names given")
	}
	return template.New(names[0]).Funcs(templateFuncs).ParseFS(templateRoot, names...)
}

func mustParseTemplate(names ...string) *template.Template {
	tmpl, err := ParseTemplate(names...)
	if err != nil {
		panic("Failed to parse " + names[0] + " template: " + err.Error())
	}
	return tmpl
}
