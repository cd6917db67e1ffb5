package http

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

type pageTemplates struct {
	landing *template.Template
	section *template.Template
	error   *template.Template
}

func loadTemplates() (*pageTemplates, error) {
	parse := func(name string) (*template.Template, error) {
		return template.New(name).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
	}
	landing, err := parse("landing")
	if err != nil {
		return nil, fmt.Errorf("http: parse landing template: %w", err)
	}
	section, err := parse("section")
	if err != nil {
		return nil, fmt.Errorf("http: parse section template: %w", err)
	}
	errPage, err := parse("error")
	if err != nil {
		return nil, fmt.Errorf("http: parse error template: %w", err)
	}
	return &pageTemplates{landing: landing, section: section, error: errPage}, nil
}

// tabCSS shows the panel of the checked tab radio.
func tabCSS(anchors []string) template.CSS {
	var b strings.Builder
	for _, anchor := range anchors {
		fmt.Fprintf(&b, "#tab-%s:checked~#%s{display:block}", anchor, anchor)
		fmt.Fprintf(&b, "#tab-%s:checked+label{border-color:#0366d6}", anchor)
	}
	return template.CSS(b.String())
}
