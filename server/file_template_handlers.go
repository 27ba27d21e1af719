package server

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"sync"
)

//go:embed templates/*
var templateFiles embed.FS

// pageTemplates is the templates directory, resolved once.
var pageTemplates = sync.OnceValues(func() (fs.FS, error) {
	return fs.Sub(templateFiles, "templates")
})

// ParseTemplate parses one page template from the embedded filesystem. Pages
// are parsed once, when their handler is built.
func ParseTemplate(name string) (*template.Template, error) {
	fsys, err := pageTemplates()
	if err != nil {
		return nil, fmt.Errorf("templates unavailable: %w", err)
	}
	tmpl, err := template.New(name).ParseFS(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	return tmpl, nil
}
