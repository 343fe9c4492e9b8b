package views

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"
)

// Content holds the API documentation assets.
//
//go:embed openapi.yaml templates/*
var Content embed.FS

// Templates parses every embedded template. Keys look like
// "static/templates/redoc.html".
func Templates() (map[string]*template.Template, error) {
	names, err := fs.Glob(Content, "templates/*.html")
	if err != nil {
		return nil, err
	}

	ans := make(map[string]*template.Template, len(names))

	for _, name := range names {
		tmpl, err := template.ParseFS(Content, name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}

		ans[path.Join("static", name)] = tmpl
	}

	return ans, nil
}

// OpenAPIJSON returns the embedded OpenAPI document converted to JSON.
func OpenAPIJSON() ([]byte, error) {
	raw, err := Content.ReadFile("openapi.yaml")
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse openapi.yaml: %w", err)
	}

	return json.Marshal(doc)
}
