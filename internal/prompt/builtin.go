package prompt

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed templates/*.md
var builtinFS embed.FS

// loadBuiltin loads an embedded template by name.
func loadBuiltin(name string) (*Template, error) {
	data, err := builtinFS.ReadFile("templates/" + name + ".md")
	if err != nil {
		return nil, fmt.Errorf("reading builtin template %s: %w", name, err)
	}
	return parseTemplate(string(data))
}

// listBuiltins returns info for every embedded template. Entries that
// fail to parse are skipped rather than failing the listing.
func listBuiltins() []TemplateInfo {
	entries, err := builtinFS.ReadDir("templates")
	if err != nil {
		return nil
	}

	var templates []TemplateInfo
	for _, entry := range entries {
		name, ok := strings.CutSuffix(entry.Name(), ".md")
		if !ok || entry.IsDir() {
			continue
		}

		data, err := builtinFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			continue
		}
		tmpl, err := parseTemplate(string(data))
		if err != nil {
			continue
		}

		templates = append(templates, TemplateInfo{
			Name:        name,
			Description: tmpl.Description,
			Source:      "built-in",
		})
	}

	return templates
}
