package vanilla

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// ResultsTemplate is the template name rendered for a results table.
const ResultsTemplate = "templates/results.tmpl"

// TemplatesFS exposes the embedded template bundle so callers can extend or
// override it via WithTemplatesFS.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
