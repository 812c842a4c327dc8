package template

import (
	"io"
)

// TemplateRenderer is the seam HTML outputs render through. The default
// implementation is the pongo2-backed gotemplate.Engine.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	GlobalContext(data any) error
}
