package pipeline

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/submission-digest-api/internal/models"
)

//go:embed digest.html.tmpl
var digestTemplateText string

var digestTemplate = template.Must(template.New("digest").Parse(digestTemplateText))

type digestPage struct {
	Title   string
	Records []models.DisplayRecord
}

// Render builds the standalone digest document for records, in order. All
// interpolated values are HTML-escaped and styling is inlined, so the output
// needs no external resources.
func Render(records []models.DisplayRecord) (string, error) {
	var b strings.Builder
	if err := RenderTo(&b, models.DigestTitle, records); err != nil {
		return "", err
	}
	return b.String(), nil
}

// RenderTo writes the digest with the given title to w
func RenderTo(w io.Writer, title string, records []models.DisplayRecord) error {
	if err := digestTemplate.Execute(w, digestPage{Title: title, Records: records}); err != nil {
		return fmt.Errorf("render digest: %w", err)
	}
	return nil
}
