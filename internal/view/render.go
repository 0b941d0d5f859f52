// Package view renders the to-do page. Entry text is escaped by html/template.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"todo-list/internal/apierrors"
	"todo-list/internal/scheme"
)

//go:embed templates/index.html
var templatesFS embed.FS

type Renderer struct {
	index *template.Template
}

// New parses the embedded templates. It only fails if the embedded files are
// broken.
func New() (*Renderer, error) {
	t, err := template.ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{index: t}, nil
}

func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

type indexData struct {
	Entries []scheme.Entry
}

// Render produces the full document. Output is buffered so a failed render
// never leaves a partial page on the wire.
func (r *Renderer) Render(entries []scheme.Entry) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.index.Execute(&buf, indexData{Entries: entries}); err != nil {
		return nil, apierrors.Render(fmt.Errorf("%w: %w", apierrors.ErrTemplate, err))
	}
	return buf.Bytes(), nil
}
