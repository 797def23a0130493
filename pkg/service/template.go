package service

import (
	"bytes"
	"fmt"
	"sync"
	"text/template"
)

// TextTemplateRenderer renders message templates with text/template, e.g.
// "Skipping {{.NowPlaying.Title}}: {{.ListenerCount}} listeners agreed".
// Parsed templates are cached by source text.
type TextTemplateRenderer struct {
	mu    sync.RWMutex
	cache map[string]*template.Template
}

// NewTextTemplateRenderer creates a renderer with an empty cache.
func NewTextTemplateRenderer() *TextTemplateRenderer {
	return &TextTemplateRenderer{cache: make(map[string]*template.Template)}
}

// Render implements TemplateRenderer.
func (r *TextTemplateRenderer) Render(source string, vars RoomVariables) (string, error) {
	tmpl, err := r.parse(source)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("failed to render message template: %w", err)
	}
	return buf.String(), nil
}

// Validate reports whether source parses as a template.
func (r *TextTemplateRenderer) Validate(source string) error {
	_, err := r.parse(source)
	return err
}

func (r *TextTemplateRenderer) parse(source string) (*template.Template, error) {
	r.mu.RLock()
	tmpl, ok := r.cache[source]
	r.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	tmpl, err := template.New("message").Option("missingkey=zero").Parse(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse message template: %w", err)
	}

	r.mu.Lock()
	r.cache[source] = tmpl
	r.mu.Unlock()
	return tmpl, nil
}
