package templates

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/ternarybob/pedoman/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Raw HTML inside answers is dropped: goldmark omits it unless WithUnsafe is set.
var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
		extension.Linkify,
	),
)

// RenderMarkdown converts an assistant answer to HTML
func RenderMarkdown(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Funcs is the function map available to every template
func Funcs() template.FuncMap {
	return template.FuncMap{
		"markdown": func(content string) template.HTML {
			html, err := RenderMarkdown(content)
			if err != nil {
				return template.HTML(template.HTMLEscapeString(content))
			}
			return html
		},
		"sourceLine":     func(s models.Source) string { return s.Line() },
		"processingTime": models.FormatProcessingTime,
		"docTypeLabel":   models.DocumentTypeLabel,
		"namespaceLabel": models.NamespaceLabel,
		"healthLabel":    models.HealthLabel,
		"serviceLabel":   models.ServiceLabel,
		"serviceStatus":  models.ServiceStatusLabel,
		"chunks":         models.ChunksLabel,
		"barPercent": func(count, max int) string {
			return fmt.Sprintf("%.1f%%", models.BarPercent(count, max))
		},
		"uptime": func(ts models.Timestamp) string {
			return models.FormatUptime(ts.Time, time.Now())
		},
		"clock": func(t time.Time) string {
			return t.Format("15:04")
		},
		"dict": func(pairs ...interface{}) (map[string]interface{}, error) {
			if len(pairs)%2 != 0 {
				return nil, fmt.Errorf("dict needs key/value pairs")
			}
			m := make(map[string]interface{}, len(pairs)/2)
			for i := 0; i < len(pairs); i += 2 {
				key, ok := pairs[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict key %v is not a string", pairs[i])
				}
				m[key] = pairs[i+1]
			}
			return m, nil
		},
		"deref": func(f *float64) float64 {
			if f == nil {
				return 0
			}
			return *f
		},
	}
}
