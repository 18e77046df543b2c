// Package templates provides the embedded HTML pages, fragments, navigation and static assets.
// Pages and fragments are loaded with resolution order:
// 1. User override: templatesDir/{pages,partials}/{name}.html
// 2. Embedded default: internal/templates/{pages,partials}/{name}.html
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/ternarybob/arbor"
)

//go:embed nav.toml pages/*.html partials/*.html static/*
var embedded embed.FS

// NavItem is one header navigation entry
type NavItem struct {
	Page  string `toml:"page"`
	Path  string `toml:"path"`
	Label string `toml:"label"`
	Title string `toml:"title"`
}

type navFile struct {
	Nav []NavItem `toml:"nav"`
}

// Nav loads the embedded navigation
func Nav() ([]NavItem, error) {
	data, err := embedded.ReadFile("nav.toml")
	if err != nil {
		return nil, fmt.Errorf("navigation not found: %w", err)
	}
	var nav navFile
	if err := toml.Unmarshal(data, &nav); err != nil {
		return nil, fmt.Errorf("failed to parse navigation: %w", err)
	}
	return nav.Nav, nil
}

// StaticFS returns the embedded static assets rooted at static/
func StaticFS() fs.FS {
	sub, err := fs.Sub(embedded, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Renderer executes pages and fragments
type Renderer struct {
	base   *template.Template
	pages  map[string]*template.Template
	nav    []NavItem
	logger arbor.ILogger
}

// NewRenderer parses all templates. overrideDir may be empty.
func NewRenderer(overrideDir string, logger arbor.ILogger) (*Renderer, error) {
	nav, err := Nav()
	if err != nil {
		return nil, err
	}

	base := template.New("").Funcs(Funcs())
	if err := parseDir(base, overrideDir, "partials"); err != nil {
		return nil, err
	}

	r := &Renderer{
		base:   base,
		pages:  make(map[string]*template.Template),
		nav:    nav,
		logger: logger,
	}

	for _, item := range nav {
		page, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone base templates: %w", err)
		}
		data, err := readTemplate(overrideDir, path.Join("pages", item.Page+".html"))
		if err != nil {
			return nil, err
		}
		if _, err := page.New(item.Page + ".html").Parse(string(data)); err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", item.Page, err)
		}
		r.pages[item.Page] = page
	}

	return r, nil
}

func parseDir(t *template.Template, overrideDir, dir string) error {
	entries, err := embedded.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		name := path.Join(dir, entry.Name())
		data, err := readTemplate(overrideDir, name)
		if err != nil {
			return err
		}
		if _, err := t.New(entry.Name()).Parse(string(data)); err != nil {
			return fmt.Errorf("failed to parse %s: %w", name, err)
		}
	}
	return nil
}

// readTemplate prefers overrideDir/name over the embedded copy
func readTemplate(overrideDir, name string) ([]byte, error) {
	if overrideDir != "" {
		if data, err := os.ReadFile(filepath.Join(overrideDir, filepath.FromSlash(name))); err == nil {
			return data, nil
		}
	}
	data, err := embedded.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("template '%s' not found (checked user override and embedded)", name)
	}
	return data, nil
}

// NavItems returns the navigation in display order
func (r *Renderer) NavItems() []NavItem {
	return r.nav
}

// NavItem returns the navigation entry for page
func (r *Renderer) NavItem(page string) (NavItem, bool) {
	for _, item := range r.nav {
		if item.Page == page {
			return item, true
		}
	}
	return NavItem{}, false
}

// RenderPage writes the full page for page (one of the nav pages)
func (r *Renderer) RenderPage(w io.Writer, page string, data interface{}) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	return t.ExecuteTemplate(w, page+".html", data)
}

// RenderFragment renders a named fragment (a {{define}} block in partials) to a string
func (r *Renderer) RenderFragment(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := r.base.ExecuteTemplate(&buf, name, data); err != nil {
		r.logger.Error().Err(err).Str("fragment", name).Msg("Failed to render fragment")
		return "", fmt.Errorf("failed to render fragment %s: %w", name, err)
	}
	return buf.String(), nil
}
