package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
)

//go:embed templates/*.html
var embedded embed.FS

// Template names resolved at start-up. Each one is a reusable fragment.
const (
	LoginFormTemplate   = "login-form"
	PostListTemplate    = "post-list"
	PostItemTemplate    = "post-item"
	PostFormTemplate    = "post-form"
	PostDetailTemplate  = "post-detail"
	CommentItemTemplate = "comment-item"

	layoutTemplate = "layout"
)

// RequiredTemplates must all be defined for the front-end to start.
var RequiredTemplates = []string{
	LoginFormTemplate,
	PostListTemplate,
	PostItemTemplate,
	PostFormTemplate,
	PostDetailTemplate,
	CommentItemTemplate,
	layoutTemplate,
}

// Registry maps view names to parsed fragments.
type Registry struct {
	set *template.Template
}

// Layout is the data of the page shell around the root mount point.
type Layout struct {
	Title       string
	LoggedIn    bool
	Username    string
	NoticeTitle string
	NoticeHTML  template.HTML
	Error       string
	Root        template.HTML
}

// LoadRegistry parses every *.html file in fsys and checks that all required templates exist.
func LoadRegistry(fsys fs.FS) (*Registry, error) {
	set, err := template.New("blogfront").ParseFS(fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	for _, name := range RequiredTemplates {
		if set.Lookup(name) == nil {
			return nil, fmt.Errorf("template %q is not defined", name)
		}
	}
	return &Registry{set: set}, nil
}

// LoadEmbedded loads the templates compiled into the binary.
func LoadEmbedded() (*Registry, error) {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		return nil, err
	}
	return LoadRegistry(sub)
}

// MustLoadRegistry is LoadEmbedded that panics if any template is missing.
func MustLoadRegistry() *Registry {
	reg, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	return reg
}

// Fragment executes one named fragment into a detached buffer.
func (r *Registry) Fragment(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.set.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// Mount writes the page shell with the fragment as the only child of the root mount point.
func (r *Registry) Mount(w io.Writer, l Layout) error {
	return r.set.ExecuteTemplate(w, layoutTemplate, l)
}
