// Package markdown renders markdown documents with YAML front matter into
// sanitized HTML for page content.
package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

var (
	ErrNotFound           = errors.New("markdown: document not found")
	ErrInvalidFrontMatter = errors.New("markdown: invalid front matter")
	ErrRender             = errors.New("markdown: render failed")
)

var fence = []byte("---")

// Meta is the front matter of a document.
type Meta struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Document is a rendered markdown file.
type Document struct {
	Meta Meta
	// HTML is sanitized and safe to embed unescaped.
	HTML string
}

// Renderer converts markdown to sanitized HTML.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewRenderer uses the UGC policy unless policy is given.
func NewRenderer(policy *bluemonday.Policy) *Renderer {
	if policy == nil {
		policy = bluemonday.UGCPolicy()
	}
	return &Renderer{md: goldmark.New(), policy: policy}
}

// Render parses front matter and converts the body.
func (r *Renderer) Render(src []byte) (*Document, error) {
	meta, body, err := splitFrontMatter(src)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return nil, errors.Join(ErrRender, err)
	}
	return &Document{Meta: meta, HTML: r.policy.Sanitize(buf.String())}, nil
}

func splitFrontMatter(src []byte) (Meta, []byte, error) {
	var meta Meta
	if !bytes.HasPrefix(src, fence) {
		return meta, src, nil
	}
	rest := bytes.TrimLeft(src[len(fence):], "\r\n")
	end := bytes.Index(rest, fence)
	if end < 0 {
		return meta, nil, fmt.Errorf("%w: closing fence not found", ErrInvalidFrontMatter)
	}
	if err := yaml.Unmarshal(rest[:end], &meta); err != nil {
		return meta, nil, errors.Join(ErrInvalidFrontMatter, err)
	}
	return meta, bytes.TrimLeft(rest[end+len(fence):], "\r\n"), nil
}

// Library renders documents from a filesystem once and keeps the result.
type Library struct {
	fsys     fs.FS
	renderer *Renderer

	mu   sync.RWMutex
	docs map[string]*Document
}

// NewLibrary serves documents from fsys.
func NewLibrary(fsys fs.FS, r *Renderer) *Library {
	if r == nil {
		r = NewRenderer(nil)
	}
	return &Library{fsys: fsys, renderer: r, docs: map[string]*Document{}}
}

// Get returns the rendered document at name.
func (l *Library) Get(name string) (*Document, error) {
	l.mu.RLock()
	doc, ok := l.docs[name]
	l.mu.RUnlock()
	if ok {
		return doc, nil
	}

	src, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, name, err)
	}
	doc, err = l.renderer.Render(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	l.mu.Lock()
	l.docs[name] = doc
	l.mu.Unlock()
	return doc, nil
}
