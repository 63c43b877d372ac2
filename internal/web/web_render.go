package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/go-while/go-postboard/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

// page templates, each one parsed together with base.html
var pageTemplates = mustLoadTemplates("posts.html", "hello.html", "error.html")

func mustLoadTemplates(pages ...string) map[string]*template.Template {
	out := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		out[page] = template.Must(template.ParseFS(templatesFS, "templates/base.html", "templates/"+page))
	}
	return out
}

// TemplateData represents common template data
type TemplateData struct {
	Title       string
	Description string
	AppVersion  string
	CurrentTime string
}

// PostsPageData represents data for the posts view
type PostsPageData struct {
	TemplateData
	Heading    string
	Items      []models.DisplayItem
	FormAction string
	DescKind   models.DescKind
}

// DescIsBool switches the desc input to a checkbox
func (d PostsPageData) DescIsBool() bool { return d.DescKind == models.DescBool }

// HelloPageData represents data for the hello view
type HelloPageData struct {
	TemplateData
	BuildDomain string
}

// ErrorPageData represents data for the error page
type ErrorPageData struct {
	TemplateData
	Error      string
	StatusCode int
}

// RenderPostsPage renders the posts list and the create form
func RenderPostsPage(w io.Writer, data PostsPageData) error {
	return renderPage(w, "posts.html", data)
}

// RenderHelloPage renders the hello view
func RenderHelloPage(w io.Writer, data HelloPageData) error {
	return renderPage(w, "hello.html", data)
}

// RenderErrorPage renders the error page
func RenderErrorPage(w io.Writer, data ErrorPageData) error {
	return renderPage(w, "error.html", data)
}

// renderPage executes into a buffer so a failing template never leaves half a page on the wire
func renderPage(w io.Writer, page string, data any) error {
	tmpl, ok := pageTemplates[page]
	if !ok {
		return fmt.Errorf("unknown template %s", page)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
