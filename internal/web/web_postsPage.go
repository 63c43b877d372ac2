package web

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

// maxFormMemory bounds the in-memory part of a multipart submission
const maxFormMemory = 1 << 20

// postsPage runs the loader and renders the list with its create form
func (s *WebServer) postsPage(c *gin.Context) {
	items, err := s.Loader.Load(c.Request.Context())
	if err != nil {
		s.renderStoreError(c, err)
		return
	}

	data := PostsPageData{
		TemplateData: s.getBaseTemplateData(""),
		Heading:      s.View.Heading,
		Items:        items,
		FormAction:   postsRoute,
		DescKind:     s.Action.DescKind,
	}
	s.renderHTML(c, func(buf *bytes.Buffer) error {
		return RenderPostsPage(buf, data)
	})
}

// postsSubmit handles the form POST: one create, then a redirect back to the loader
func (s *WebServer) postsSubmit(c *gin.Context) {
	form, err := submittedForm(c.Request)
	if err != nil {
		s.renderError(c, http.StatusBadRequest, "Malformed form", err.Error())
		return
	}

	rec, err := s.Action.Submit(c.Request.Context(), form)
	if err != nil {
		s.renderStoreError(c, err)
		return
	}
	if s.Config.Debug {
		log.Printf("[WEB]: created %s, redirecting to %s", rec.ID, postsRoute)
	}
	c.Redirect(http.StatusSeeOther, postsRoute)
}

// submittedForm returns the POST body values of a multipart or urlencoded request
func submittedForm(r *http.Request) (url.Values, error) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}
	if r.PostForm == nil {
		return url.Values{}, nil
	}
	return r.PostForm, nil
}
