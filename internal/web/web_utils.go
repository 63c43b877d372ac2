// Package web provides the HTTP server and web interface for go-postboard
package web

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-while/go-postboard/internal/config"
	"github.com/go-while/go-postboard/internal/posts"
	"github.com/go-while/go-postboard/internal/store"
)

// GetPort returns the listening port from the config
func (s *WebServer) GetPort() int {
	return s.Config.ListenPort
}

// getBaseTemplateData creates a TemplateData struct with common information
func (s *WebServer) getBaseTemplateData(title string) TemplateData {
	if title == "" {
		title = s.View.Title
	}
	return TemplateData{
		Title:       title,
		Description: s.View.Description,
		AppVersion:  config.AppVersion,
		CurrentTime: time.Now().Format("2006-01-02 15:04:05"),
	}
}

// errorStatus maps an error from the loader or the action to an HTTP status
func errorStatus(err error) int {
	switch {
	case errors.Is(err, posts.ErrInvalidSubmission):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrBackendUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, store.ErrStoreWrite):
		var se *store.Error
		if errors.As(err, &se) && se.Status >= 400 && se.Status < 500 {
			return se.Status
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// errorMessage is the short headline shown for an error
func errorMessage(err error) string {
	switch {
	case errors.Is(err, posts.ErrInvalidSubmission):
		return "Invalid submission"
	case errors.Is(err, store.ErrBackendUnavailable):
		return "Collection store unavailable"
	case errors.Is(err, store.ErrStoreWrite):
		return "Collection store rejected the record"
	}
	return "Internal error"
}

// renderStoreError sends a loader or action failure down the error page path
func (s *WebServer) renderStoreError(c *gin.Context, err error) {
	s.renderError(c, errorStatus(err), errorMessage(err), err.Error())
}

// renderError renders an error page
func (s *WebServer) renderError(c *gin.Context, statusCode int, message string, errstring string) {
	log.Printf("[ERROR]: %d %s %s: %s - %s", statusCode, c.Request.Method, c.Request.URL.Path, message, errstring)
	data := ErrorPageData{
		TemplateData: s.getBaseTemplateData("Error"),
		Error:        message,
		StatusCode:   statusCode,
	}
	var buf bytes.Buffer
	if err := RenderErrorPage(&buf, data); err != nil {
		log.Printf("[ERROR]: rendering error template: %v", err)
		c.String(statusCode, "Error: %s - %s", message, errstring)
		return
	}
	c.Data(statusCode, "text/html; charset=utf-8", buf.Bytes())
}

// renderHTML writes a rendered page or falls back to the error page
func (s *WebServer) renderHTML(c *gin.Context, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		s.renderError(c, http.StatusInternalServerError, "Template error", err.Error())
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
