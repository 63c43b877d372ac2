// Package web provides the HTTP server and web interface for go-postboard
package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-while/go-postboard/internal/models"
	"github.com/go-while/go-postboard/internal/posts"
	"github.com/go-while/go-postboard/internal/store"
)

// createPostRequest is the JSON body of POST /api/v1/posts
type createPostRequest struct {
	Title string `json:"title"`
	Desc  any    `json:"desc"`
}

// listPosts returns the loader output as JSON
func (s *WebServer) listPosts(c *gin.Context) {
	items, err := s.Loader.Load(c.Request.Context())
	if err != nil {
		s.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"collection": s.Loader.Collection,
		"items":      items,
	})
}

// createPost runs the action for a JSON or form body and returns the created record
func (s *WebServer) createPost(c *gin.Context) {
	var form url.Values
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req createPostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body: " + err.Error()})
			return
		}
		form = url.Values{}
		form.Set(models.FieldTitle, req.Title)
		if req.Desc != nil {
			form.Set(models.FieldDesc, jsonFormValue(req.Desc))
		}
	} else {
		var err error
		if form, err = submittedForm(c.Request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed form: " + err.Error()})
			return
		}
	}

	rec, err := s.Action.Submit(c.Request.Context(), form)
	if err != nil {
		s.apiError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"record": rec})
}

// jsonFormValue renders a decoded JSON scalar the way it would arrive in a form
func jsonFormValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return fmt.Sprint(v)
}

// apiError writes a JSON error with the same status mapping as the error page
func (s *WebServer) apiError(c *gin.Context, err error) {
	body := gin.H{"error": errorMessage(err), "detail": err.Error()}
	var se *store.Error
	if errors.As(err, &se) && len(se.Fields) > 0 {
		body["fields"] = se.Fields
	}
	var fe *posts.FieldError
	if errors.As(err, &fe) {
		body["fields"] = map[string]store.FieldError{
			fe.Field: {Code: "validation_invalid", Message: fe.Reason},
		}
	}
	c.JSON(errorStatus(err), body)
}
