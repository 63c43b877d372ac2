package web

import (
	"bytes"

	"github.com/gin-gonic/gin"
	"github.com/go-while/go-postboard/internal/config"
)

// helloPage renders the static hello view. BuildDomain is fixed at build time.
func (s *WebServer) helloPage(c *gin.Context) {
	data := HelloPageData{
		TemplateData: s.getBaseTemplateData("Hello"),
		BuildDomain:  config.BuildDomain,
	}
	s.renderHTML(c, func(buf *bytes.Buffer) error {
		return RenderHelloPage(buf, data)
	})
}
