// Package web provides the HTTP server and web interface for go-postboard
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/go-while/go-postboard/internal/config"
	"github.com/go-while/go-postboard/internal/models"
	"github.com/go-while/go-postboard/internal/posts"
	"github.com/go-while/go-postboard/internal/store"
)

// postsRoute is where the loader is attached; the action posts back to it and redirects to it
const postsRoute = "/"

// WebServer represents the web server
type WebServer struct {
	Router    *gin.Engine
	Config    *config.WebConfig
	View      *config.ViewConfig
	Store     store.Store
	Loader    *posts.Loader
	Action    *posts.Action
	StartTime time.Time // Track server start time for uptime calculations
	http      *http.Server
}

// NewServer creates a new web server instance around an already constructed store client
func NewServer(st store.Store, webconfig *config.WebConfig, viewconfig *config.ViewConfig) *WebServer {
	if webconfig.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// Configure Gin to trust reverse proxy headers
	router.SetTrustedProxies([]string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"})

	// Configure security headers based on SSL setup
	secureConfig := secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}

	// Only add SSL-specific headers if SSL is enabled on the application itself
	// (not when running behind a reverse proxy like nginx with SSL)
	if webconfig.SSL {
		secureConfig.SSLRedirect = true
		secureConfig.STSSeconds = 31536000
		secureConfig.STSIncludeSubdomains = true
	}
	router.Use(secure.New(secureConfig))

	descKind, err := models.ParseDescKind(viewconfig.DescKind)
	if err != nil {
		log.Printf("[WEB]: %v, falling back to %s", err, models.DescText)
		descKind = models.DescText
	}

	server := &WebServer{
		Router: router,
		Config: webconfig,
		View:   viewconfig,
		Store:  st,
		Loader: posts.NewLoader(st, viewconfig.Collection),
		Action: posts.NewAction(st, viewconfig.Collection, descKind),
	}
	server.Loader.Debug = webconfig.Debug
	server.Action.Debug = webconfig.Debug
	server.http = &http.Server{
		Addr:    ":" + strconv.Itoa(webconfig.ListenPort),
		Handler: router,
	}

	router.Use(server.ApacheLogFormat())
	router.Use(server.ReverseProxyMiddleware())

	if webconfig.Debug {
		log.Printf("[WEB]: Embedded static files: %v", staticAssetNames())
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all HTTP routes
func (s *WebServer) setupRoutes() {
	// Static files first
	s.Router.GET("/static/*filepath", s.staticFile)
	s.Router.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	s.Router.GET("/robots.txt", func(c *gin.Context) {
		c.String(http.StatusOK, "User-agent: *\nDisallow:\n")
	})
	s.Router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	s.Router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	api := s.Router.Group("/api/v1")
	{
		api.GET("/posts", s.listPosts)
		api.POST("/posts", s.createPost)
	}

	// Views
	s.Router.GET(postsRoute, s.postsPage)
	s.Router.POST(postsRoute, s.postsSubmit)
	s.Router.GET("/hello", s.helloPage)

	s.Router.NoRoute(func(c *gin.Context) {
		s.renderError(c, http.StatusNotFound, "Page not found", c.Request.URL.Path)
	})
}

// Start starts the web server with SSL support if configured
func (s *WebServer) Start() error {
	s.StartTime = time.Now() // Set the start time for uptime calculations
	if s.Config.SSL {
		if s.Config.CertFile == "" || s.Config.KeyFile == "" {
			return errors.New("SSL enabled but cert_file or key_file not specified in config")
		}
		log.Printf("[WEB]: Starting HTTPS server on %s", s.http.Addr)
		return s.http.ListenAndServeTLS(s.Config.CertFile, s.Config.KeyFile)
	}
	log.Printf("[WEB]: Starting HTTP server on %s", s.http.Addr)
	return s.http.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *WebServer) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// ReverseProxyMiddleware handles X-Forwarded headers when running behind a reverse proxy
func (s *WebServer) ReverseProxyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Handle X-Forwarded-Proto to detect if the original request was HTTPS
		if proto := c.GetHeader("X-Forwarded-Proto"); proto == "https" {
			c.Request.URL.Scheme = "https"
		}

		// Handle X-Forwarded-Host to get the original host
		if host := c.GetHeader("X-Forwarded-Host"); host != "" {
			c.Request.Host = strings.TrimSpace(strings.Split(host, ",")[0])
		}

		c.Next()
	}
}

// ApacheLogFormat logs every request in Apache combined log format
func (s *WebServer) ApacheLogFormat() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf(`%s - - [%s] "%s %s %s" %d %d "%s" "%s"`+"\n",
			param.ClientIP,
			param.TimeStamp.Format("02/Jan/2006:15:04:05 -0700"),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.BodySize,
			param.Request.Referer(),
			param.Request.UserAgent(),
		)
	})
}
