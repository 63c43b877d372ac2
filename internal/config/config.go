// Package config provides configuration management for go-postboard.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

var AppVersion = "-unset-" // will be set at build time

// BuildDomain is substituted at build time (-ldflags "-X ...config.BuildDomain=example.org")
// and rendered verbatim by the hello view.
var BuildDomain = ""

const (
	// Store drivers
	StoreDriverPocketBase = "pocketbase"
	StoreDriverSQLite     = "sqlite"
	StoreDriverMemory     = "memory"

	// Desc field kinds
	DescKindText = "text"
	DescKindBool = "bool"

	DefaultCollection = "posts"
	DefaultPBAddress  = "127.0.0.1:8090"
	DefaultListenPort = 3000

	// Environment variables
	EnvPBURL      = "PB_URL"
	EnvWebPort    = "POSTBOARD_WEB_PORT"
	EnvStore      = "POSTBOARD_STORE"
	EnvSQLitePath = "POSTBOARD_SQLITE_PATH"
	EnvCollection = "POSTBOARD_COLLECTION"
	EnvDescKind   = "POSTBOARD_DESC_KIND"
)

// MainConfig holds the main configuration for go-postboard
type MainConfig struct {
	// Mutex for thread-safe access
	mux sync.Mutex `json:"-" yaml:"-"`

	// Web interface settings
	Web WebConfig `json:"web" yaml:"web"`

	// Collection store settings
	Store StoreConfig `json:"store" yaml:"store"`

	// Posts view settings
	View ViewConfig `json:"view" yaml:"view"`

	AppVersion string `json:"app_version" yaml:"-"` // Application version, set at build time
}

// WebConfig holds web interface configuration
type WebConfig struct {
	ListenPort int    `json:"listen_port" yaml:"listen_port"`
	SSL        bool   `json:"ssl" yaml:"ssl"`
	CertFile   string `json:"cert_file,omitempty" yaml:"cert_file,omitempty"`
	KeyFile    string `json:"key_file,omitempty" yaml:"key_file,omitempty"`
	Debug      bool   `json:"debug" yaml:"debug"` // gin debug mode + verbose logging
}

// StoreConfig selects and addresses the collection store
type StoreConfig struct {
	Driver     string              `json:"driver" yaml:"driver"`           // pocketbase | sqlite | memory
	Address    string              `json:"address" yaml:"address"`         // host:port of the PocketBase API, scheme optional
	SQLitePath string              `json:"sqlite_path" yaml:"sqlite_path"` // used by the sqlite driver
	Required   map[string][]string `json:"required,omitempty" yaml:"required,omitempty"`
}

// ViewConfig holds posts view settings
type ViewConfig struct {
	Collection  string `json:"collection" yaml:"collection"`
	DescKind    string `json:"desc_kind" yaml:"desc_kind"` // text | bool
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Heading     string `json:"heading" yaml:"heading"`
}

// NewDefaultConfig returns a configuration with sensible defaults
func NewDefaultConfig() *MainConfig {
	maincfg := &MainConfig{
		AppVersion: AppVersion,
		Web: WebConfig{
			ListenPort: DefaultListenPort,
		},
		Store: StoreConfig{
			Driver:     StoreDriverPocketBase,
			Address:    DefaultPBAddress,
			SQLitePath: "data/postboard.sq3",
		},
		View: ViewConfig{
			Collection:  DefaultCollection,
			DescKind:    DescKindText,
			Title:       "Postboard",
			Description: "Posts stored in a collection store",
			Heading:     "Postboard + PocketBase example project",
		},
	}
	return maincfg
}

// LoadFile merges a YAML config file into the config. Keys missing in the file keep their current value.
func (c *MainConfig) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	c.mux.Lock()
	defer c.mux.Unlock()
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	log.Printf("[CONFIG]: Loaded config file %s", path)
	return nil
}

// ApplyEnv overrides config values from environment variables
func (c *MainConfig) ApplyEnv(getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}
	c.mux.Lock()
	defer c.mux.Unlock()

	if v := getenv(EnvPBURL); v != "" {
		c.Store.Address = v
	}
	if v := getenv(EnvWebPort); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvWebPort, v, err)
		}
		c.Web.ListenPort = p
	}
	if v := getenv(EnvStore); v != "" {
		c.Store.Driver = strings.ToLower(v)
	}
	if v := getenv(EnvSQLitePath); v != "" {
		c.Store.SQLitePath = v
	}
	if v := getenv(EnvCollection); v != "" {
		c.View.Collection = v
	}
	if v := getenv(EnvDescKind); v != "" {
		c.View.DescKind = strings.ToLower(v)
	}
	return nil
}

// Validate checks the configuration for values the server cannot start with
func (c *MainConfig) Validate() error {
	c.mux.Lock()
	defer c.mux.Unlock()

	if c.Web.ListenPort < 1024 || c.Web.ListenPort > 65535 {
		return fmt.Errorf("invalid port number: %d (must be between 1024 and 65535)", c.Web.ListenPort)
	}
	if c.Web.SSL && (c.Web.CertFile == "" || c.Web.KeyFile == "") {
		return fmt.Errorf("SSL enabled but cert_file or key_file not specified")
	}
	switch c.Store.Driver {
	case StoreDriverPocketBase:
		if c.Store.Address == "" {
			return fmt.Errorf("store driver %s needs an address (%s)", c.Store.Driver, EnvPBURL)
		}
	case StoreDriverSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("store driver %s needs sqlite_path", c.Store.Driver)
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.View.Collection == "" {
		return fmt.Errorf("collection name must not be empty")
	}
	switch c.View.DescKind {
	case DescKindText, DescKindBool:
	default:
		return fmt.Errorf("unknown desc kind %q (want %s or %s)", c.View.DescKind, DescKindText, DescKindBool)
	}
	return nil
}

// BaseURL returns the PocketBase base URL. The address is prefixed with http:// unless it carries a scheme.
func (s StoreConfig) BaseURL() string {
	addr := strings.TrimRight(s.Address, "/")
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return addr
	}
	return "http://" + addr
}
