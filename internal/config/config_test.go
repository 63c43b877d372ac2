package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, StoreDriverPocketBase, cfg.Store.Driver)
	assert.Equal(t, DefaultCollection, cfg.View.Collection)
	assert.Equal(t, DescKindText, cfg.View.DescKind)
	assert.Equal(t, "http://127.0.0.1:8090", cfg.Store.BaseURL())
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvPBURL:      "pocketbase:8090",
		EnvWebPort:    "8080",
		EnvStore:      "SQLite",
		EnvSQLitePath: "/tmp/x.sq3",
		EnvCollection: "todos",
		EnvDescKind:   "Bool",
	}
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))

	assert.Equal(t, "pocketbase:8090", cfg.Store.Address)
	assert.Equal(t, 8080, cfg.Web.ListenPort)
	assert.Equal(t, StoreDriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "/tmp/x.sq3", cfg.Store.SQLitePath)
	assert.Equal(t, "todos", cfg.View.Collection)
	assert.Equal(t, DescKindBool, cfg.View.DescKind)
	require.NoError(t, cfg.Validate())
}

func TestApplyEnvBadPort(t *testing.T) {
	cfg := NewDefaultConfig()
	err := cfg.ApplyEnv(func(k string) string {
		if k == EnvWebPort {
			return "eighty"
		}
		return ""
	})
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "postboard.yaml")
	data := []byte(`
web:
  listen_port: 4000
store:
  driver: memory
  required:
    posts: [title]
view:
  desc_kind: bool
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg := NewDefaultConfig()
	require.NoError(t, cfg.LoadFile(path))

	assert.Equal(t, 4000, cfg.Web.ListenPort)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, []string{"title"}, cfg.Store.Required["posts"])
	assert.Equal(t, DescKindBool, cfg.View.DescKind)
	// untouched keys keep their defaults
	assert.Equal(t, DefaultCollection, cfg.View.Collection)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*MainConfig)
	}{
		{"low port", func(c *MainConfig) { c.Web.ListenPort = 80 }},
		{"ssl without cert", func(c *MainConfig) { c.Web.SSL = true }},
		{"unknown driver", func(c *MainConfig) { c.Store.Driver = "mongo" }},
		{"pocketbase without address", func(c *MainConfig) { c.Store.Address = "" }},
		{"sqlite without path", func(c *MainConfig) { c.Store.Driver = StoreDriverSQLite; c.Store.SQLitePath = "" }},
		{"empty collection", func(c *MainConfig) { c.View.Collection = "" }},
		{"unknown desc kind", func(c *MainConfig) { c.View.DescKind = "number" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestBaseURLKeepsScheme(t *testing.T) {
	assert.Equal(t, "https://pb.example.org", StoreConfig{Address: "https://pb.example.org/"}.BaseURL())
	assert.Equal(t, "http://pb:8090", StoreConfig{Address: "pb:8090"}.BaseURL())
}
