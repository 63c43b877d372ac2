package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-while/go-postboard/internal/config"
	"github.com/go-while/go-postboard/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFlagsOverridesConfig(t *testing.T) {
	defer func() {
		webport, storeDriver, pbURL, descKind = 0, "", "", ""
	}()
	webport = 4000
	storeDriver = "MEMORY"
	pbURL = "https://pb.example.org"
	descKind = "Bool"

	cfg := config.NewDefaultConfig()
	applyFlags(cfg)
	assert.Equal(t, 4000, cfg.Web.ListenPort)
	assert.Equal(t, config.StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, "https://pb.example.org", cfg.Store.BaseURL())
	assert.Equal(t, config.DescKindBool, cfg.View.DescKind)
	require.NoError(t, cfg.Validate())
}

func TestNewStoreDrivers(t *testing.T) {
	ctx := context.Background()

	cfg := config.NewDefaultConfig()
	st, closeStore, err := newStore(cfg)
	require.NoError(t, err)
	assert.IsType(t, &store.PocketBase{}, st)
	closeStore()

	cfg.Store.Driver = config.StoreDriverMemory
	cfg.Store.Required = map[string][]string{"posts": {"title"}}
	st, closeStore, err = newStore(cfg)
	require.NoError(t, err)
	_, err = st.Create(ctx, "posts", map[string]any{"title": ""})
	assert.ErrorIs(t, err, store.ErrStoreWrite)
	closeStore()

	cfg.Store.Driver = config.StoreDriverSQLite
	cfg.Store.SQLitePath = filepath.Join(t.TempDir(), "sub", "posts.sq3")
	st, closeStore, err = newStore(cfg)
	require.NoError(t, err)
	_, err = st.Create(ctx, "posts", map[string]any{"title": "a"})
	require.NoError(t, err)
	recs, err := st.List(ctx, "posts")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	closeStore()

	cfg.Store.Driver = "redis"
	_, _, err = newStore(cfg)
	assert.Error(t, err)
}
