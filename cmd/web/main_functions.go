package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/go-while/go-postboard/internal/config"
	"github.com/go-while/go-postboard/internal/store"
	"github.com/joho/godotenv"
)

// loadConfig builds the config: defaults, then the YAML file, then .env and the environment, then flags
func loadConfig() (*config.MainConfig, error) {
	mainConfig := config.NewDefaultConfig()

	if configFile != "" {
		if err := mainConfig.LoadFile(configFile); err != nil {
			return nil, err
		}
	}

	if envFile != "" {
		err := godotenv.Load(envFile)
		switch {
		case err == nil:
			log.Printf("[WEB]: Loaded env file %s", envFile)
		case errors.Is(err, fs.ErrNotExist):
			// optional
		default:
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}
	if err := mainConfig.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}

	applyFlags(mainConfig)

	if err := mainConfig.Validate(); err != nil {
		return nil, err
	}
	return mainConfig, nil
}

// applyFlags overrides config values with command-line flags if provided
func applyFlags(mainConfig *config.MainConfig) {
	if webport > 0 {
		mainConfig.Web.ListenPort = webport
		log.Printf("[WEB]: Overriding listen port with command-line flag: %d", webport)
	}
	if webssl {
		mainConfig.Web.SSL = true
		log.Printf("[WEB]: SSL enabled via command-line flag")
	}
	if webcertFile != "" {
		mainConfig.Web.CertFile = webcertFile
	}
	if webkeyFile != "" {
		mainConfig.Web.KeyFile = webkeyFile
	}
	if debug {
		mainConfig.Web.Debug = true
	}
	if storeDriver != "" {
		mainConfig.Store.Driver = strings.ToLower(storeDriver)
	}
	if pbURL != "" {
		mainConfig.Store.Address = pbURL
	}
	if sqlitePath != "" {
		mainConfig.Store.SQLitePath = sqlitePath
	}
	if collection != "" {
		mainConfig.View.Collection = collection
	}
	if descKind != "" {
		mainConfig.View.DescKind = strings.ToLower(descKind)
	}
}

// newStore opens the configured collection store. The returned func releases it.
func newStore(mainConfig *config.MainConfig) (store.Store, func(), error) {
	rules := store.Rules(mainConfig.Store.Required)
	switch mainConfig.Store.Driver {
	case config.StoreDriverPocketBase:
		pb := store.NewPocketBase(mainConfig.Store.BaseURL())
		pb.Debug = mainConfig.Web.Debug
		log.Printf("[WEB]: Using PocketBase at %s", pb.BaseURL)
		return pb, func() {}, nil
	case config.StoreDriverSQLite:
		db, err := store.OpenSQLite(mainConfig.Store.SQLitePath, rules)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[WEB]: Using sqlite store %s", mainConfig.Store.SQLitePath)
		return db, func() {
			if err := db.Close(); err != nil {
				log.Printf("[WEB]: Error closing sqlite store: %v", err)
			}
		}, nil
	case config.StoreDriverMemory:
		log.Printf("[WEB]: Using memory store, records are lost on exit")
		return store.NewMemStore(rules), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", mainConfig.Store.Driver)
}
