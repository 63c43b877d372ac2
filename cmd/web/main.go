// Web server for go-postboard: lists a collection and creates records from a form
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	prof "github.com/go-while/go-cpu-mem-profiler"
	"github.com/go-while/go-postboard/internal/config"
	"github.com/go-while/go-postboard/internal/web"
	"golang.org/x/term"
)

var (
	// command-line flags
	configFile  string
	envFile     string
	webport     int
	webssl      bool
	webcertFile string
	webkeyFile  string
	storeDriver string
	pbURL       string
	sqlitePath  string
	collection  string
	descKind    string
	debug       bool
	pprofAddr   string
)

var Prof *prof.Profiler

var appVersion = "-unset-"

// set with -ldflags "-X main.buildDomain=..."
var buildDomain = ""

func main() {
	config.AppVersion = appVersion
	if buildDomain != "" {
		config.BuildDomain = buildDomain
	}

	flag.StringVar(&configFile, "config", "", "YAML config file (optional)")
	flag.StringVar(&envFile, "env", ".env", "dotenv file loaded before reading the environment (missing file is ignored)")
	flag.IntVar(&webport, "webport", 0, "Web server port (default: 3000)")
	flag.BoolVar(&webssl, "webssl", false, "Enable SSL")
	flag.StringVar(&webcertFile, "websslcert", "", "SSL certificate file (/path/to/fullchain.pem)")
	flag.StringVar(&webkeyFile, "websslkey", "", "SSL key file (/path/to/privkey.pem)")
	flag.StringVar(&storeDriver, "store", "", "collection store: pocketbase, sqlite or memory (default: pocketbase)")
	flag.StringVar(&pbURL, "pburl", "", "PocketBase address, overrides PB_URL (default: 127.0.0.1:8090)")
	flag.StringVar(&sqlitePath, "sqlite", "", "sqlite database file for -store sqlite")
	flag.StringVar(&collection, "collection", "", "collection to list and create records in (default: posts)")
	flag.StringVar(&descKind, "desckind", "", "type of the desc field: text or bool (default: text)")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging and gin debug mode")
	flag.StringVar(&pprofAddr, "pprof", "", "serve pprof on this address, e.g. :51111 (default: off)")
	flag.Parse()

	log.Printf("Starting go-postboard: Web Server (version: %s)", appVersion)

	if pprofAddr != "" {
		Prof = prof.NewProf()
		go Prof.PprofWeb(pprofAddr)
		log.Printf("[WEB]: pprof listening on %s", pprofAddr)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		gin.DisableConsoleColor()
	}

	mainConfig, err := loadConfig()
	if err != nil {
		log.Fatalf("[WEB]: %v", err)
	}
	webConfig := &mainConfig.Web
	log.Printf("[WEB]: Using WEB configuration: %#v", *webConfig)
	log.Printf("[WEB]: Using STORE driver=%s collection=%s desc=%s", mainConfig.Store.Driver, mainConfig.View.Collection, mainConfig.View.DescKind)

	st, closeStore, err := newStore(mainConfig)
	if err != nil {
		log.Fatalf("[WEB]: Failed to initialize store: %v", err)
	}
	defer closeStore()

	protocol := "http"
	if webConfig.SSL {
		protocol = "https"
	}
	log.Printf("[WEB]: Starting go-postboard web server on %s://localhost:%d", protocol, webConfig.ListenPort)

	server := web.NewServer(st, webConfig, &mainConfig.View)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	webServerErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			webServerErrChan <- err
		}
	}()

	log.Printf("[WEB]: Server started successfully. Press Ctrl+C to gracefully shutdown...")

	select {
	case <-sigChan:
		log.Printf("[WEB]: Received shutdown signal, initiating graceful shutdown...")
	case err := <-webServerErrChan:
		log.Fatalf("[WEB]: Failed to start web server: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[WEB]: Error during shutdown: %v", err)
	}
	log.Printf("[WEB]: Graceful shutdown completed")
} // end main
