// ABOUTME: Entry point for the STS bridge server
// ABOUTME: Loads configuration, builds the Gemini generator and serves HTTP
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/sts-bridge/internal/bridge"
	"github.com/harperreed/sts-bridge/internal/config"
	"github.com/harperreed/sts-bridge/internal/server"
	"github.com/harperreed/sts-bridge/internal/version"
	"github.com/harperreed/sts-bridge/pkg/generate"
)

func main() {
	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set up logging
	f, err := os.OpenFile(cfg.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer f.Close()

	if cfg.TUI {
		// TUI owns the terminal: log only to file
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	apiKey, err := cfg.ResolveAPIKey()
	if err != nil {
		log.Fatalf("Failed to load API key (source: %s): %v", cfg.KeySource, err)
	}

	log.Printf("Starting %s: %s on %s", version.String(), cfg.Name, cfg.Addr())
	log.Printf("Model: %s, output: %d Hz WAV (resample: %v)", cfg.Model, bridge.OutputSampleRate, cfg.Resample)
	if cfg.Debug {
		log.Printf("Debug logging enabled")
	}
	log.Printf("Logging to: %s", cfg.LogFile)

	gen, err := generate.NewGemini(context.Background(), generate.GeminiConfig{
		APIKey: apiKey,
		Model:  cfg.Model,
		Debug:  cfg.Debug,
	})
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}

	svc, err := bridge.New(gen, bridge.Options{
		OutputBitDepth:  bridge.DefaultOutputBitDepth,
		Resample:        cfg.Resample,
		GenerateTimeout: cfg.GenerateTimeout,
		Debug:           cfg.Debug,
	})
	if err != nil {
		log.Fatalf("Failed to create bridge: %v", err)
	}

	srv := server.New(server.Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		Name:            cfg.Name,
		Model:           gen.Model(),
		MaxUploadBytes:  cfg.MaxUploadBytes,
		EnableMDNS:      cfg.MDNS,
		EnableWebSocket: cfg.WebSocket,
		UseTUI:          cfg.TUI,
		Debug:           cfg.Debug,
	}, svc)

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("Received %v signal, shutting down gracefully...", sig)
		srv.Stop()
	}()

	if !cfg.TUI {
		log.Printf("Press Ctrl-C to stop")
	}

	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Printf("Server stopped")
}
