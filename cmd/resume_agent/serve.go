package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-auditor/internal/config"
	"github.com/jonathan/resume-auditor/internal/server"
	"github.com/jonathan/resume-auditor/internal/session"
)

var (
	servePort       int
	serveConfigFile string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the upload, dashboard, editor, match and export workflow.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT and the config file)")
	serveCmd.Flags().StringVar(&serveConfigFile, "config", "", "Path to JSON config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(serveConfigFile)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	log.Printf("[server] session backend: %s", cfg.SessionBackend)
	if verbose || cfg.Verbose {
		log.Printf("[server] port=%d session_dir=%s session_ttl=%s rewrite_concurrency=%d",
			cfg.Port, cfg.SessionDir, cfg.TTL(), cfg.RewriteConcurrency)
	}

	srv, err := server.New(context.Background(), server.Config{
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		Sessions: session.Options{
			Backend:     session.Backend(cfg.SessionBackend),
			Dir:         cfg.SessionDir,
			DatabaseURL: cfg.DatabaseURL,
			RedisURL:    cfg.RedisURL,
			RedisTTL:    cfg.TTL(),
		},
		RewriteConcurrency: cfg.RewriteConcurrency,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
