package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/molehole/internal/logging"
	"github.com/muurk/molehole/internal/server"
)

// Serve command flags
var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Answer discovery requests over HTTP and WebSocket",
	Long: `Start an HTTP server that runs discovery on request.

Routes:
  GET /api/devices?timeout=N       LAN window, then access point scan
  GET /api/devices/lan?timeout=N   LAN only
  GET /api/devices/ap              access point scan only
  GET /healthz                     liveness
  GET /ws                          WebSocket: send {"source":"all","timeout":5}

The server stops gracefully on SIGINT or SIGTERM.`,
	Example: `  # Listen on the configured address (default :8080)
  molehole serve

  # Local only, with request logging
  molehole serve --host 127.0.0.1 --port 9000 --log-level info`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default from config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serveHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}

	srvConfig := &server.Config{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		DefaultTimeout: cfg.Discovery.TimeoutSeconds,
	}
	srv, err := server.New(srvConfig, engine)
	if err != nil {
		return err
	}

	logging.Info("Starting molehole server",
		zap.String("addr", srvConfig.Addr()),
		zap.Float64("default_timeout", srvConfig.DefaultTimeout),
	)
	return srv.Start(cmd.Context())
}
