package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mdwlog "github.com/msto63/textomat/foundation/core/log"
	"github.com/msto63/textomat/internal/server"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the websocket endpoint",
	Long: `Start the live processing endpoint.

Routes:
  /ws       websocket, one session per connection
  /healthz  health check (?verbose for the JSON report)
  /version  version information`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (default from config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	app, err := setup(false)
	if err != nil {
		return err
	}
	defer app.Close()

	sc := app.config.Server
	cfg := server.Config{
		Host:           sc.Host,
		Port:           sc.Port,
		ReadTimeout:    sc.ReadTimeout.Duration,
		WriteTimeout:   sc.WriteTimeout.Duration,
		PingInterval:   sc.PingInterval.Duration,
		MaxMessageSize: sc.MaxMessageSize,
		AllowedOrigins: sc.AllowedOrigins,
	}
	if serveHost != "" {
		cfg.Host = serveHost
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	srv, err := server.New(cfg, app.engine, app.logger)
	if err != nil {
		return err
	}

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case sig := <-sigCh:
		app.logger.Info("shutting down", mdwlog.Fields{"signal": sig.String()})
	case err := <-errCh:
		app.logger.ErrorWithErr("server stopped", err)
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Stop(ctx)
}
