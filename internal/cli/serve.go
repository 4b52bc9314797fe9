package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/runnerr0/launchdash/internal/logging"
	"github.com/runnerr0/launchdash/internal/server"
)

// Execute implements the go-flags Commander interface for ServeCommand.
func (c *ServeCommand) Execute(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	if c.Host != "" {
		cfg.Server.Host = c.Host
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if c.LogLevel != "" {
		cfg.Logging.Level = c.LogLevel
	}

	closer, err := setupLogging(cfg, c.globals)
	if err != nil {
		return err
	}
	defer closer.Close()
	logger := logging.New("serve")

	// Everything fatal happens before the listener opens.
	ds, err := loadDataset(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		return err
	}

	store, db, err := openCatalog(ctx, cfg, ds)
	if err != nil {
		logger.Error("startup failed", "error", err)
		return err
	}
	defer db.Close()
	defer store.Close()

	srv, err := server.New(ds, store, cfg.Dashboard, logging.New("http"))
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.Server.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Server.Addr(), err)
	}
	logger.Info("launchdash starting", "version", c.version, "url", "http://"+ln.Addr().String())

	return srv.Run(ctx, ln, cfg.Server)
}
