package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/ternarybob/pedoman/internal/app"
	"github.com/ternarybob/pedoman/internal/common"
	"github.com/ternarybob/pedoman/internal/server"
)

const shutdownTimeout = 10 * time.Second

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI (default command)",
		Long:  `Serves the browser UI. Each open page keeps a live connection that receives rendered updates.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd)
		},
	}
}

func (c *cli) runServe(cmd *cobra.Command) error {
	common.PrintBanner(c.config)

	c.logger.Info().
		Int("port", c.config.Server.Port).
		Str("host", c.config.Server.Host).
		Str("backend", c.config.Backend.BaseURL).
		Msg("Starting Pedoman server")

	application, err := app.New(c.config, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer application.Close()

	srv := server.New(application)

	serverErr := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				serverErr <- fmt.Errorf("server goroutine panicked: %v", r)
			}
		}()
		serverErr <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-sigChan:
		c.logger.Info().Msg("Interrupt signal received")
	case err := <-serverErr:
		if err != nil {
			return err
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		c.logger.Error().Err(err).Msg("Server shutdown failed")
	}

	c.logger.Info().Msg("Server stopped")
	return nil
}
