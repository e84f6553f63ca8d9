package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"SentimentExporter/internal/infrastructure/scheduler"
	transport "SentimentExporter/internal/transport/http"
)

var listenAddr string

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves exports and previews over HTTP.",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApplication()
		if err != nil {
			return err
		}

		addr := cfg.Server.Addr
		if listenAddr != "" {
			addr = listenAddr
		}

		handler := transport.NewExportHandler(application, logger)
		srv := &http.Server{
			Addr:              addr,
			Handler:           handler.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		warmer := scheduler.NewWarmer(cfg.Server.WarmInterval)
		warmer.Start(cmd.Context(), func(ctx context.Context, _ time.Time) {
			application.Warm(ctx)
		})
		defer warmer.Stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("http server listening", "addr", addr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-cmd.Context().Done():
			logger.Info("shutting down http server")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		}
	},
}
