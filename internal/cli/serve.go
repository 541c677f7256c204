package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpadapter "github.com/example/paddock/internal/adapters/http"
	"github.com/example/paddock/internal/wire"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and /metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *wire.Container) error {
				if addr == "" {
					addr = c.Config.HTTP.Addr
				}
				ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				serv := httpadapter.NewServer(c.Config.HTTP, c.HTTPHandler(), c.Metrics.Registry(), c.Metrics, c.Log)

				errCh := make(chan error, 1)
				go func() {
					c.Log.Infow("http listening", "addr", addr)
					errCh <- serv.Listen(addr)
				}()

				select {
				case err := <-errCh:
					return err
				case <-ctx.Done():
				}

				c.Log.Infow("shutting down")
				if err := serv.ShutdownWithTimeout(c.Config.HTTP.ShutdownTimeout); err != nil {
					return err
				}
				if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
					c.Log.Warnw("listener stopped", "error", err.Error())
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to http.addr)")
	return cmd
}
