// Package cli implements the paddock cobra commands.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/paddock/internal/adapters/cli"
	"github.com/example/paddock/internal/wire"
)

// getContainer is replaced in tests.
var getContainer = wire.Get

// commandError prints a service error the way a user can act on it.
type commandError struct{ err error }

func (e commandError) Error() string { return cliadapter.DescribeError(e.err) }
func (e commandError) Unwrap() error { return e.err }

// withContainer runs fn against the wired application and stops the store
// afterwards.
func withContainer(cmd *cobra.Command, fn func(ctx context.Context, c *wire.Container) error) error {
	c, err := getContainer()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	defer func() {
		if err := c.Close(ctx); err != nil {
			c.Log.Warnw("failed to close store", "error", err.Error())
		}
	}()

	if err := fn(ctx, c); err != nil {
		return commandError{err: err}
	}
	return nil
}
