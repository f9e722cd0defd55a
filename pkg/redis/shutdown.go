package redis

import (
	"context"
	"io"
)

// Shutdown returns a shutdown hook that closes the client.
// A nil closer is ignored.
func Shutdown(client io.Closer) func(ctx context.Context) error {
	return func(context.Context) error {
		if client == nil {
			return nil
		}
		return client.Close()
	}
}
