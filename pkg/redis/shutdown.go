package redis

import (
	"context"
	"io"
)

// Shutdown returns a shutdown hook closing the client.
//
// Example:
//
//	app.Run(":8080", maxitsa.ShutdownHook(redis.Shutdown(client)))
func Shutdown(client io.Closer) func(ctx context.Context) error {
	return func(context.Context) error {
		return client.Close()
	}
}
