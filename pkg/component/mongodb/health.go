package mongodb

import (
	"context"
	"time"
)

// CheckHealth runs a ping against the server with the given timeout.
// A zero timeout falls back to 3 seconds. Intended for readiness and
// liveness probes.
func (c *Client) CheckHealth(timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return c.Ping(ctx)
}
