package ports

import "context"

// Pinger is implemented by dependencies that can report their own reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}
