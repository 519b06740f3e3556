// Package delivery defines the contract every transport entrypoint satisfies.
package delivery

import "context"

// Delivery is a serveable transport (HTTP today).
type Delivery interface {
	// Serve blocks serving requests until the listener fails or is shut down.
	Serve(ctx context.Context) error
}
