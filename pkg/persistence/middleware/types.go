// Package middleware wraps a BlobStore with behaviour applied to every export on its
// way in or out of the store.
package middleware

import "github.com/aretw0/outliner/pkg/ports"

// Middleware allows wrapping a BlobStore to add behavior.
type Middleware func(ports.BlobStore) ports.BlobStore

// Chain applies middlewares so that the first one is outermost.
func Chain(store ports.BlobStore, mws ...Middleware) ports.BlobStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
