package middleware

import "github.com/Moosa-Imran/Content-Machine-sub001/pkg/ports"

// Middleware allows wrapping a FrameworkStore to add behavior.
type Middleware func(ports.FrameworkStore) ports.FrameworkStore

// Chain wraps store with the given middlewares. The first middleware is the outermost.
func Chain(store ports.FrameworkStore, mws ...Middleware) ports.FrameworkStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
