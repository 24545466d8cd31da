package app

import "context"

type contextKey struct{}

// NewContext returns a copy of ctx carrying the App, for cobra commands
func NewContext(ctx context.Context, a *App) context.Context {
	return context.WithValue(ctx, contextKey{}, a)
}

// FromContext returns the App stored by NewContext, or nil
func FromContext(ctx context.Context) *App {
	a, _ := ctx.Value(contextKey{}).(*App)
	return a
}
