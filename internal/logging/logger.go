// Package logging declares the structured logger shared by the server
// components. Handlers and services depend on the interface alone; the
// zap adapter in this package is what the binary wires in.
package logging

import "context"

// Logger writes leveled, structured entries. The variadic args are
// alternating key/value pairs:
//
//	log.Warn(ctx, "login throttled", "ip", ip)
type Logger interface {
	// Info records normal operational events.
	Info(ctx context.Context, msg string, args ...any)

	// Warn records conditions worth attention that do not fail the request.
	Warn(ctx context.Context, msg string, args ...any)

	// Error records failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger that adds the given key/value pairs to every entry.
	With(args ...any) Logger
}
