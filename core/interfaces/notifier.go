// ABOUTME: Status notifier interface for best-effort operational telemetry
// ABOUTME: Notifications never affect the outcome of the operation that emits them

package interfaces

import "context"

// StatusNotifier delivers short preformatted status messages to an external
// channel (e.g. an operator chat). Calls are fire-and-forget: senders ignore
// the returned error beyond logging it.
type StatusNotifier interface {
	Notify(ctx context.Context, message string) error
}
