package notify

import "context"

// Notifier defines the interface for publishing operational alerts to the
// platform admins. This abstraction allows swapping the log-only mock with
// the email integration without refactoring.
type Notifier interface {
	Publish(ctx context.Context, subject, message string) error
}
