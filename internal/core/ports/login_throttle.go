package ports

import "context"

// LoginThrottle limits failed login attempts per email.
type LoginThrottle interface {
	// TooManyAttempts reports whether the email has exceeded the configured
	// failure budget inside the current window.
	TooManyAttempts(ctx context.Context, email string) (bool, error)
	// RecordFailure counts one failed attempt against the email.
	RecordFailure(ctx context.Context, email string) error
	// Reset clears the failure count, called after a successful login.
	Reset(ctx context.Context, email string) error
}
