package notification

import (
	"context"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
)

// RetryNotifier retries a failing notifier with exponential backoff.
type RetryNotifier struct {
	next   Notifier
	config retry.Config
}

// NewRetryNotifier wraps next. maxAttempts below 1 is treated as 1.
func NewRetryNotifier(next Notifier, maxAttempts int, initialDelay time.Duration) *RetryNotifier {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RetryNotifier{
		next: next,
		config: retry.Config{
			MaxAttempts:   maxAttempts,
			InitialDelay:  initialDelay,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

func (n *RetryNotifier) NotifySubmitted(ctx context.Context, s Submission) error {
	retryer := retry.New[struct{}](n.config)
	_, err := retryer.Do(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, n.next.NotifySubmitted(ctx, s)
	})
	return err
}
