package commands

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	logger "github.com/sirupsen/logrus"

	"github.com/Orbs/jspm-git/internal/domain/entities"
)

// WithRetry runs operation up to attempts times with exponential backoff,
// retrying only retriable source errors.
func WithRetry[T any](
	ctx context.Context,
	attempts uint,
	initialDelay time.Duration,
	log logger.FieldLogger,
	operation func() (T, error),
) (T, error) {
	if attempts <= 1 {
		return operation()
	}
	if log == nil {
		log = entities.NewNopLogger()
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = initialDelay
	expBackoff.MaxInterval = 30 * initialDelay
	expBackoff.Reset()

	return backoff.Retry(ctx, func() (T, error) {
		result, err := operation()
		if err != nil && !entities.IsRetriable(err) {
			return result, backoff.Permanent(err)
		}
		return result, err
	},
		backoff.WithBackOff(expBackoff),
		backoff.WithMaxTries(attempts),
		backoff.WithNotify(func(err error, duration time.Duration) {
			log.Warnf("Retrying in %s: %v", duration.Round(time.Millisecond), err)
		}),
	)
}
