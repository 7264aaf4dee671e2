package tpcc

import (
	"context"

	"github.com/avast/retry-go"
	"github.com/pkg/errors"
)

// RetryController runs one transaction, replaying it from scratch on
// transient conflicts until it commits or the retry limit is reached.
// Inputs of the transaction are chosen before Run() and reused by every
// attempt.
type RetryController struct {
	db         DB
	limit      uint
	agent      int64
	onConflict func(tx string, attempt uint, err error)
}

func NewRetryController(db DB, limit uint, agent int64) *RetryController {
	if limit == 0 {
		limit = 1
	}
	return &RetryController{
		db:    db,
		limit: limit,
		agent: agent,
	}
}

// OnConflict sets a function called after each attempt that failed with a
// transient conflict, once the transaction is rolled back.
func (self *RetryController) OnConflict(f func(tx string, attempt uint, err error)) {
	self.onConflict = f
}

func (self *RetryController) Limit() uint {
	return self.limit
}

// Run calls fn until it returns nil, a non transient error, or the retry
// limit is reached. fn is expected to commit the transaction itself.
// It returns the number of attempts made and nil or a *TxError.
func (self *RetryController) Run(ctx context.Context, tx string, fn func(ctx context.Context) error) (uint, error) {
	var attempts uint
	err := retry.Do(
		func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			attempts++
			return fn(ctx)
		},
		retry.Attempts(self.limit),
		retry.Delay(0),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.RetryIf(func(err error) bool {
			return ctx.Err() == nil && self.IsTransient(err)
		}),
		retry.OnRetry(func(n uint, err error) {
			// rollback before the next attempt replays the transaction
			self.rollback(ctx)
			if self.onConflict != nil {
				self.onConflict(tx, n+1, err)
			}
		}),
	)
	if err == nil {
		return attempts, nil
	}
	txErr := &TxError{
		Agent:    self.agent,
		Tx:       tx,
		Attempts: attempts,
		Err:      err,
	}
	switch {
	case errors.Is(err, ErrSimulatedEntryError):
		// rolled back by the transaction itself
		txErr.Kind = ErrorSimulatedEntry
	case ctx.Err() != nil:
		self.rollback(context.Background())
		txErr.Kind = ErrorFatal
	case self.IsTransient(err):
		// rolled back on the last retry
		txErr.Kind = ErrorRetryLimitExceeded
	default:
		self.rollback(ctx)
		txErr.Kind = ErrorFatal
	}
	return attempts, txErr
}

// IsTransient tells whether err lets the transaction be replayed: a conflict
// reported by the store, or a restart asked by the transaction itself.
func (self *RetryController) IsTransient(err error) bool {
	return errors.Is(err, ErrRestart) || self.db.IsTransient(err)
}

func (self *RetryController) rollback(ctx context.Context) {
	if err := self.db.Rollback(ctx); err != nil {
		Warnf("agent %d fail to rollback: %s", self.agent, err)
	}
}
