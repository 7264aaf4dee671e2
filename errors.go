package tpcc

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrSimulatedEntryError is returned by a New-Order transaction that hit
	// the deliberately unused item id. It is rolled back and never retried.
	ErrSimulatedEntryError = errors.New("item number is not valid")
	// ErrRowNotFound is returned when a statement expected to return a row
	// returned none.
	ErrRowNotFound = errors.New("expected row not found")
	// ErrRestart is returned by a transaction that lost a race against
	// another one and has to be replayed from the start.
	ErrRestart = errors.New("transaction must restart")
	// ErrConflict is the transient conflict reported by the basic db.
	ErrConflict = errors.New("transaction conflict")
)

// StoreError wraps an error reported by the store with the tag of the
// statement that produced it.
type StoreError struct {
	Tag string
	Err error
}

func NewStoreError(tag string, err error) error {
	if err == nil {
		return nil
	}
	return errors.WithStack(&StoreError{
		Tag: tag,
		Err: err,
	})
}

func (self *StoreError) Error() string {
	return fmt.Sprintf("statement %s: %s", self.Tag, self.Err)
}

func (self *StoreError) Unwrap() error {
	return self.Err
}

// IsStoreError tells whether err was reported by the store.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

type ErrorKind uint8

const (
	ErrorTransientConflict ErrorKind = 1 + iota
	ErrorSimulatedEntry
	ErrorRetryLimitExceeded
	ErrorFatal
)

func (self ErrorKind) String() string {
	switch self {
	case ErrorTransientConflict:
		return "TransientConflict"
	case ErrorSimulatedEntry:
		return "SimulatedEntryError"
	case ErrorRetryLimitExceeded:
		return "RetryLimitExceeded"
	case ErrorFatal:
		return "Fatal"
	default:
		return "Unknown"
	}
}

// TxError is the outcome of a transaction that did not commit.
type TxError struct {
	Kind     ErrorKind
	Agent    int64
	Tx       string
	Attempts uint
	Err      error
}

func (self *TxError) Error() string {
	return fmt.Sprintf("agent %d %s after %d attempt(s): %s: %s",
		self.Agent, self.Tx, self.Attempts, self.Kind, self.Err)
}

func (self *TxError) Unwrap() error {
	return self.Err
}

// ErrorKindOf returns the kind of a TxError, or ErrorFatal for any other
// error.
func ErrorKindOf(err error) ErrorKind {
	var te *TxError
	if errors.As(err, &te) {
		return te.Kind
	}
	return ErrorFatal
}
