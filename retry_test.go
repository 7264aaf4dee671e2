package tpcc

import (
	"context"
	"testing"

	"github.com/hhkbp2/testify/require"
	"github.com/pkg/errors"
)

var (
	testStatement = Statement{Tag: "T-01", SQL: "UPDATE t SET v = v + 1 WHERE k = ?"}
)

func conflicts(k int) []BasicResult {
	ret := make([]BasicResult, 0, k)
	for i := 0; i < k; i++ {
		ret = append(ret, BasicResult{Err: ErrConflict})
	}
	return ret
}

func updateAndCommit(db DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if _, err := db.Exec(ctx, testStatement, 1); err != nil {
			return err
		}
		return db.Commit(ctx)
	}
}

func TestRetryControllerRetriesConflicts(t *testing.T) {
	ctx := context.Background()
	for _, k := range []int{0, 1, 7, 999} {
		db := NewBasicDB()
		db.Respond(testStatement.Tag, conflicts(k)...)
		rc := NewRetryController(db, 1000, 3)
		var conflictsSeen uint
		rc.OnConflict(func(tx string, attempt uint, err error) {
			require.Equal(t, "T", tx)
			conflictsSeen++
			require.Equal(t, conflictsSeen, attempt)
			require.True(t, errors.Is(err, ErrConflict))
		})
		attempts, err := rc.Run(ctx, "T", updateAndCommit(db))
		require.Nil(t, err)
		require.Equal(t, uint(k+1), attempts)
		require.Equal(t, uint(k), conflictsSeen)
		require.Equal(t, 1, db.Commits())
		require.Equal(t, k, db.Rollbacks())
	}
}

func TestRetryControllerLimitExceeded(t *testing.T) {
	ctx := context.Background()
	db := NewBasicDB()
	db.Respond(testStatement.Tag, conflicts(1000)...)
	rc := NewRetryController(db, 1000, 1)
	require.Equal(t, uint(1000), rc.Limit())
	attempts, err := rc.Run(ctx, "T", updateAndCommit(db))
	require.NotNil(t, err)
	require.Equal(t, uint(1000), attempts)
	require.Equal(t, ErrorRetryLimitExceeded, ErrorKindOf(err))
	require.Equal(t, 0, db.Commits())
	require.Equal(t, 1000, db.Rollbacks())
	var txErr *TxError
	require.True(t, errors.As(err, &txErr))
	require.Equal(t, "T", txErr.Tx)
	require.Equal(t, int64(1), txErr.Agent)
}

func TestRetryControllerFatal(t *testing.T) {
	ctx := context.Background()
	db := NewBasicDB()
	boom := errors.New("syntax error")
	db.Respond(testStatement.Tag, BasicResult{Err: boom})
	rc := NewRetryController(db, 1000, 0)
	attempts, err := rc.Run(ctx, "T", updateAndCommit(db))
	require.Equal(t, uint(1), attempts)
	require.Equal(t, ErrorFatal, ErrorKindOf(err))
	require.True(t, errors.Is(err, boom))
	require.True(t, IsStoreError(err))
	require.Equal(t, 0, db.Commits())
	require.Equal(t, 1, db.Rollbacks())
}

func TestRetryControllerSimulatedEntryError(t *testing.T) {
	ctx := context.Background()
	db := NewBasicDB()
	rc := NewRetryController(db, 1000, 0)
	attempts, err := rc.Run(ctx, "T", func(ctx context.Context) error {
		require.Nil(t, db.Rollback(ctx))
		return ErrSimulatedEntryError
	})
	require.Equal(t, uint(1), attempts)
	require.Equal(t, ErrorSimulatedEntry, ErrorKindOf(err))
	require.Equal(t, 1, db.Rollbacks())
}

func TestRetryControllerCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	db := NewBasicDB()
	rc := NewRetryController(db, 1000, 0)
	_, err := rc.Run(ctx, "T", updateAndCommit(db))
	require.NotNil(t, err)
	require.Equal(t, 0, db.Commits())
}

func TestRetryControllerRestart(t *testing.T) {
	ctx := context.Background()
	db := NewBasicDB()
	rc := NewRetryController(db, 1000, 0)
	restarts := 3
	attempts, err := rc.Run(ctx, "T", func(ctx context.Context) error {
		if restarts > 0 {
			restarts--
			return errors.WithStack(ErrRestart)
		}
		return db.Commit(ctx)
	})
	require.Nil(t, err)
	require.Equal(t, uint(4), attempts)
	require.Equal(t, 3, db.Rollbacks())
	require.Equal(t, 1, db.Commits())
}
