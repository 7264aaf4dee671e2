package workload

import (
	"context"
	"strings"
	"testing"

	"github.com/hhkbp2/tpcc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddWorkloads(t *testing.T) {
	AddWorkloads()
	w, err := tpcc.NewWorkload("tpcc")
	require.NoError(t, err)
	_, ok := w.(*TPCCWorkload)
	require.True(t, ok)
	_, ok = w.(tpcc.NamedTransactionWorkload)
	require.True(t, ok)
}

func TestTPCCWorkloadInitRoutine(t *testing.T) {
	ctx := context.Background()
	w := NewTPCCWorkload()
	require.NoError(t, w.Init(tpcc.NewProperties()))

	db0 := tpcc.NewBasicDB()
	db0.Respond("I-01", rows(row(int64(4))))
	object, err := w.InitRoutine(ctx, db0, 0)
	require.NoError(t, err)
	agent := object.(*Agent)
	assert.Equal(t, int64(1), agent.Warehouse())
	assert.Equal(t, []string{"I-01", "COMMIT"}, db0.Tags())

	db5 := tpcc.NewBasicDB()
	object, err = w.InitRoutine(ctx, db5, 5)
	require.NoError(t, err)
	agent = object.(*Agent)
	assert.Equal(t, int64(2), agent.Warehouse())
	assert.Empty(t, db5.Calls())
	require.NoError(t, w.Cleanup())
}

func TestTPCCWorkloadNotLoaded(t *testing.T) {
	w := NewTPCCWorkload()
	require.NoError(t, w.Init(tpcc.NewProperties()))
	db := tpcc.NewBasicDB()
	db.Respond("I-01", rows(row(int64(0))))
	_, err := w.InitRoutine(context.Background(), db, 0)
	require.Error(t, err)
}

func TestTPCCWorkloadInvalidRetryLimit(t *testing.T) {
	p := tpcc.NewProperties()
	p.Add(tpcc.PropertyRetryLimit, "0")
	require.Error(t, NewTPCCWorkload().Init(p))
}

func TestTPCCWorkloadDoNamedTransaction(t *testing.T) {
	ctx := context.Background()
	w := NewTPCCWorkload()
	require.NoError(t, w.Init(tpcc.NewProperties()))
	db := tpcc.NewBasicDB()
	db.Respond("I-01", rows(row(int64(1))))
	object, err := w.InitRoutine(ctx, db, 0)
	require.NoError(t, err)
	db.Reset()

	db.Respond("S-01", rows(row(int64(0))))
	status, err := w.DoNamedTransaction(ctx, db, object, tpcc.TxStockLevel)
	require.NoError(t, err)
	assert.Equal(t, tpcc.StatusOK, status)

	// nothing is loaded, the agent halts
	status, err = w.DoNamedTransaction(ctx, db, object, tpcc.TxNewOrder)
	require.Error(t, err)
	assert.Equal(t, tpcc.StatusError, status)
	assert.False(t, continueAfter(ctx, err))
}

func loadProperties() tpcc.Properties {
	p := tpcc.NewProperties()
	p.Add(tpcc.PropertyTransactions, "false")
	p.Add(tpcc.PropertyWarehouses, "2")
	p.Add(tpcc.PropertyLoadItems, "20")
	p.Add(tpcc.PropertyLoadCustomers, "30")
	p.Add(tpcc.PropertyLoadOrders, "30")
	p.Add(tpcc.PropertyLoadNewOrders, "9")
	p.Add(tpcc.PropertyLoadBatchSize, "1000")
	return p
}

func TestTPCCWorkloadLoad(t *testing.T) {
	ctx := context.Background()
	w := NewTPCCWorkload()
	require.NoError(t, w.Init(loadProperties()))
	db := tpcc.NewBasicDB()
	object, err := w.InitRoutine(ctx, db, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, countTag(db, "L-item"))
	assert.Equal(t, 1, countTag(db, "L-create-item"))
	assert.Equal(t, 1, countTag(db, "L-create-idx_customer_name"))
	for _, c := range db.Calls() {
		switch c.Tag {
		case "L-item":
			assert.True(t, strings.HasPrefix(c.SQL, "INSERT INTO"))
			assert.Len(t, c.Args, 20*5)
		case "L-create-item":
			assert.True(t, strings.HasPrefix(c.SQL, "CREATE TABLE"))
			assert.Empty(t, c.Args)
		}
	}
	db.Reset()

	require.True(t, w.DoInsert(ctx, db, object))
	require.True(t, w.DoInsert(ctx, db, object))
	require.False(t, w.DoInsert(ctx, db, object))
	assert.Equal(t, 2, countTag(db, "L-warehouse"))
	assert.Equal(t, 2, countTag(db, "L-stock"))
	assert.Equal(t, 20, countTag(db, "L-district"))
	assert.Equal(t, 20, countTag(db, "L-customer"))
	assert.Equal(t, 20, countTag(db, "L-history"))
	assert.Equal(t, 20, countTag(db, "L-new_orders"))
	for _, c := range db.Calls() {
		switch c.Tag {
		case "L-new_orders":
			assert.Len(t, c.Args, 9*3)
		case "L-stock":
			assert.Len(t, c.Args, 20*17)
		}
	}
	require.NoError(t, w.Cleanup())
}

func TestTPCCWorkloadLoadFailure(t *testing.T) {
	ctx := context.Background()
	w := NewTPCCWorkload()
	require.NoError(t, w.Init(loadProperties()))
	db := tpcc.NewBasicDB()
	object, err := w.InitRoutine(ctx, db, 0)
	require.NoError(t, err)
	db.Respond("L-stock", tpcc.BasicResult{Err: tpcc.ErrConflict})
	require.False(t, w.DoInsert(ctx, db, object))
	require.Error(t, w.Cleanup())
}
