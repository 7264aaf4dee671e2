package workload

import (
	"context"
	"testing"

	"github.com/hhkbp2/tpcc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireReadOnly checks the transaction ran read-only and the db is back
// to read-write afterwards.
func requireReadOnly(t *testing.T, db *tpcc.BasicDB) {
	for _, c := range db.Calls() {
		require.True(t, c.ReadOnly, c.Tag)
	}
	_, err := db.Exec(context.Background(), tpcc.Statement{Tag: "X-01"})
	require.NoError(t, err)
	calls := db.Calls()
	require.False(t, calls[len(calls)-1].ReadOnly)
}

func orderStatusAgent(byName bool) (*Agent, *tpcc.BasicDB) {
	agent, db := newTestAgent(0, 1)
	agent.generators.Districts = constant(2)
	agent.generators.CustomerIDs = constant(9)
	agent.generators.LastNames = constantName("ABLEABLEABLE")
	if byName {
		agent.generators.ByNames = constant(60)
	} else {
		agent.generators.ByNames = constant(100)
	}
	db.Respond("O-02", rows(row(-10.0, "first", "OE", "ABLEABLEABLE")))
	return agent, db
}

func TestOrderStatusWithoutOrder(t *testing.T) {
	agent, db := orderStatusAgent(false)
	status, err := agent.Do(context.Background(), tpcc.TxOrderStatus)
	require.NoError(t, err)
	require.Equal(t, tpcc.StatusOK, status)
	require.Equal(t, []string{"O-02", "O-03", "COMMIT"}, db.Tags())
	assert.Equal(t, []interface{}{int64(1), int64(2), int64(9)}, db.Calls()[0].Args)
	assert.Equal(t, []interface{}{int64(1), int64(2), int64(1), int64(2), int64(9)}, db.Calls()[1].Args)
	requireReadOnly(t, db)
}

func TestOrderStatusByName(t *testing.T) {
	agent, db := orderStatusAgent(true)
	db.Respond("O-01", rows(row(int64(4)), row(int64(8)), row(int64(15)), row(int64(16))))
	db.Respond("O-03", rows(row(int64(12), testNow, nil)))
	db.Respond("O-04", rows(
		row(int64(100), int64(1), int64(5), 10.5, nil),
		row(int64(200), int64(1), int64(5), 3.25, nil),
	))
	status, err := agent.Do(context.Background(), tpcc.TxOrderStatus)
	require.NoError(t, err)
	require.Equal(t, tpcc.StatusOK, status)
	require.Equal(t, []string{"O-01", "O-02", "O-03", "O-04", "COMMIT"}, db.Tags())
	calls := db.Calls()
	assert.Equal(t, []interface{}{int64(1), int64(2), "ABLEABLEABLE"}, calls[0].Args)
	assert.Equal(t, []interface{}{int64(1), int64(2), int64(8)}, calls[1].Args)
	assert.Equal(t, []interface{}{int64(1), int64(2), int64(12)}, calls[3].Args)
	requireReadOnly(t, db)
}

func TestStockLevel(t *testing.T) {
	agent, db := newTestAgent(0, 1)
	agent.generators.Districts = constant(4)
	agent.generators.Thresholds = constant(15)
	db.Respond("S-01", rows(row(int64(6))))
	status, err := agent.Do(context.Background(), tpcc.TxStockLevel)
	require.NoError(t, err)
	require.Equal(t, tpcc.StatusOK, status)
	require.Equal(t, []string{"S-01", "COMMIT"}, db.Tags())
	assert.Equal(t, []interface{}{int64(1), int64(4), int64(15)}, db.Calls()[0].Args)
	requireReadOnly(t, db)
}

func TestReadOnlyResetOnError(t *testing.T) {
	agent, db := newTestAgent(0, 1)
	status, err := agent.Do(context.Background(), tpcc.TxStockLevel)
	require.Error(t, err)
	require.Equal(t, tpcc.StatusError, status)
	requireReadOnly(t, db)
}
