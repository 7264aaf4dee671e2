package workload

import (
	"context"
	"testing"

	"github.com/hhkbp2/tpcc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deliveryAgent() (*Agent, *tpcc.BasicDB) {
	agent, db := newTestAgent(0, 1)
	agent.generators.Carriers = constant(7)
	db.RespondFunc("D-03", func(args []interface{}) tpcc.BasicResult {
		return rows(row(int64(55)))
	})
	db.RespondFunc("D-06", func(args []interface{}) tpcc.BasicResult {
		return rows(row(42.5))
	})
	return agent, db
}

func countTag(db *tpcc.BasicDB, tag string) int {
	n := 0
	for _, t := range db.Tags() {
		if t == tag {
			n++
		}
	}
	return n
}

func TestDeliverySkipsEmptyDistricts(t *testing.T) {
	agent, db := deliveryAgent()
	db.RespondFunc("D-01", func(args []interface{}) tpcc.BasicResult {
		switch args[1].(int64) {
		case 3:
			// MIN() over no row
			return rows(row(nil))
		case 6:
			return tpcc.BasicResult{}
		default:
			return rows(row(int64(2101)))
		}
	})
	status, err := agent.Do(context.Background(), tpcc.TxDelivery)
	require.NoError(t, err)
	require.Equal(t, tpcc.StatusOK, status)

	assert.Equal(t, 10, countTag(db, "D-01"))
	assert.Equal(t, 8, countTag(db, "D-02"))
	assert.Equal(t, 8, countTag(db, "D-07"))
	assert.Equal(t, 1, db.Commits())
	assert.Equal(t, 0, db.Rollbacks())

	districts := make([]int64, 0, 8)
	for _, c := range db.Calls() {
		switch c.Tag {
		case "D-04":
			assert.Equal(t, int64(7), c.Args[0])
			assert.Equal(t, int64(2101), c.Args[3])
			districts = append(districts, c.Args[2].(int64))
		case "D-05":
			assert.Equal(t, testNow, c.Args[0])
		case "D-07":
			assert.Equal(t, []interface{}{42.5, int64(1), c.Args[2], int64(55)}, c.Args)
		}
	}
	assert.Equal(t, []int64{1, 2, 4, 5, 7, 8, 9, 10}, districts)
	assert.Equal(t, "COMMIT", db.Tags()[len(db.Tags())-1])
}

func TestDeliveryRestartsOnRace(t *testing.T) {
	agent, db := deliveryAgent()
	conflicts := tpcc.GetMeasurements().GetStatusCount(tpcc.TxDelivery, tpcc.StatusConflict)
	db.RespondFunc("D-01", func(args []interface{}) tpcc.BasicResult {
		return rows(row(int64(2101)))
	})
	// district 2 was delivered by someone else
	db.Respond("D-02", tpcc.BasicResult{Affected: 1}, tpcc.BasicResult{Affected: 0})
	status, err := agent.Do(context.Background(), tpcc.TxDelivery)
	require.NoError(t, err)
	require.Equal(t, tpcc.StatusOK, status)

	tags := db.Tags()
	assert.Equal(t, "D-02", tags[8])
	assert.Equal(t, int64(2), db.Calls()[8].Args[1])
	// the pass restarts from district 1 after the rollback
	assert.Equal(t, "D-01", tags[9])
	assert.Equal(t, int64(1), db.Calls()[9].Args[1])
	assert.Equal(t, 12, countTag(db, "D-01"))
	assert.Equal(t, 1, db.Rollbacks())
	assert.Equal(t, 1, db.Commits())
	assert.Equal(t, conflicts+1, tpcc.GetMeasurements().GetStatusCount(tpcc.TxDelivery, tpcc.StatusConflict))
}
