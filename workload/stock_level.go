package workload

import (
	"context"

	"github.com/hhkbp2/tpcc"
)

func (self *Agent) stockLevel(ctx context.Context, in *StockLevelInput) error {
	db := self.db
	db.SetReadOnly(true)
	defer db.SetReadOnly(false)

	var lowStock int64
	err := tpcc.QueryRow(ctx, db, self.statements.S01,
		[]interface{}{in.Warehouse, in.District, in.Threshold}, &lowStock)
	if err != nil {
		return err
	}
	self.log.WithField("tx", tpcc.TxStockLevel).Debugf("district %d: %d items below %d",
		in.District, lowStock, in.Threshold)
	return db.Commit(ctx)
}
