package workload

import (
	"context"
	"math"

	"github.com/hhkbp2/tpcc"
	"github.com/pkg/errors"
)

// Replenish applies the stock replenishment policy to a quantity left after
// an order: stock never drops below 10, 91 is added back instead.
func Replenish(quantity int64) int64 {
	if quantity < 10 {
		quantity += 91
	}
	return quantity
}

// LineAmount is the amount of an order line, rounded to cents.
func LineAmount(quantity int64, price float64) float64 {
	return math.Round(float64(quantity)*price*100) / 100
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (self *Agent) newOrder(ctx context.Context, in *NewOrderInput) error {
	s := self.statements
	db := self.db

	var wTax, cDiscount float64
	var cLast, cCredit string
	err := tpcc.QueryRow(ctx, db, s.N01, []interface{}{in.Warehouse, in.District, in.Customer},
		&wTax, &cDiscount, &cLast, &cCredit)
	if err != nil {
		return err
	}
	var dTax float64
	var orderID int64
	err = tpcc.QueryRow(ctx, db, s.N02, []interface{}{in.Warehouse, in.District},
		&dTax, &orderID)
	if err != nil {
		return err
	}
	if _, err = db.Exec(ctx, s.N03, orderID+1, in.Warehouse, in.District); err != nil {
		return err
	}
	_, err = db.Exec(ctx, s.N04, orderID, in.District, in.Warehouse, in.Customer,
		self.now(), len(in.Lines), boolToInt(in.AllLocal))
	if err != nil {
		return err
	}
	if _, err = db.Exec(ctx, s.N05, orderID, in.District, in.Warehouse); err != nil {
		return err
	}

	for _, line := range in.Lines {
		var price float64
		var iName, iData string
		err = tpcc.QueryRow(ctx, db, s.N06, []interface{}{line.ItemID}, &price, &iName, &iData)
		if errors.Is(err, tpcc.ErrRowNotFound) {
			// a data entry error, nothing more is written
			if err := db.Rollback(ctx); err != nil {
				return err
			}
			return errors.Wrapf(tpcc.ErrSimulatedEntryError, "item %d", line.ItemID)
		}
		if err != nil {
			return err
		}

		var quantity int64
		var dists [DistrictsPerWarehouse]string
		var sData string
		dest := []interface{}{&quantity}
		for i := range dists {
			dest = append(dest, &dists[i])
		}
		dest = append(dest, &sData)
		err = tpcc.QueryRow(ctx, db, s.N07, []interface{}{line.ItemID, line.SupplyWarehouse}, dest...)
		if err != nil {
			return err
		}

		remote := boolToInt(line.SupplyWarehouse != in.Warehouse)
		_, err = db.Exec(ctx, s.N08, Replenish(quantity-line.Quantity), line.Quantity, remote,
			line.ItemID, line.SupplyWarehouse)
		if err != nil {
			return err
		}
		_, err = db.Exec(ctx, s.N09, orderID, in.District, in.Warehouse, line.Number,
			line.ItemID, line.SupplyWarehouse, line.Quantity,
			LineAmount(line.Quantity, price), dists[in.District-1])
		if err != nil {
			return err
		}
	}
	return db.Commit(ctx)
}
