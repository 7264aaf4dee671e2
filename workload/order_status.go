package workload

import (
	"context"
	"database/sql"

	"github.com/hhkbp2/tpcc"
	"github.com/pkg/errors"
)

func (self *Agent) orderStatus(ctx context.Context, in *OrderStatusInput) error {
	s := self.statements
	db := self.db
	db.SetReadOnly(true)
	defer db.SetReadOnly(false)

	customerID := in.CustomerID
	var err error
	if in.ByName {
		customerID, err = self.customerByName(ctx, s.O01, in.Warehouse, in.District, in.LastName)
		if err != nil {
			return err
		}
	}
	var balance float64
	var first, middle, last string
	err = tpcc.QueryRow(ctx, db, s.O02, []interface{}{in.Warehouse, in.District, customerID},
		&balance, &first, &middle, &last)
	if err != nil {
		return err
	}

	var orderID int64
	var entry interface{}
	var carrier sql.NullInt64
	err = tpcc.QueryRow(ctx, db, s.O03,
		[]interface{}{in.Warehouse, in.District, in.Warehouse, in.District, customerID},
		&orderID, &entry, &carrier)
	switch {
	case errors.Is(err, tpcc.ErrRowNotFound):
		// the customer has no order yet
		return db.Commit(ctx)
	case err != nil:
		return err
	}

	rows, err := db.Query(ctx, s.O04, in.Warehouse, in.District, orderID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var itemID, supplyWarehouse, quantity int64
		var amount float64
		var delivery interface{}
		if err := rows.Scan(&itemID, &supplyWarehouse, &quantity, &amount, &delivery); err != nil {
			return tpcc.NewStoreError(s.O04.Tag, err)
		}
	}
	if err := rows.Err(); err != nil {
		return tpcc.NewStoreError(s.O04.Tag, err)
	}
	rows.Close()
	return db.Commit(ctx)
}
