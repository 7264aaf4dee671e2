package workload

import (
	"context"
	"database/sql"

	"github.com/hhkbp2/tpcc"
	"github.com/pkg/errors"
)

// districtOutcome is how the delivery of one district ended.
type districtOutcome uint8

const (
	districtDelivered districtOutcome = iota
	// nothing to deliver, go on with the next district
	districtSkipped
	// another transaction delivered the order first, restart the whole pass
	districtRaced
)

func (self *Agent) delivery(ctx context.Context, in *DeliveryInput) error {
	for d := int64(1); d <= DistrictsPerWarehouse; d++ {
		outcome, err := self.deliverDistrict(ctx, in, d)
		if err != nil {
			return err
		}
		switch outcome {
		case districtSkipped:
			self.log.WithField("tx", tpcc.TxDelivery).Debugf("district %d has no new order", d)
		case districtRaced:
			return errors.Wrapf(tpcc.ErrRestart, "new order of district %d was delivered by another transaction", d)
		}
	}
	return self.db.Commit(ctx)
}

func (self *Agent) deliverDistrict(ctx context.Context, in *DeliveryInput, d int64) (districtOutcome, error) {
	s := self.statements
	db := self.db
	w := in.Warehouse

	var orderID sql.NullInt64
	err := tpcc.QueryRow(ctx, db, s.D01, []interface{}{w, d}, &orderID)
	if err != nil && !errors.Is(err, tpcc.ErrRowNotFound) {
		return districtDelivered, err
	}
	if !orderID.Valid {
		return districtSkipped, nil
	}
	o := orderID.Int64
	deleted, err := db.Exec(ctx, s.D02, w, d, o)
	if err != nil {
		return districtDelivered, err
	}
	if deleted == 0 {
		return districtRaced, nil
	}
	var customerID int64
	if err = tpcc.QueryRow(ctx, db, s.D03, []interface{}{w, d, o}, &customerID); err != nil {
		return districtDelivered, err
	}
	if _, err = db.Exec(ctx, s.D04, in.Carrier, w, d, o); err != nil {
		return districtDelivered, err
	}
	if _, err = db.Exec(ctx, s.D05, self.now(), w, d, o); err != nil {
		return districtDelivered, err
	}
	var total sql.NullFloat64
	if err = tpcc.QueryRow(ctx, db, s.D06, []interface{}{w, d, o}, &total); err != nil {
		return districtDelivered, err
	}
	if _, err = db.Exec(ctx, s.D07, total.Float64, w, d, customerID); err != nil {
		return districtDelivered, err
	}
	return districtDelivered, nil
}
