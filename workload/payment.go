package workload

import (
	"context"

	"github.com/hhkbp2/tpcc"
)

const (
	BadCredit = "BC"
)

type address struct {
	name    string
	street1 string
	street2 string
	city    string
	state   string
	zip     string
}

func (self *address) dest() []interface{} {
	return []interface{}{&self.name, &self.street1, &self.street2, &self.city, &self.state, &self.zip}
}

type paymentCustomer struct {
	first     string
	middle    string
	last      string
	street1   string
	street2   string
	city      string
	state     string
	zip       string
	phone     string
	credit    string
	creditLim float64
	discount  float64
	balance   float64
	data      string
}

func (self *paymentCustomer) dest() []interface{} {
	return []interface{}{&self.first, &self.middle, &self.last, &self.street1, &self.street2,
		&self.city, &self.state, &self.zip, &self.phone, &self.credit,
		&self.creditLim, &self.discount, &self.balance, &self.data}
}

func (self *Agent) payment(ctx context.Context, in *PaymentInput) error {
	s := self.statements
	db := self.db

	var warehouse address
	err := tpcc.QueryRow(ctx, db, s.P01, []interface{}{in.Warehouse}, warehouse.dest()...)
	if err != nil {
		return err
	}
	if _, err = db.Exec(ctx, s.P02, in.Amount, in.Warehouse); err != nil {
		return err
	}
	var district address
	err = tpcc.QueryRow(ctx, db, s.P03, []interface{}{in.Warehouse, in.District}, district.dest()...)
	if err != nil {
		return err
	}
	if _, err = db.Exec(ctx, s.P04, in.Amount, in.Warehouse, in.District); err != nil {
		return err
	}

	customerID := in.CustomerID
	if in.ByName {
		customerID, err = self.customerByName(ctx, s.P05, in.CustomerWarehouse, in.CustomerDistrict, in.LastName)
		if err != nil {
			return err
		}
	}
	var customer paymentCustomer
	err = tpcc.QueryRow(ctx, db, s.P06, []interface{}{in.CustomerWarehouse, in.CustomerDistrict, customerID},
		customer.dest()...)
	if err != nil {
		return err
	}
	if customer.credit == BadCredit {
		_, err = db.Exec(ctx, s.P07, in.Amount, in.Amount, BadCreditData(customerID, in, customer.data),
			in.CustomerWarehouse, in.CustomerDistrict, customerID)
	} else {
		_, err = db.Exec(ctx, s.P08, in.Amount, in.Amount,
			in.CustomerWarehouse, in.CustomerDistrict, customerID)
	}
	if err != nil {
		return err
	}

	hID := HistoryID(in.Warehouse, in.District, customerID, self.random.Uniform(1, 1000000000))
	_, err = db.Exec(ctx, s.P09, hID, customerID, in.CustomerDistrict, in.CustomerWarehouse,
		in.District, in.Warehouse, self.now(), in.Amount, warehouse.name+"    "+district.name)
	if err != nil {
		return err
	}
	return db.Commit(ctx)
}
