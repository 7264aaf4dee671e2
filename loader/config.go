package loader

import (
	"github.com/hhkbp2/tpcc"
	"github.com/pkg/errors"
)

// Config holds the population sizes of a load.
type Config struct {
	Warehouses   int64
	Items        int64
	Customers    int64
	Orders       int64
	NewOrders    int64
	BatchSize    int64
	CreateSchema bool
}

// NewConfig reads the load properties.
func NewConfig(p tpcc.Properties) (*Config, error) {
	var err error
	cfg := &Config{}
	ints := []struct {
		to  *int64
		key string
		def string
	}{
		{&cfg.Warehouses, tpcc.PropertyWarehouses, tpcc.PropertyWarehousesDefault},
		{&cfg.Items, tpcc.PropertyLoadItems, tpcc.PropertyLoadItemsDefault},
		{&cfg.Customers, tpcc.PropertyLoadCustomers, tpcc.PropertyLoadCustomersDefault},
		{&cfg.Orders, tpcc.PropertyLoadOrders, tpcc.PropertyLoadOrdersDefault},
		{&cfg.NewOrders, tpcc.PropertyLoadNewOrders, tpcc.PropertyLoadNewOrdersDefault},
		{&cfg.BatchSize, tpcc.PropertyLoadBatchSize, tpcc.PropertyLoadBatchSizeDefault},
	}
	for _, v := range ints {
		if *v.to, err = p.GetInt(v.key, v.def); err != nil {
			return nil, err
		}
	}
	cfg.CreateSchema, err = p.GetBool(tpcc.PropertySchemaCreate, tpcc.PropertySchemaCreateDefault)
	if err != nil {
		return nil, err
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (self *Config) Validate() error {
	switch {
	case self.Warehouses <= 0:
		return errors.Errorf("invalid %s=%d", tpcc.PropertyWarehouses, self.Warehouses)
	case self.Items <= 0:
		return errors.Errorf("invalid %s=%d", tpcc.PropertyLoadItems, self.Items)
	case self.Customers <= 0:
		return errors.Errorf("invalid %s=%d", tpcc.PropertyLoadCustomers, self.Customers)
	case self.Orders <= 0 || self.Orders > self.Customers:
		return errors.Errorf("invalid %s=%d, it must be in 1..%d",
			tpcc.PropertyLoadOrders, self.Orders, self.Customers)
	case self.NewOrders < 0 || self.NewOrders > self.Orders:
		return errors.Errorf("invalid %s=%d, it must be in 0..%d",
			tpcc.PropertyLoadNewOrders, self.NewOrders, self.Orders)
	case self.BatchSize <= 0:
		return errors.Errorf("invalid %s=%d", tpcc.PropertyLoadBatchSize, self.BatchSize)
	}
	return nil
}
