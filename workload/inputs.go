package workload

import (
	"sort"

	g "github.com/hhkbp2/tpcc/generator"
)

const (
	DistrictsPerWarehouse = 10
	CustomersPerDistrict  = 3000
	Items                 = 100000
	// UnusedItemID is the item id of the simulated data entry errors.
	UnusedItemID = 0
)

// Generators of the per-field inputs. Each agent owns its own set, drawing
// from the agent's random source.
type Generators struct {
	Districts     g.IntegerGenerator
	CustomerIDs   g.IntegerGenerator
	ItemIDs       g.IntegerGenerator
	LineCounts    g.IntegerGenerator
	Quantities    g.IntegerGenerator
	Amounts       g.IntegerGenerator
	Carriers      g.IntegerGenerator
	Thresholds    g.IntegerGenerator
	LastNames     g.Generator
	EntryErrors   g.IntegerGenerator
	RemoteLines   g.IntegerGenerator
	LocalPayments g.IntegerGenerator
	ByNames       g.IntegerGenerator
}

func NewGenerators(random *g.Random) *Generators {
	return &Generators{
		Districts:     g.NewUniformIntegerGenerator(random, 1, DistrictsPerWarehouse),
		CustomerIDs:   g.NewNonUniformIntegerGenerator(random, g.AId, 1, CustomersPerDistrict),
		ItemIDs:       g.NewNonUniformIntegerGenerator(random, g.AItem, 1, Items),
		LineCounts:    g.NewUniformIntegerGenerator(random, 5, 15),
		Quantities:    g.NewUniformIntegerGenerator(random, 1, 10),
		Amounts:       g.NewUniformIntegerGenerator(random, 100, 500000),
		Carriers:      g.NewUniformIntegerGenerator(random, 1, 10),
		Thresholds:    g.NewUniformIntegerGenerator(random, 10, 20),
		LastNames:     g.NewLastNameGenerator(random),
		EntryErrors:   g.NewUniformIntegerGenerator(random, 1, 100),
		RemoteLines:   g.NewUniformIntegerGenerator(random, 1, 100),
		LocalPayments: g.NewUniformIntegerGenerator(random, 1, 100),
		ByNames:       g.NewUniformIntegerGenerator(random, 1, 100),
	}
}

// OrderLine is one line of a New-Order transaction.
type OrderLine struct {
	// Number is the position of the line as entered, starting from 1.
	Number          int64
	ItemID          int64
	SupplyWarehouse int64
	Quantity        int64
}

func (self OrderLine) sortKey() int64 {
	return self.SupplyWarehouse*Items + self.ItemID
}

// SortOrderLines puts lines in ascending (supply warehouse, item) order, the
// order every New-Order transaction touches stock rows in.
func SortOrderLines(lines []OrderLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].sortKey() < lines[j].sortKey()
	})
}

type NewOrderInput struct {
	Warehouse int64
	District  int64
	Customer  int64
	AllLocal  bool
	// Lines in processing order.
	Lines []OrderLine
}

type PaymentInput struct {
	Warehouse         int64
	District          int64
	CustomerWarehouse int64
	CustomerDistrict  int64
	ByName            bool
	CustomerID        int64
	LastName          string
	Amount            float64
}

type OrderStatusInput struct {
	Warehouse  int64
	District   int64
	ByName     bool
	CustomerID int64
	LastName   string
}

type DeliveryInput struct {
	Warehouse int64
	Carrier   int64
}

type StockLevelInput struct {
	Warehouse int64
	District  int64
	Threshold int64
}

// otherWarehouse picks a warehouse other than w, uniformly.
func otherWarehouse(random *g.Random, w, scale int64) int64 {
	if scale <= 1 {
		return 1
	}
	other := random.Uniform(1, scale-1)
	if other >= w {
		other++
	}
	return other
}

func (self *Agent) newOrderInput() *NewOrderInput {
	in := &NewOrderInput{
		Warehouse: self.warehouse,
		District:  self.generators.Districts.NextInt(),
		Customer:  self.generators.CustomerIDs.NextInt(),
		AllLocal:  true,
	}
	count := self.generators.LineCounts.NextInt()
	in.Lines = make([]OrderLine, 0, count)
	for i := int64(1); i <= count; i++ {
		line := OrderLine{
			Number:          i,
			ItemID:          self.generators.ItemIDs.NextInt(),
			SupplyWarehouse: in.Warehouse,
		}
		if self.scale > 1 && self.generators.RemoteLines.NextInt() == 1 {
			line.SupplyWarehouse = otherWarehouse(self.random, in.Warehouse, self.scale)
			in.AllLocal = false
		}
		line.Quantity = self.generators.Quantities.NextInt()
		in.Lines = append(in.Lines, line)
	}
	SortOrderLines(in.Lines)
	if self.generators.EntryErrors.NextInt() == 1 {
		// the last line entered refers to an unused item
		for i := range in.Lines {
			if in.Lines[i].Number == count {
				in.Lines[i].ItemID = UnusedItemID
			}
		}
	}
	return in
}

func (self *Agent) paymentInput() *PaymentInput {
	in := &PaymentInput{
		Warehouse: self.warehouse,
		District:  self.generators.Districts.NextInt(),
		Amount:    float64(self.generators.Amounts.NextInt()) / 100,
	}
	if self.generators.LocalPayments.NextInt() <= 85 {
		in.CustomerWarehouse = in.Warehouse
		in.CustomerDistrict = in.District
	} else {
		in.CustomerWarehouse = otherWarehouse(self.random, in.Warehouse, self.scale)
		in.CustomerDistrict = self.generators.Districts.NextInt()
	}
	if self.generators.ByNames.NextInt() <= 60 {
		in.ByName = true
		in.LastName = self.generators.LastNames.NextString()
	} else {
		in.CustomerID = self.generators.CustomerIDs.NextInt()
	}
	return in
}

func (self *Agent) orderStatusInput() *OrderStatusInput {
	in := &OrderStatusInput{
		Warehouse: self.random.Uniform(1, self.scale),
		District:  self.generators.Districts.NextInt(),
	}
	if self.generators.ByNames.NextInt() <= 60 {
		in.ByName = true
		in.LastName = self.generators.LastNames.NextString()
	} else {
		in.CustomerID = self.generators.CustomerIDs.NextInt()
	}
	return in
}

func (self *Agent) deliveryInput() *DeliveryInput {
	return &DeliveryInput{
		Warehouse: self.warehouse,
		Carrier:   self.generators.Carriers.NextInt(),
	}
}

func (self *Agent) stockLevelInput() *StockLevelInput {
	return &StockLevelInput{
		Warehouse: self.warehouse,
		District:  self.generators.Districts.NextInt(),
		Threshold: self.generators.Thresholds.NextInt(),
	}
}
