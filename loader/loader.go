package loader

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/hhkbp2/tpcc"
	g "github.com/hhkbp2/tpcc/generator"
	"github.com/sirupsen/logrus"
)

const (
	DistrictsPerWarehouse = 10
	// BadCreditPercent is the share of customers with bad credit.
	BadCreditPercent = 10
)

var (
	distColumns = []string{
		"s_dist_01", "s_dist_02", "s_dist_03", "s_dist_04", "s_dist_05",
		"s_dist_06", "s_dist_07", "s_dist_08", "s_dist_09", "s_dist_10",
	}
)

// Dialect returns the name of the goqu dialect for a product.
func Dialect(p tpcc.Product) string {
	switch p.Name {
	case tpcc.ProductMySQL:
		return "mysql"
	case tpcc.ProductPostgreSQL:
		return "postgres"
	case tpcc.ProductSQLite:
		return "sqlite3"
	default:
		return "default"
	}
}

// Loader populates the tables of a store through one DB.
// It is not safe for concurrent use, every routine has its own.
type Loader struct {
	db      tpcc.DB
	cfg     *Config
	random  *g.Random
	dialect goqu.DialectWrapper
	credits *g.DiscreteGenerator
	log     *logrus.Entry
	now     func() time.Time
}

func NewLoader(db tpcc.DB, cfg *Config, random *g.Random) *Loader {
	credits := g.NewDiscreteGenerator(random)
	credits.AddValue(100-BadCreditPercent, "GC")
	credits.AddValue(BadCreditPercent, "BC")
	return &Loader{
		db:      db,
		cfg:     cfg,
		random:  random,
		dialect: goqu.Dialect(Dialect(db.Product())),
		credits: credits,
		log:     tpcc.Logger(logrus.Fields{"product": db.Product().Name}),
		now:     time.Now,
	}
}

// CreateSchema creates the tables and their indexes.
func (self *Loader) CreateSchema(ctx context.Context) error {
	for _, stmt := range Schema(self.db.Product()) {
		if _, err := self.db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	if err := self.db.Commit(ctx); err != nil {
		return err
	}
	self.log.Infof("schema created")
	return nil
}

// batch collects the rows of a multi-row INSERT.
type batch struct {
	loader  *Loader
	table   string
	columns []interface{}
	rows    [][]interface{}
	count   int64
}

func (self *Loader) newBatch(table string, columns ...interface{}) *batch {
	return &batch{
		loader:  self,
		table:   table,
		columns: columns,
		rows:    make([][]interface{}, 0, self.cfg.BatchSize),
	}
}

func (self *batch) add(ctx context.Context, values ...interface{}) error {
	self.rows = append(self.rows, values)
	if int64(len(self.rows)) >= self.loader.cfg.BatchSize {
		return self.flush(ctx)
	}
	return nil
}

func (self *batch) flush(ctx context.Context) error {
	if len(self.rows) == 0 {
		return nil
	}
	sql, args, err := self.loader.dialect.
		Insert(self.table).
		Cols(self.columns...).
		Vals(self.rows...).
		Prepared(true).
		ToSQL()
	if err != nil {
		return err
	}
	stmt := tpcc.Statement{Tag: "L-" + self.table, SQL: sql}
	if _, err := self.loader.db.Exec(ctx, stmt, args...); err != nil {
		return err
	}
	if err := self.loader.db.Commit(ctx); err != nil {
		return err
	}
	self.count += int64(len(self.rows))
	self.rows = self.rows[:0]
	return nil
}

// LoadItems populates the item table.
func (self *Loader) LoadItems(ctx context.Context) error {
	r := self.random
	b := self.newBatch("item", "i_id", "i_im_id", "i_name", "i_price", "i_data")
	for i := int64(1); i <= self.cfg.Items; i++ {
		err := b.add(ctx, i, r.Uniform(1, 10000), r.AString(14, 24),
			float64(r.Uniform(100, 10000))/100, r.Original(26, 50))
		if err != nil {
			return err
		}
	}
	if err := b.flush(ctx); err != nil {
		return err
	}
	self.log.Infof("%d items loaded", b.count)
	return nil
}

func (self *Loader) address() []interface{} {
	r := self.random
	return []interface{}{
		r.AString(10, 20), r.AString(10, 20), r.AString(10, 20), r.AString(2, 2), r.Zip(),
	}
}

func tax(r *g.Random) float64 {
	return float64(r.Uniform(0, 2000)) / 10000
}

// LoadWarehouse populates one warehouse with its stock, districts,
// customers, history and orders.
func (self *Loader) LoadWarehouse(ctx context.Context, w int64) error {
	start := time.Now()
	r := self.random
	b := self.newBatch("warehouse", "w_id", "w_name",
		"w_street_1", "w_street_2", "w_city", "w_state", "w_zip", "w_tax", "w_ytd")
	values := append([]interface{}{w, r.AString(6, 10)}, self.address()...)
	if err := b.add(ctx, append(values, tax(r), 300000.0)...); err != nil {
		return err
	}
	if err := b.flush(ctx); err != nil {
		return err
	}
	if err := self.loadStock(ctx, w); err != nil {
		return err
	}
	for d := int64(1); d <= DistrictsPerWarehouse; d++ {
		if err := self.loadDistrict(ctx, w, d); err != nil {
			return err
		}
	}
	self.log.WithField("warehouse", w).Infof("warehouse loaded in %s", time.Since(start))
	return nil
}

func (self *Loader) loadStock(ctx context.Context, w int64) error {
	r := self.random
	columns := []interface{}{"w_id", "s_i_id", "s_quantity"}
	for _, c := range distColumns {
		columns = append(columns, c)
	}
	columns = append(columns, "s_ytd", "s_order_cnt", "s_remote_cnt", "s_data")
	b := self.newBatch("stock", columns...)
	for i := int64(1); i <= self.cfg.Items; i++ {
		values := make([]interface{}, 0, len(columns))
		values = append(values, w, i, r.Uniform(10, 100))
		for range distColumns {
			values = append(values, r.AString(24, 24))
		}
		values = append(values, 0, 0, 0, r.Original(26, 50))
		if err := b.add(ctx, values...); err != nil {
			return err
		}
	}
	return b.flush(ctx)
}

// CustomerLastName returns the last name of a loaded customer.
func CustomerLastName(r *g.Random, c int64) string {
	if c <= 1000 {
		return g.LastName(c - 1)
	}
	return g.LastName(g.NonUniform(r, g.ALast, 0, 999))
}

func (self *Loader) loadDistrict(ctx context.Context, w, d int64) error {
	r := self.random
	now := self.now()

	b := self.newBatch("district", "w_id", "d_id", "d_name",
		"d_street_1", "d_street_2", "d_city", "d_state", "d_zip", "d_tax", "d_ytd", "d_next_o_id")
	values := append([]interface{}{w, d, r.AString(6, 10)}, self.address()...)
	if err := b.add(ctx, append(values, tax(r), 30000.0, self.cfg.Orders+1)...); err != nil {
		return err
	}
	if err := b.flush(ctx); err != nil {
		return err
	}

	customers := self.newBatch("customer", "w_id", "d_id", "c_id",
		"c_first", "c_middle", "c_last",
		"c_street_1", "c_street_2", "c_city", "c_state", "c_zip",
		"c_phone", "c_since", "c_credit", "c_credit_lim", "c_discount",
		"c_balance", "c_ytd_payment", "c_payment_cnt", "c_delivery_cnt", "c_data")
	history := self.newBatch("history", "h_id", "h_c_id", "h_c_d_id", "h_c_w_id",
		"h_d_id", "h_w_id", "h_date", "h_amount", "h_data")
	for c := int64(1); c <= self.cfg.Customers; c++ {
		credit := self.credits.NextString()
		values := []interface{}{w, d, c, r.AString(8, 16), "OE", CustomerLastName(r, c)}
		values = append(values, self.address()...)
		values = append(values, r.NString(16, 16), now, credit, 50000.0,
			float64(r.Uniform(0, 5000))/10000, -10.0, 10.0, 1, 0, r.AString(300, 500))
		if err := customers.add(ctx, values...); err != nil {
			return err
		}
		// Payment never draws salt 0
		err := history.add(ctx, g.Hash(w, d, c, 0), c, d, w, d, w, now, 10.0, r.AString(12, 24))
		if err != nil {
			return err
		}
	}
	if err := customers.flush(ctx); err != nil {
		return err
	}
	if err := history.flush(ctx); err != nil {
		return err
	}
	return self.loadOrders(ctx, w, d)
}

func (self *Loader) loadOrders(ctx context.Context, w, d int64) error {
	r := self.random
	now := self.now()
	perm := r.Perm(int(self.cfg.Customers))
	delivered := self.cfg.Orders - self.cfg.NewOrders

	orders := self.newBatch("orders", "o_id", "d_id", "w_id", "o_c_id",
		"o_entry_d", "o_carrier_id", "o_ol_cnt", "o_all_local")
	lines := self.newBatch("order_line", "o_id", "d_id", "w_id", "ol_number",
		"ol_i_id", "ol_supply_w_id", "ol_delivery_d", "ol_quantity", "ol_amount", "ol_dist_info")
	newOrders := self.newBatch("new_orders", "o_id", "d_id", "w_id")
	for o := int64(1); o <= self.cfg.Orders; o++ {
		var carrier, deliveryDate interface{}
		if o <= delivered {
			carrier = r.Uniform(1, 10)
			deliveryDate = now
		}
		count := r.Uniform(5, 15)
		err := orders.add(ctx, o, d, w, int64(perm[o-1])+1, now, carrier, count, 1)
		if err != nil {
			return err
		}
		for n := int64(1); n <= count; n++ {
			amount := 0.0
			if o > delivered {
				amount = float64(r.Uniform(1, 999999)) / 100
			}
			err := lines.add(ctx, o, d, w, n, r.Uniform(1, self.cfg.Items), w,
				deliveryDate, 5, amount, r.AString(24, 24))
			if err != nil {
				return err
			}
		}
		if o > delivered {
			if err := newOrders.add(ctx, o, d, w); err != nil {
				return err
			}
		}
	}
	for _, b := range []*batch{orders, lines, newOrders} {
		if err := b.flush(ctx); err != nil {
			return err
		}
	}
	return nil
}
