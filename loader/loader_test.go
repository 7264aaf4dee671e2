package loader

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hhkbp2/tpcc"
	"github.com/hhkbp2/tpcc/binding"
	g "github.com/hhkbp2/tpcc/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallConfig() *Config {
	return &Config{
		Warehouses:   2,
		Items:        50,
		Customers:    30,
		Orders:       30,
		NewOrders:    9,
		BatchSize:    7,
		CreateSchema: true,
	}
}

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(tpcc.NewProperties())
	require.NoError(t, err)
	assert.Equal(t, &Config{
		Warehouses:   1,
		Items:        100000,
		Customers:    3000,
		Orders:       3000,
		NewOrders:    900,
		BatchSize:    500,
		CreateSchema: true,
	}, cfg)

	p := tpcc.NewProperties()
	p.Add(tpcc.PropertyLoadOrders, "10")
	p.Add(tpcc.PropertyLoadNewOrders, "11")
	_, err = NewConfig(p)
	require.Error(t, err)

	p = tpcc.NewProperties()
	p.Add(tpcc.PropertyLoadCustomers, "10")
	_, err = NewConfig(p)
	require.Error(t, err)

	p = tpcc.NewProperties()
	p.Add(tpcc.PropertyWarehouses, "0")
	_, err = NewConfig(p)
	require.Error(t, err)
}

func TestSchema(t *testing.T) {
	mysql := Schema(tpcc.Product{Name: tpcc.ProductMySQL, Major: 8})
	sqlite := Schema(tpcc.Product{Name: tpcc.ProductSQLite, Major: 3})
	require.Len(t, mysql, len(Tables)+2)
	require.Len(t, sqlite, len(Tables)+2)
	for i, table := range Tables {
		assert.Equal(t, "L-create-"+table, sqlite[i].Tag)
		assert.True(t, strings.HasPrefix(sqlite[i].SQL, "CREATE TABLE IF NOT EXISTS "+table+" ("))
	}
	assert.Contains(t, mysql[2].SQL, "c_since DATETIME")
	assert.Contains(t, sqlite[2].SQL, "c_since TIMESTAMP")
	assert.Contains(t, sqlite[8].SQL, "s_dist_10 CHAR(24)")
	assert.True(t, strings.HasPrefix(mysql[len(mysql)-1].SQL, "CREATE INDEX idx_orders_customer"))
	assert.Equal(t, "L-create-idx_orders_customer", mysql[len(mysql)-1].Tag)
	assert.True(t, strings.HasPrefix(sqlite[len(sqlite)-1].SQL, "CREATE INDEX IF NOT EXISTS idx_orders_customer"))
}

func TestDialect(t *testing.T) {
	assert.Equal(t, "mysql", Dialect(tpcc.Product{Name: tpcc.ProductMySQL}))
	assert.Equal(t, "postgres", Dialect(tpcc.Product{Name: tpcc.ProductPostgreSQL}))
	assert.Equal(t, "sqlite3", Dialect(tpcc.Product{Name: tpcc.ProductSQLite}))
	assert.Equal(t, "default", Dialect(tpcc.Product{Name: "basic"}))
}

func TestCustomerLastName(t *testing.T) {
	r := g.NewRandom(1)
	assert.Equal(t, "BARBARBAR", CustomerLastName(r, 1))
	assert.Equal(t, g.LastName(999), CustomerLastName(r, 1000))
	for c := int64(1001); c < 1100; c++ {
		name := CustomerLastName(r, c)
		assert.True(t, len(name) >= 9 && len(name) <= 15, name)
	}
}

func TestLoadBatches(t *testing.T) {
	ctx := context.Background()
	db := tpcc.NewBasicDB()
	l := NewLoader(db, smallConfig(), g.NewRandom(3))
	require.NoError(t, l.LoadItems(ctx))
	// 50 items in batches of 7
	rows := 0
	batches := 0
	for _, c := range db.Calls() {
		if c.Tag == "L-item" {
			batches++
			rows += len(c.Args) / 5
		}
	}
	assert.Equal(t, 8, batches)
	assert.Equal(t, 50, rows)
	assert.Equal(t, 8, db.Commits())
}

func countRows(t *testing.T, db tpcc.DB, query string) int64 {
	var n int64
	err := tpcc.QueryRow(context.Background(), db, tpcc.Statement{Tag: "T-01", SQL: query}, nil, &n)
	require.NoError(t, err)
	require.NoError(t, db.Commit(context.Background()))
	return n
}

func TestLoadSQLite(t *testing.T) {
	ctx := context.Background()
	binding.AddBindings()
	p := tpcc.NewProperties()
	p.Add(binding.PropertySQLitePath, filepath.Join(t.TempDir(), "tpcc.db"))
	db, err := tpcc.NewDB("sqlite", p)
	require.NoError(t, err)
	require.NoError(t, db.Init(ctx))
	defer db.Cleanup()

	cfg := smallConfig()
	l := NewLoader(db, cfg, g.NewRandom(11))
	require.NoError(t, l.CreateSchema(ctx))
	// the schema may be created again
	require.NoError(t, l.CreateSchema(ctx))
	require.NoError(t, l.LoadItems(ctx))
	for w := int64(1); w <= cfg.Warehouses; w++ {
		require.NoError(t, l.LoadWarehouse(ctx, w))
	}

	assert.Equal(t, int64(2), countRows(t, db, "SELECT COUNT(*) FROM warehouse"))
	assert.Equal(t, int64(20), countRows(t, db, "SELECT COUNT(*) FROM district"))
	assert.Equal(t, int64(50), countRows(t, db, "SELECT COUNT(*) FROM item"))
	assert.Equal(t, int64(100), countRows(t, db, "SELECT COUNT(*) FROM stock"))
	assert.Equal(t, int64(600), countRows(t, db, "SELECT COUNT(*) FROM customer"))
	assert.Equal(t, int64(600), countRows(t, db, "SELECT COUNT(*) FROM history"))
	assert.Equal(t, int64(600), countRows(t, db, "SELECT COUNT(*) FROM orders"))
	assert.Equal(t, int64(180), countRows(t, db, "SELECT COUNT(*) FROM new_orders"))
	assert.Equal(t, int64(31), countRows(t, db,
		"SELECT MIN(d_next_o_id) FROM district WHERE d_next_o_id = 31"))
	assert.Equal(t, int64(0), countRows(t, db,
		"SELECT COUNT(*) FROM orders WHERE o_id > 21 AND o_carrier_id IS NOT NULL"))
	assert.Equal(t, int64(0), countRows(t, db,
		"SELECT COUNT(*) FROM orders WHERE o_id <= 21 AND o_carrier_id IS NULL"))
	assert.Equal(t, int64(30), countRows(t, db,
		"SELECT COUNT(DISTINCT o_c_id) FROM orders WHERE w_id = 1 AND d_id = 1"))
	assert.Equal(t, countRows(t, db, "SELECT SUM(o_ol_cnt) FROM orders"),
		countRows(t, db, "SELECT COUNT(*) FROM order_line"))
	assert.Equal(t, int64(0), countRows(t, db,
		"SELECT COUNT(*) FROM stock WHERE s_quantity < 10 OR s_quantity > 100"))
	assert.Equal(t, int64(0), countRows(t, db,
		"SELECT COUNT(*) FROM customer WHERE c_credit NOT IN ('GC', 'BC')"))
}
