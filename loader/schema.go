package loader

import (
	"strings"

	"github.com/hhkbp2/tpcc"
)

// Tables in creation order.
var (
	Tables = []string{
		"warehouse", "district", "customer", "history",
		"orders", "new_orders", "order_line", "item", "stock",
	}
)

// DDLTagPrefix prefixes the tags of the schema statements. Data loading
// statements are tagged "L-" followed by the table.
const DDLTagPrefix = "L-create-"

// Schema returns the DDL statements creating the tables for a product.
func Schema(p tpcc.Product) []tpcc.Statement {
	timestamp := "TIMESTAMP"
	if p.Name == tpcc.ProductMySQL {
		timestamp = "DATETIME"
	}
	dists := make([]string, 0, 10)
	for _, c := range distColumns {
		dists = append(dists, c+" CHAR(24)")
	}
	tables := []string{
		"warehouse (" +
			"w_id INTEGER NOT NULL, " +
			"w_name VARCHAR(10), " +
			"w_street_1 VARCHAR(20), " +
			"w_street_2 VARCHAR(20), " +
			"w_city VARCHAR(20), " +
			"w_state CHAR(2), " +
			"w_zip CHAR(9), " +
			"w_tax DECIMAL(4,4), " +
			"w_ytd DECIMAL(12,2), " +
			"PRIMARY KEY (w_id))",
		"district (" +
			"w_id INTEGER NOT NULL, " +
			"d_id INTEGER NOT NULL, " +
			"d_name VARCHAR(10), " +
			"d_street_1 VARCHAR(20), " +
			"d_street_2 VARCHAR(20), " +
			"d_city VARCHAR(20), " +
			"d_state CHAR(2), " +
			"d_zip CHAR(9), " +
			"d_tax DECIMAL(4,4), " +
			"d_ytd DECIMAL(12,2), " +
			"d_next_o_id INTEGER, " +
			"PRIMARY KEY (w_id, d_id))",
		"customer (" +
			"w_id INTEGER NOT NULL, " +
			"d_id INTEGER NOT NULL, " +
			"c_id INTEGER NOT NULL, " +
			"c_first VARCHAR(16), " +
			"c_middle CHAR(2), " +
			"c_last VARCHAR(16), " +
			"c_street_1 VARCHAR(20), " +
			"c_street_2 VARCHAR(20), " +
			"c_city VARCHAR(20), " +
			"c_state CHAR(2), " +
			"c_zip CHAR(9), " +
			"c_phone CHAR(16), " +
			"c_since " + timestamp + ", " +
			"c_credit CHAR(2), " +
			"c_credit_lim DECIMAL(12,2), " +
			"c_discount DECIMAL(4,4), " +
			"c_balance DECIMAL(12,2), " +
			"c_ytd_payment DECIMAL(12,2), " +
			"c_payment_cnt INTEGER, " +
			"c_delivery_cnt INTEGER, " +
			"c_data VARCHAR(500), " +
			"PRIMARY KEY (w_id, d_id, c_id))",
		"history (" +
			"h_id BIGINT NOT NULL, " +
			"h_c_id INTEGER, " +
			"h_c_d_id INTEGER, " +
			"h_c_w_id INTEGER, " +
			"h_d_id INTEGER, " +
			"h_w_id INTEGER, " +
			"h_date " + timestamp + ", " +
			"h_amount DECIMAL(6,2), " +
			"h_data VARCHAR(24), " +
			"PRIMARY KEY (h_id))",
		"orders (" +
			"o_id INTEGER NOT NULL, " +
			"d_id INTEGER NOT NULL, " +
			"w_id INTEGER NOT NULL, " +
			"o_c_id INTEGER, " +
			"o_entry_d " + timestamp + ", " +
			"o_carrier_id INTEGER, " +
			"o_ol_cnt INTEGER, " +
			"o_all_local INTEGER, " +
			"PRIMARY KEY (w_id, d_id, o_id))",
		"new_orders (" +
			"o_id INTEGER NOT NULL, " +
			"d_id INTEGER NOT NULL, " +
			"w_id INTEGER NOT NULL, " +
			"PRIMARY KEY (w_id, d_id, o_id))",
		"order_line (" +
			"o_id INTEGER NOT NULL, " +
			"d_id INTEGER NOT NULL, " +
			"w_id INTEGER NOT NULL, " +
			"ol_number INTEGER NOT NULL, " +
			"ol_i_id INTEGER, " +
			"ol_supply_w_id INTEGER, " +
			"ol_delivery_d " + timestamp + " NULL, " +
			"ol_quantity INTEGER, " +
			"ol_amount DECIMAL(6,2), " +
			"ol_dist_info CHAR(24), " +
			"PRIMARY KEY (w_id, d_id, o_id, ol_number))",
		"item (" +
			"i_id INTEGER NOT NULL, " +
			"i_im_id INTEGER, " +
			"i_name VARCHAR(24), " +
			"i_price DECIMAL(5,2), " +
			"i_data VARCHAR(50), " +
			"PRIMARY KEY (i_id))",
		"stock (" +
			"w_id INTEGER NOT NULL, " +
			"s_i_id INTEGER NOT NULL, " +
			"s_quantity INTEGER, " +
			strings.Join(dists, ", ") + ", " +
			"s_ytd INTEGER, " +
			"s_order_cnt INTEGER, " +
			"s_remote_cnt INTEGER, " +
			"s_data VARCHAR(50), " +
			"PRIMARY KEY (w_id, s_i_id))",
	}
	ret := make([]tpcc.Statement, 0, len(tables)+2)
	for i, t := range tables {
		ret = append(ret, tpcc.Statement{
			Tag: DDLTagPrefix + Tables[i],
			SQL: "CREATE TABLE IF NOT EXISTS " + t,
		})
	}
	indexes := []struct {
		name  string
		table string
		cols  string
	}{
		{"idx_customer_name", "customer", "w_id, d_id, c_last, c_first"},
		{"idx_orders_customer", "orders", "w_id, d_id, o_c_id, o_id"},
	}
	for _, idx := range indexes {
		// MySQL has no IF NOT EXISTS on indexes
		sql := "CREATE INDEX IF NOT EXISTS " + idx.name + " ON " + idx.table + " (" + idx.cols + ")"
		if p.Name == tpcc.ProductMySQL {
			sql = "CREATE INDEX " + idx.name + " ON " + idx.table + " (" + idx.cols + ")"
		}
		ret = append(ret, tpcc.Statement{Tag: DDLTagPrefix + idx.name, SQL: sql})
	}
	return ret
}
