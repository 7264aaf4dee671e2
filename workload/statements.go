package workload

import (
	"github.com/hhkbp2/tpcc"
)

// LockClause returns the row lock clause appended to the reads that precede
// an update of the same row.
func LockClause(p tpcc.Product) string {
	switch {
	case p.Name == tpcc.ProductSQLite:
		return ""
	case p.Name == tpcc.ProductPostgreSQL && p.AtLeast(9, 3):
		return " FOR NO KEY UPDATE"
	default:
		return " FOR UPDATE"
	}
}

// Statements of the five transactions, with the lock clause of a product.
type Statements struct {
	// run metadata
	CountWarehouses tpcc.Statement

	// New-Order
	N01 tpcc.Statement
	N02 tpcc.Statement
	N03 tpcc.Statement
	N04 tpcc.Statement
	N05 tpcc.Statement
	N06 tpcc.Statement
	N07 tpcc.Statement
	N08 tpcc.Statement
	N09 tpcc.Statement

	// Payment
	P01 tpcc.Statement
	P02 tpcc.Statement
	P03 tpcc.Statement
	P04 tpcc.Statement
	P05 tpcc.Statement
	P06 tpcc.Statement
	P07 tpcc.Statement
	P08 tpcc.Statement
	P09 tpcc.Statement

	// Order-Status
	O01 tpcc.Statement
	O02 tpcc.Statement
	O03 tpcc.Statement
	O04 tpcc.Statement

	// Delivery
	D01 tpcc.Statement
	D02 tpcc.Statement
	D03 tpcc.Statement
	D04 tpcc.Statement
	D05 tpcc.Statement
	D06 tpcc.Statement
	D07 tpcc.Statement

	// Stock-Level
	S01 tpcc.Statement
}

func NewStatements(p tpcc.Product) *Statements {
	lock := LockClause(p)
	return &Statements{
		CountWarehouses: tpcc.Statement{Tag: "I-01", SQL: "SELECT COUNT(*) FROM warehouse"},

		N01: tpcc.Statement{Tag: "N-01", SQL: "SELECT w.w_tax, c.c_discount, c.c_last, c.c_credit " +
			"FROM warehouse w " +
			"INNER JOIN customer c ON c.w_id = w.w_id " +
			"WHERE w.w_id = ? AND c.d_id = ? AND c.c_id = ?"},
		N02: tpcc.Statement{Tag: "N-02", SQL: "SELECT d_tax, d_next_o_id " +
			"FROM district " +
			"WHERE w_id = ? AND d_id = ?" + lock},
		N03: tpcc.Statement{Tag: "N-03", SQL: "UPDATE district " +
			"SET d_next_o_id = ? " +
			"WHERE w_id = ? AND d_id = ?"},
		N04: tpcc.Statement{Tag: "N-04", SQL: "INSERT INTO orders " +
			"(o_id, d_id, w_id, o_c_id, o_entry_d, o_carrier_id, o_ol_cnt, o_all_local) " +
			"VALUES (?, ?, ?, ?, ?, NULL, ?, ?)"},
		N05: tpcc.Statement{Tag: "N-05", SQL: "INSERT INTO new_orders " +
			"(o_id, d_id, w_id) " +
			"VALUES (?, ?, ?)"},
		N06: tpcc.Statement{Tag: "N-06", SQL: "SELECT i_price, i_name, i_data " +
			"FROM item " +
			"WHERE i_id = ?"},
		N07: tpcc.Statement{Tag: "N-07", SQL: "SELECT s_quantity, " +
			"s_dist_01, s_dist_02, s_dist_03, s_dist_04, s_dist_05, " +
			"s_dist_06, s_dist_07, s_dist_08, s_dist_09, s_dist_10, s_data " +
			"FROM stock " +
			"WHERE s_i_id = ? AND w_id = ?" + lock},
		N08: tpcc.Statement{Tag: "N-08", SQL: "UPDATE stock " +
			"SET s_quantity = ?, s_ytd = s_ytd + ?, " +
			"s_order_cnt = s_order_cnt + 1, " +
			"s_remote_cnt = s_remote_cnt + ? " +
			"WHERE s_i_id = ? AND w_id = ?"},
		N09: tpcc.Statement{Tag: "N-09", SQL: "INSERT INTO order_line " +
			"(o_id, d_id, w_id, ol_number, ol_i_id, ol_supply_w_id, " +
			"ol_delivery_d, ol_quantity, ol_amount, ol_dist_info) " +
			"VALUES (?, ?, ?, ?, ?, ?, NULL, ?, ?, ?)"},

		P01: tpcc.Statement{Tag: "P-01", SQL: "SELECT w_name, w_street_1, w_street_2, w_city, w_state, w_zip " +
			"FROM warehouse " +
			"WHERE w_id = ?" + lock},
		P02: tpcc.Statement{Tag: "P-02", SQL: "UPDATE warehouse " +
			"SET w_ytd = ROUND(w_ytd + ?, 2) " +
			"WHERE w_id = ?"},
		P03: tpcc.Statement{Tag: "P-03", SQL: "SELECT d_name, d_street_1, d_street_2, d_city, d_state, d_zip " +
			"FROM district " +
			"WHERE w_id = ? AND d_id = ?" + lock},
		P04: tpcc.Statement{Tag: "P-04", SQL: "UPDATE district " +
			"SET d_ytd = ROUND(d_ytd + ?, 2) " +
			"WHERE w_id = ? AND d_id = ?"},
		P05: tpcc.Statement{Tag: "P-05", SQL: "SELECT c_id " +
			"FROM customer " +
			"WHERE w_id = ? AND d_id = ? AND c_last = ? " +
			"ORDER BY c_first"},
		P06: tpcc.Statement{Tag: "P-06", SQL: "SELECT c_first, c_middle, c_last, c_street_1, c_street_2, " +
			"c_city, c_state, c_zip, c_phone, c_credit, " +
			"c_credit_lim, c_discount, c_balance, c_data " +
			"FROM customer " +
			"WHERE w_id = ? AND d_id = ? AND c_id = ?"},
		P07: tpcc.Statement{Tag: "P-07", SQL: "UPDATE customer " +
			"SET c_balance = ROUND(c_balance - ?, 2), " +
			"c_ytd_payment = ROUND(c_ytd_payment + ?, 2), " +
			"c_payment_cnt = c_payment_cnt + 1, " +
			"c_data = ? " +
			"WHERE w_id = ? AND d_id = ? AND c_id = ?"},
		P08: tpcc.Statement{Tag: "P-08", SQL: "UPDATE customer " +
			"SET c_balance = ROUND(c_balance - ?, 2), " +
			"c_ytd_payment = ROUND(c_ytd_payment + ?, 2), " +
			"c_payment_cnt = c_payment_cnt + 1 " +
			"WHERE w_id = ? AND d_id = ? AND c_id = ?"},
		P09: tpcc.Statement{Tag: "P-09", SQL: "INSERT INTO history " +
			"(h_id, h_c_id, h_c_d_id, h_c_w_id, h_d_id, h_w_id, h_date, h_amount, h_data) " +
			"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"},

		O01: tpcc.Statement{Tag: "O-01", SQL: "SELECT c_id " +
			"FROM customer " +
			"WHERE w_id = ? AND d_id = ? AND c_last = ? " +
			"ORDER BY c_first"},
		O02: tpcc.Statement{Tag: "O-02", SQL: "SELECT c_balance, c_first, c_middle, c_last " +
			"FROM customer " +
			"WHERE w_id = ? AND d_id = ? AND c_id = ?"},
		O03: tpcc.Statement{Tag: "O-03", SQL: "SELECT o1.o_id, o1.o_entry_d, o1.o_carrier_id " +
			"FROM orders o1 " +
			"WHERE o1.w_id = ? AND o1.d_id = ? " +
			"AND o1.o_id = (" +
			"SELECT MAX(o2.o_id) " +
			"FROM orders o2 " +
			"WHERE o2.w_id = ? AND o2.d_id = ? AND o2.o_c_id = ?" +
			")"},
		O04: tpcc.Statement{Tag: "O-04", SQL: "SELECT ol_i_id, ol_supply_w_id, ol_quantity, ol_amount, ol_delivery_d " +
			"FROM order_line " +
			"WHERE w_id = ? AND d_id = ? AND o_id = ?"},

		D01: tpcc.Statement{Tag: "D-01", SQL: "SELECT MIN(o_id) " +
			"FROM new_orders " +
			"WHERE w_id = ? AND d_id = ?"},
		D02: tpcc.Statement{Tag: "D-02", SQL: "DELETE " +
			"FROM new_orders " +
			"WHERE w_id = ? AND d_id = ? AND o_id = ?"},
		D03: tpcc.Statement{Tag: "D-03", SQL: "SELECT o_c_id " +
			"FROM orders " +
			"WHERE w_id = ? AND d_id = ? AND o_id = ?"},
		D04: tpcc.Statement{Tag: "D-04", SQL: "UPDATE orders " +
			"SET o_carrier_id = ? " +
			"WHERE w_id = ? AND d_id = ? AND o_id = ?"},
		D05: tpcc.Statement{Tag: "D-05", SQL: "UPDATE order_line " +
			"SET ol_delivery_d = ? " +
			"WHERE w_id = ? AND d_id = ? AND o_id = ?"},
		D06: tpcc.Statement{Tag: "D-06", SQL: "SELECT SUM(ol_amount) " +
			"FROM order_line " +
			"WHERE w_id = ? AND d_id = ? AND o_id = ?"},
		D07: tpcc.Statement{Tag: "D-07", SQL: "UPDATE customer " +
			"SET c_balance = ROUND(c_balance + ?, 2), " +
			"c_delivery_cnt = c_delivery_cnt + 1 " +
			"WHERE w_id = ? AND d_id = ? AND c_id = ?"},

		S01: tpcc.Statement{Tag: "S-01", SQL: "SELECT COUNT(DISTINCT s.s_i_id) " +
			"FROM district d " +
			"INNER JOIN order_line ol ON ol.w_id = d.w_id AND ol.d_id = d.d_id " +
			"AND ol.o_id BETWEEN d.d_next_o_id - 20 AND d.d_next_o_id - 1 " +
			"INNER JOIN stock s ON s.w_id = ol.w_id AND s.s_i_id = ol.ol_i_id " +
			"WHERE d.w_id = ? AND d.d_id = ? AND s.s_quantity < ?"},
	}
}
