package workload

import (
	"context"
	"strconv"

	"github.com/hhkbp2/tpcc"
	g "github.com/hhkbp2/tpcc/generator"
)

const (
	// MaxCustomerDataLength is the length c_data is cut to.
	MaxCustomerDataLength = 500
)

// MedianCustomer picks the customer at position ceil(n/2), 1-based, of the
// customers sharing a last name sorted by first name.
func MedianCustomer(ids []int64) int64 {
	n := len(ids)
	if n%2 == 0 {
		return ids[n/2-1]
	}
	return ids[(n+1)/2-1]
}

// customerByName returns the median customer with the last name, or an
// error when no customer has it.
func (self *Agent) customerByName(ctx context.Context, stmt tpcc.Statement, w, d int64, last string) (int64, error) {
	rows, err := self.db.Query(ctx, stmt, w, d, last)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	ids := make([]int64, 0, 4)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, tpcc.NewStoreError(stmt.Tag, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return 0, tpcc.NewStoreError(stmt.Tag, err)
	}
	if len(ids) == 0 {
		return 0, tpcc.NewRowNotFoundError(stmt.Tag)
	}
	return MedianCustomer(ids), nil
}

// FormatAmount formats an amount with the fewest digits needed.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

// BadCreditData prepends the payment to the data of a customer with bad
// credit, keeping the first MaxCustomerDataLength characters.
func BadCreditData(customerID int64, in *PaymentInput, data string) string {
	s := "| " + strconv.FormatInt(customerID, 10) +
		" " + strconv.FormatInt(in.CustomerDistrict, 10) +
		" " + strconv.FormatInt(in.CustomerWarehouse, 10) +
		" " + strconv.FormatInt(in.District, 10) +
		" " + strconv.FormatInt(in.Warehouse, 10) +
		" " + FormatAmount(in.Amount) +
		" " + data
	if r := []rune(s); len(r) > MaxCustomerDataLength {
		return string(r[:MaxCustomerDataLength])
	}
	return s
}

// HistoryID derives the id of a history row.
func HistoryID(w, d, c, salt int64) int64 {
	return g.Hash(w, d, c, salt)
}
