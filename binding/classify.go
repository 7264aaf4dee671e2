package binding

import (
	"github.com/go-sql-driver/mysql"
	"github.com/hhkbp2/tpcc"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	mysqlDeadlock = 1213
)

// Classifier returns the function telling the transient conflicts of a
// product apart. Stores it does not know abort transactions as a whole, so
// any error they report is worth a retry.
func Classifier(p tpcc.Product) func(err error) bool {
	switch p.Name {
	case tpcc.ProductMySQL:
		return IsMySQLTransient
	case tpcc.ProductPostgreSQL:
		return IsPostgresTransient
	case tpcc.ProductSQLite:
		return IsSQLiteTransient
	default:
		return tpcc.IsStoreError
	}
}

func IsMySQLTransient(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDeadlock
}

func isPostgresConflictCode(code string) bool {
	return code == pgerrcode.DeadlockDetected || code == pgerrcode.SerializationFailure
}

func IsPostgresTransient(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return isPostgresConflictCode(pgErr.Code)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return isPostgresConflictCode(string(pqErr.Code))
	}
	return false
}

func IsSQLiteTransient(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	}
	return false
}
