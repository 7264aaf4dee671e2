package binding

import (
	"net/url"
	"strconv"

	"github.com/hhkbp2/tpcc"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	PropertySQLitePath               = "sqlite.path"
	PropertySQLitePathDefault        = "tpcc.db"
	PropertySQLiteBusyTimeout        = "sqlite.busytimeout"
	PropertySQLiteBusyTimeoutDefault = "10000"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

var (
	sqliteDialect = &sqlDialect{
		driver:     "sqlite",
		product:    tpcc.ProductSQLite,
		versionSQL: "SELECT sqlite_version()",
		dsn:        sqliteDSN,
	}
)

// sqliteDSN opens the database file in WAL mode. Writers take the lock at
// BEGIN and wait for each other up to the busy timeout.
func sqliteDSN(props tpcc.Properties) (string, error) {
	timeout, err := props.GetInt(PropertySQLiteBusyTimeout, PropertySQLiteBusyTimeoutDefault)
	if err != nil {
		return "", err
	}
	q := url.Values{}
	q.Add("_pragma", "busy_timeout("+strconv.FormatInt(timeout, 10)+")")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "synchronous(NORMAL)")
	q.Add("_txlock", "immediate")
	return "file:" + props.GetDefault(PropertySQLitePath, PropertySQLitePathDefault) + "?" + q.Encode(), nil
}

type SQLiteDB struct {
	*SQLDB
}

func NewSQLiteDB() *SQLiteDB {
	return &SQLiteDB{
		SQLDB: newSQLDB(sqliteDialect),
	}
}
