package binding

import (
	"context"
	"database/sql"
	"regexp"
	"strconv"

	lru "github.com/hashicorp/golang-lru"
	"github.com/hhkbp2/tpcc"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const (
	// The number of prepared statements kept per connection.
	PropertyStatementCacheSize        = "sql.stmtcache"
	PropertyStatementCacheSizeDefault = "64"
)

var (
	regexVersion = regexp.MustCompile(`(\d+)\.(\d+)`)
)

// ParseVersion extracts major.minor out of a version string reported by a
// store, e.g. "15.3 (Debian 15.3-1.pgdg120+1)".
func ParseVersion(version string) (int, int, error) {
	m := regexVersion.FindStringSubmatch(version)
	if m == nil {
		return 0, 0, errors.Errorf("unrecognized version %q", version)
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	return major, minor, nil
}

// sqlDialect describes how a database/sql driver is opened and identified.
type sqlDialect struct {
	driver  string
	product string
	// the query returning the server version
	versionSQL string
	// whether the driver honors read-only transactions
	readOnlyTx bool
	dsn        func(p tpcc.Properties) (string, error)
}

// SQLDB is a DB on top of a database/sql driver. Transactions begin lazily
// with the first statement and prepared statements are cached.
type SQLDB struct {
	*tpcc.DBBase
	dialect  *sqlDialect
	db       *sqlx.DB
	tx       *sqlx.Tx
	stmts    *lru.Cache
	readOnly bool
	product  tpcc.Product
	classify func(err error) bool
}

func newSQLDB(dialect *sqlDialect) *SQLDB {
	return &SQLDB{
		DBBase:  tpcc.NewDBBase(),
		dialect: dialect,
	}
}

func (self *SQLDB) Init(ctx context.Context) error {
	props := self.GetProperties()
	if props == nil {
		props = tpcc.NewProperties()
	}
	size, err := props.GetInt(PropertyStatementCacheSize, PropertyStatementCacheSizeDefault)
	if err != nil {
		return err
	}
	self.stmts, err = lru.NewWithEvict(int(size), func(key interface{}, value interface{}) {
		value.(*sqlx.Stmt).Close()
	})
	if err != nil {
		return err
	}
	dsn, err := self.dialect.dsn(props)
	if err != nil {
		return err
	}
	self.db, err = sqlx.Open(self.dialect.driver, dsn)
	if err != nil {
		return errors.Wrapf(err, "fail to open %s", self.dialect.driver)
	}
	var version string
	if err := self.db.QueryRowContext(ctx, self.dialect.versionSQL).Scan(&version); err != nil {
		self.db.Close()
		return errors.Wrapf(err, "fail to connect to %s", self.dialect.product)
	}
	major, minor, err := ParseVersion(version)
	if err != nil {
		self.db.Close()
		return err
	}
	self.product = tpcc.Product{
		Name:  self.dialect.product,
		Major: major,
		Minor: minor,
	}
	self.classify = Classifier(self.product)
	return nil
}

func (self *SQLDB) Cleanup() error {
	if self.db == nil {
		return nil
	}
	if self.tx != nil {
		self.tx.Rollback()
		self.tx = nil
	}
	self.stmts.Purge()
	return self.db.Close()
}

func (self *SQLDB) begin(ctx context.Context) (*sqlx.Tx, error) {
	if self.tx != nil {
		return self.tx, nil
	}
	opts := &sql.TxOptions{
		ReadOnly: self.readOnly && self.dialect.readOnlyTx,
	}
	tx, err := self.db.BeginTxx(ctx, opts)
	if err != nil {
		return nil, err
	}
	self.tx = tx
	return tx, nil
}

// prepare returns the statement bound to the current transaction.
func (self *SQLDB) prepare(ctx context.Context, stmt tpcc.Statement) (*sqlx.Stmt, error) {
	tx, err := self.begin(ctx)
	if err != nil {
		return nil, err
	}
	var prepared *sqlx.Stmt
	if v, ok := self.stmts.Get(stmt.SQL); ok {
		prepared = v.(*sqlx.Stmt)
	} else {
		tpcc.Verbosef("prepare %s: %s", stmt.Tag, stmt.SQL)
		prepared, err = self.db.PreparexContext(ctx, self.db.Rebind(stmt.SQL))
		if err != nil {
			return nil, err
		}
		self.stmts.Add(stmt.SQL, prepared)
	}
	return tx.StmtxContext(ctx, prepared), nil
}

func (self *SQLDB) Exec(ctx context.Context, stmt tpcc.Statement, args ...interface{}) (int64, error) {
	prepared, err := self.prepare(ctx, stmt)
	if err != nil {
		return 0, tpcc.NewStoreError(stmt.Tag, err)
	}
	result, err := prepared.ExecContext(ctx, args...)
	if err != nil {
		return 0, tpcc.NewStoreError(stmt.Tag, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, tpcc.NewStoreError(stmt.Tag, err)
	}
	return affected, nil
}

func (self *SQLDB) Query(ctx context.Context, stmt tpcc.Statement, args ...interface{}) (tpcc.Rows, error) {
	prepared, err := self.prepare(ctx, stmt)
	if err != nil {
		return nil, tpcc.NewStoreError(stmt.Tag, err)
	}
	rows, err := prepared.QueryxContext(ctx, args...)
	if err != nil {
		return nil, tpcc.NewStoreError(stmt.Tag, err)
	}
	return rows, nil
}

func (self *SQLDB) Commit(ctx context.Context) error {
	if self.tx == nil {
		return nil
	}
	err := self.tx.Commit()
	self.tx = nil
	if err != nil {
		return tpcc.NewStoreError("COMMIT", err)
	}
	return nil
}

func (self *SQLDB) Rollback(ctx context.Context) error {
	if self.tx == nil {
		return nil
	}
	err := self.tx.Rollback()
	self.tx = nil
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return tpcc.NewStoreError("ROLLBACK", err)
	}
	return nil
}

func (self *SQLDB) SetReadOnly(readOnly bool) {
	self.readOnly = readOnly
}

func (self *SQLDB) Product() tpcc.Product {
	return self.product
}

func (self *SQLDB) IsTransient(err error) bool {
	if self.classify == nil {
		return false
	}
	return self.classify(err)
}
