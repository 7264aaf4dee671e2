package binding

import (
	"context"

	"github.com/hhkbp2/tpcc"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// PgxDB accesses PostgreSQL through a pgx connection pool. It reads the
// same properties as PostgresDB.
type PgxDB struct {
	*tpcc.DBBase
	pool     *pgxpool.Pool
	tx       pgx.Tx
	readOnly bool
	product  tpcc.Product
}

func NewPgxDB() *PgxDB {
	return &PgxDB{
		DBBase: tpcc.NewDBBase(),
	}
}

func (self *PgxDB) Init(ctx context.Context) error {
	props := self.GetProperties()
	if props == nil {
		props = tpcc.NewProperties()
	}
	url, err := postgresURL(props)
	if err != nil {
		return err
	}
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return errors.Wrap(err, "invalid postgres properties")
	}
	// one transaction at a time per agent
	config.MaxConns = 1
	self.pool, err = pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return errors.Wrap(err, "fail to create pgx pool")
	}
	var version string
	if err := self.pool.QueryRow(ctx, "SHOW server_version").Scan(&version); err != nil {
		self.pool.Close()
		return errors.Wrap(err, "fail to connect to PostgreSQL")
	}
	major, minor, err := ParseVersion(version)
	if err != nil {
		self.pool.Close()
		return err
	}
	self.product = tpcc.Product{
		Name:  tpcc.ProductPostgreSQL,
		Major: major,
		Minor: minor,
	}
	return nil
}

func (self *PgxDB) Cleanup() error {
	if self.pool == nil {
		return nil
	}
	if self.tx != nil {
		self.tx.Rollback(context.Background())
		self.tx = nil
	}
	self.pool.Close()
	return nil
}

func (self *PgxDB) begin(ctx context.Context) (pgx.Tx, error) {
	if self.tx != nil {
		return self.tx, nil
	}
	opts := pgx.TxOptions{AccessMode: pgx.ReadWrite}
	if self.readOnly {
		opts.AccessMode = pgx.ReadOnly
	}
	tx, err := self.pool.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	self.tx = tx
	return tx, nil
}

func (self *PgxDB) Exec(ctx context.Context, stmt tpcc.Statement, args ...interface{}) (int64, error) {
	tx, err := self.begin(ctx)
	if err != nil {
		return 0, tpcc.NewStoreError(stmt.Tag, err)
	}
	tag, err := tx.Exec(ctx, sqlx.Rebind(sqlx.DOLLAR, stmt.SQL), args...)
	if err != nil {
		return 0, tpcc.NewStoreError(stmt.Tag, err)
	}
	return tag.RowsAffected(), nil
}

func (self *PgxDB) Query(ctx context.Context, stmt tpcc.Statement, args ...interface{}) (tpcc.Rows, error) {
	tx, err := self.begin(ctx)
	if err != nil {
		return nil, tpcc.NewStoreError(stmt.Tag, err)
	}
	rows, err := tx.Query(ctx, sqlx.Rebind(sqlx.DOLLAR, stmt.SQL), args...)
	if err != nil {
		return nil, tpcc.NewStoreError(stmt.Tag, err)
	}
	return &pgxRows{rows: rows}, nil
}

func (self *PgxDB) Commit(ctx context.Context) error {
	if self.tx == nil {
		return nil
	}
	err := self.tx.Commit(ctx)
	self.tx = nil
	if err != nil {
		return tpcc.NewStoreError("COMMIT", err)
	}
	return nil
}

func (self *PgxDB) Rollback(ctx context.Context) error {
	if self.tx == nil {
		return nil
	}
	err := self.tx.Rollback(ctx)
	self.tx = nil
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return tpcc.NewStoreError("ROLLBACK", err)
	}
	return nil
}

func (self *PgxDB) SetReadOnly(readOnly bool) {
	self.readOnly = readOnly
}

func (self *PgxDB) Product() tpcc.Product {
	return self.product
}

func (self *PgxDB) IsTransient(err error) bool {
	return IsPostgresTransient(err)
}

// pgxRows adapts pgx.Rows to tpcc.Rows.
type pgxRows struct {
	rows pgx.Rows
}

func (self *pgxRows) Next() bool {
	return self.rows.Next()
}

func (self *pgxRows) Scan(dest ...interface{}) error {
	return self.rows.Scan(dest...)
}

func (self *pgxRows) Err() error {
	return self.rows.Err()
}

func (self *pgxRows) Close() error {
	self.rows.Close()
	return nil
}
