package tpcc

import (
	"context"
	"fmt"

	g "github.com/hhkbp2/tpcc/generator"
	"github.com/pkg/errors"
)

// Statement is a parameterized SQL statement with `?` placeholders.
// Tag names the statement in logs and errors.
type Statement struct {
	Tag string
	SQL string
}

func (self Statement) String() string {
	return fmt.Sprintf("%s: %s", self.Tag, self.SQL)
}

// Rows is the result set of a query.
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
	Close() error
}

// Product identifies the store behind a DB.
type Product struct {
	Name  string
	Major int
	Minor int
}

const (
	ProductMySQL      = "MySQL"
	ProductPostgreSQL = "PostgreSQL"
	ProductSQLite     = "SQLite"
)

// AtLeast tells whether the product version is at least major.minor.
func (self Product) AtLeast(major, minor int) bool {
	if self.Major != major {
		return self.Major > major
	}
	return self.Minor >= minor
}

func (self Product) String() string {
	return fmt.Sprintf("%s %d.%d", self.Name, self.Major, self.Minor)
}

// DB is a layer for accessing a transactional store to be benchmarked.
// Each routine in the client will be given its own instance of
// whatever DB class is to be used in the test.
// This class should be constructed using a no-argument constructor, so we can
// load it dynamically. Any argument-based initialization should be
// done by Init().
//
// A transaction begins implicitly with the first statement after Init(),
// Commit() or Rollback(). Every error returned by Exec(), Query() and Commit()
// is a *StoreError carrying the statement tag.
type DB interface {
	// Set the properties for this DB.
	SetProperties(p Properties)

	// Get the properties for this DB.
	GetProperties() Properties

	// Initialize any state for this DB.
	// Called once per DB instance; there is one DB instance per client routine.
	Init(ctx context.Context) error

	// Cleanup any state for this DB.
	// Called once per DB instance; there is one DB instance per client routine.
	Cleanup() error

	// Exec runs a statement and returns the number of affected rows.
	Exec(ctx context.Context, stmt Statement, args ...interface{}) (int64, error)

	// Query runs a statement returning rows.
	Query(ctx context.Context, stmt Statement, args ...interface{}) (Rows, error)

	// Commit the current transaction.
	Commit(ctx context.Context) error

	// Rollback the current transaction. It is a no-op when no transaction
	// is open.
	Rollback(ctx context.Context) error

	// SetReadOnly marks the following transactions read-only or read-write.
	SetReadOnly(readOnly bool)

	// Product returns the store product identity, known after Init().
	Product() Product

	// IsTransient tells whether err is a conflict that may succeed when the
	// transaction is retried.
	IsTransient(err error) bool
}

type DBBase struct {
	p Properties
}

func NewDBBase() *DBBase {
	return &DBBase{}
}

func (self *DBBase) SetProperties(p Properties) {
	self.p = p
}

func (self *DBBase) GetProperties() Properties {
	return self.p
}

type MakeDBFunc func() DB

var (
	Databases = map[string]MakeDBFunc{
		"basic": func() DB {
			return NewBasicDB()
		},
	}
)

func NewDB(database string, props Properties) (DB, error) {
	f, ok := Databases[database]
	if !ok {
		return nil, g.NewErrorf("unsupported database: %s", database)
	}
	db := f()
	db.SetProperties(props)
	return db, nil
}

// QueryRow runs a query expected to return exactly one row and scans it into
// dest. It returns ErrRowNotFound when the query returns no row.
func QueryRow(ctx context.Context, db DB, stmt Statement, args []interface{}, dest ...interface{}) error {
	rows, err := db.Query(ctx, stmt, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return NewStoreError(stmt.Tag, err)
		}
		return NewRowNotFoundError(stmt.Tag)
	}
	if err := rows.Scan(dest...); err != nil {
		return NewStoreError(stmt.Tag, err)
	}
	return nil
}

func NewRowNotFoundError(tag string) error {
	return errors.Wrapf(ErrRowNotFound, "statement %s", tag)
}
