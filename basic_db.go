package tpcc

import (
	"context"
	"database/sql"
	"sync"
	"time"

	g "github.com/hhkbp2/tpcc/generator"
	"github.com/pkg/errors"
)

// BasicResult is the scripted answer of the basic db to one statement.
type BasicResult struct {
	Rows     [][]interface{}
	Affected int64
	Err      error
}

// BasicCall records one statement executed against the basic db.
type BasicCall struct {
	Tag      string
	SQL      string
	Args     []interface{}
	ReadOnly bool
}

// BasicDB is a store that keeps nothing. It echoes the statements when
// verbose, optionally simulates latency, and answers with scripted results
// keyed by statement tag. Without a script a statement affects one row and
// a query returns no row.
type BasicDB struct {
	*DBBase
	verbose        bool
	randomizeDelay bool
	toDelay        int64
	random         *g.Random
	product        Product

	lock      sync.Mutex
	scripts   map[string][]BasicResult
	handlers  map[string]func(args []interface{}) BasicResult
	calls     []BasicCall
	commits   int
	rollbacks int
	readOnly  bool
}

func NewBasicDB() *BasicDB {
	return &BasicDB{
		DBBase:   NewDBBase(),
		random:   g.NewRandom(g.NextSeed()),
		product:  Product{Name: "basic", Major: 1, Minor: 0},
		scripts:  make(map[string][]BasicResult),
		handlers: make(map[string]func(args []interface{}) BasicResult),
	}
}

// Initialize any state for this DB.
func (self *BasicDB) Init(ctx context.Context) error {
	p := self.GetProperties()
	if p == nil {
		p = NewProperties()
	}
	var err error
	self.verbose, err = p.GetBool(PropertyBasicDBVerbose, PropertyBasicDBVerboseDefault)
	if err != nil {
		return err
	}
	self.toDelay, err = p.GetInt(PropertySimulateDelay, PropertySimulateDelayDefault)
	if err != nil {
		return err
	}
	self.randomizeDelay, err = p.GetBool(PropertyRandomizeDelay, PropertyRandomizeDelayDefault)
	if err != nil {
		return err
	}
	if self.verbose {
		OutputProperties(p)
	}
	return nil
}

func (self *BasicDB) Cleanup() error {
	return nil
}

func (self *BasicDB) delay() {
	if self.toDelay > 0 {
		var nanos int64
		if self.randomizeDelay {
			nanos = MillisecondToNanosecond(self.random.Uniform(0, self.toDelay))
			if nanos == 0 {
				return
			}
		} else {
			nanos = MillisecondToNanosecond(self.toDelay)
		}
		time.Sleep(time.Duration(nanos))
	}
}

// SetProduct overrides the product identity reported by this db.
func (self *BasicDB) SetProduct(p Product) {
	self.product = p
}

// Respond queues results for the statements tagged tag, consumed in order.
func (self *BasicDB) Respond(tag string, results ...BasicResult) {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.scripts[tag] = append(self.scripts[tag], results...)
}

// RespondFunc answers the statements tagged tag once the queued results
// are consumed.
func (self *BasicDB) RespondFunc(tag string, f func(args []interface{}) BasicResult) {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.handlers[tag] = f
}

// Calls returns the statements executed so far.
func (self *BasicDB) Calls() []BasicCall {
	self.lock.Lock()
	defer self.lock.Unlock()
	ret := make([]BasicCall, len(self.calls))
	copy(ret, self.calls)
	return ret
}

// Tags returns the tags of the statements executed so far.
func (self *BasicDB) Tags() []string {
	calls := self.Calls()
	ret := make([]string, 0, len(calls))
	for _, c := range calls {
		ret = append(ret, c.Tag)
	}
	return ret
}

func (self *BasicDB) Commits() int {
	self.lock.Lock()
	defer self.lock.Unlock()
	return self.commits
}

func (self *BasicDB) Rollbacks() int {
	self.lock.Lock()
	defer self.lock.Unlock()
	return self.rollbacks
}

// Reset forgets the recorded statements and counters. Scripts are kept.
func (self *BasicDB) Reset() {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.calls = nil
	self.commits = 0
	self.rollbacks = 0
}

func (self *BasicDB) next(stmt Statement, args []interface{}) BasicResult {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.calls = append(self.calls, BasicCall{
		Tag:      stmt.Tag,
		SQL:      stmt.SQL,
		Args:     args,
		ReadOnly: self.readOnly,
	})
	if queue := self.scripts[stmt.Tag]; len(queue) > 0 {
		self.scripts[stmt.Tag] = queue[1:]
		return queue[0]
	}
	if f, ok := self.handlers[stmt.Tag]; ok {
		return f(args)
	}
	return BasicResult{Affected: 1}
}

func (self *BasicDB) echo(stmt Statement, args []interface{}) {
	if self.verbose {
		Println("%s %v", stmt, args)
	}
}

func (self *BasicDB) Exec(ctx context.Context, stmt Statement, args ...interface{}) (int64, error) {
	self.delay()
	self.echo(stmt, args)
	ret := self.next(stmt, args)
	if ret.Err != nil {
		return 0, NewStoreError(stmt.Tag, ret.Err)
	}
	return ret.Affected, nil
}

func (self *BasicDB) Query(ctx context.Context, stmt Statement, args ...interface{}) (Rows, error) {
	self.delay()
	self.echo(stmt, args)
	ret := self.next(stmt, args)
	if ret.Err != nil {
		return nil, NewStoreError(stmt.Tag, ret.Err)
	}
	return &basicRows{rows: ret.Rows, index: -1}, nil
}

func (self *BasicDB) Commit(ctx context.Context) error {
	ret := self.next(Statement{Tag: "COMMIT"}, nil)
	if ret.Err != nil {
		return NewStoreError("COMMIT", ret.Err)
	}
	self.lock.Lock()
	defer self.lock.Unlock()
	self.commits++
	return nil
}

func (self *BasicDB) Rollback(ctx context.Context) error {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.rollbacks++
	return nil
}

func (self *BasicDB) SetReadOnly(readOnly bool) {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.readOnly = readOnly
}

func (self *BasicDB) Product() Product {
	return self.product
}

func (self *BasicDB) IsTransient(err error) bool {
	return errors.Is(err, ErrConflict)
}

type basicRows struct {
	rows  [][]interface{}
	index int
}

func (self *basicRows) Next() bool {
	self.index++
	return self.index < len(self.rows)
}

func (self *basicRows) Scan(dest ...interface{}) error {
	if self.index < 0 || self.index >= len(self.rows) {
		return errors.New("scan called without a row")
	}
	row := self.rows[self.index]
	if len(dest) != len(row) {
		return errors.Errorf("expected %d destination arguments, not %d", len(row), len(dest))
	}
	for i, d := range dest {
		if err := assign(d, row[i]); err != nil {
			return errors.Wrapf(err, "column %d", i)
		}
	}
	return nil
}

func (self *basicRows) Err() error {
	return nil
}

func (self *basicRows) Close() error {
	return nil
}

// assign converts v into dest the way database/sql does for driver values.
func assign(dest interface{}, v interface{}) error {
	switch d := dest.(type) {
	case sql.Scanner:
		return d.Scan(v)
	case *int64:
		var n sql.NullInt64
		if err := n.Scan(v); err != nil {
			return err
		}
		*d = n.Int64
	case *int:
		var n sql.NullInt64
		if err := n.Scan(v); err != nil {
			return err
		}
		*d = int(n.Int64)
	case *float64:
		var n sql.NullFloat64
		if err := n.Scan(v); err != nil {
			return err
		}
		*d = n.Float64
	case *string:
		var n sql.NullString
		if err := n.Scan(v); err != nil {
			return err
		}
		*d = n.String
	case *time.Time:
		var n sql.NullTime
		if err := n.Scan(v); err != nil {
			return err
		}
		*d = n.Time
	case *interface{}:
		*d = v
	default:
		return errors.Errorf("unsupported destination %T", dest)
	}
	return nil
}
