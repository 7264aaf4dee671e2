package workload

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/hhkbp2/tpcc"
	g "github.com/hhkbp2/tpcc/generator"
	"github.com/hhkbp2/tpcc/loader"
	"github.com/pkg/errors"
)

// TPCCWorkload represents the TPC-C order entry scenario.
// In the transaction phase every routine is an agent bound to one warehouse
// drawing transactions from its own shuffled deck. In the load phase every
// routine loads whole warehouses until none is left.
// Properties to control the workload:
//   tpcc.retrylimit: how many times a transaction is attempted on
//                    transient conflicts (default: 1000)
//   tpcc.warehouses: the number of warehouses to load (default: 1)
//   tpcc.schema.create: whether the load creates the tables (default: true)
//   tpcc.load.*: population sizes of the load
type TPCCWorkload struct {
	transactions bool
	retryLimit   uint
	shared       *tpcc.SharedData
	meta         tpcc.RunMetadataCell

	loadConfig   *loader.Config
	warehouses   *g.CounterGenerator
	loadFailures int64
}

func NewTPCCWorkload() *TPCCWorkload {
	return &TPCCWorkload{
		shared: tpcc.GetSharedData(),
	}
}

func (self *TPCCWorkload) Init(p tpcc.Properties) error {
	var err error
	self.transactions, err = p.GetBool(tpcc.PropertyTransactions, "true")
	if err != nil {
		return err
	}
	limit, err := p.GetInt(tpcc.PropertyRetryLimit, tpcc.PropertyRetryLimitDefault)
	if err != nil {
		return err
	}
	if limit <= 0 {
		return errors.Errorf("invalid %s=%d", tpcc.PropertyRetryLimit, limit)
	}
	self.retryLimit = uint(limit)
	if !self.transactions {
		self.loadConfig, err = loader.NewConfig(p)
		if err != nil {
			return err
		}
		self.warehouses = g.NewBoundedCounterGenerator(1, self.loadConfig.Warehouses)
	}
	return nil
}

func (self *TPCCWorkload) InitRoutine(ctx context.Context, db tpcc.DB, routineID int64) (interface{}, error) {
	if !self.transactions {
		return self.initLoadRoutine(ctx, db, routineID)
	}
	if routineID == 0 {
		if err := self.publishRunMetadata(ctx, db); err != nil {
			return nil, err
		}
	}
	meta, err := self.meta.Get(self.shared)
	if err != nil {
		return nil, err
	}
	return NewAgent(routineID, meta, db, self.retryLimit, g.NextSeed()), nil
}

// publishRunMetadata reads the scale factor of the store and makes it
// known to all agents.
func (self *TPCCWorkload) publishRunMetadata(ctx context.Context, db tpcc.DB) error {
	var scale int64
	stmt := NewStatements(db.Product()).CountWarehouses
	if err := tpcc.QueryRow(ctx, db, stmt, nil, &scale); err != nil {
		db.Rollback(ctx)
		return err
	}
	if err := db.Commit(ctx); err != nil {
		return err
	}
	if scale <= 0 {
		return errors.New("no warehouse found, the store is not loaded")
	}
	tpcc.PublishRunMetadata(self.shared, tpcc.RunMetadata{
		ScaleFactor: scale,
		Product:     db.Product(),
	})
	tpcc.Infof("Connected to %s", db.Product())
	tpcc.Infof("Scale factor: %d", scale)
	tpcc.Infof("Transactions: %s", strings.Join(tpcc.TransactionNames, ", "))
	return nil
}

func (self *TPCCWorkload) initLoadRoutine(ctx context.Context, db tpcc.DB, routineID int64) (interface{}, error) {
	l := loader.NewLoader(db, self.loadConfig, g.NewRandom(g.NextSeed()))
	if routineID != 0 {
		return l, nil
	}
	if self.loadConfig.CreateSchema {
		if err := l.CreateSchema(ctx); err != nil {
			return nil, errors.Wrap(err, "fail to create schema")
		}
	}
	if err := l.LoadItems(ctx); err != nil {
		return nil, errors.Wrap(err, "fail to load items")
	}
	return l, nil
}

func (self *TPCCWorkload) Cleanup() error {
	if n := atomic.LoadInt64(&self.loadFailures); n > 0 {
		return errors.Errorf("%d warehouse(s) failed to load", n)
	}
	return nil
}

// DoInsert loads the next warehouse.
func (self *TPCCWorkload) DoInsert(ctx context.Context, db tpcc.DB, object interface{}) bool {
	l := object.(*loader.Loader)
	w, ok := self.warehouses.Take()
	if !ok {
		return false
	}
	if err := l.LoadWarehouse(ctx, w); err != nil {
		atomic.AddInt64(&self.loadFailures, 1)
		tpcc.Errorf("fail to load warehouse %d: %+v", w, err)
		db.Rollback(ctx)
		return false
	}
	return true
}

// DoTransaction runs the next transaction of the agent's deck.
func (self *TPCCWorkload) DoTransaction(ctx context.Context, db tpcc.DB, object interface{}) bool {
	agent := object.(*Agent)
	_, err := agent.Do(ctx, agent.Next())
	return continueAfter(ctx, err)
}

// DoNamedTransaction runs one transaction picked by name.
func (self *TPCCWorkload) DoNamedTransaction(ctx context.Context, db tpcc.DB, object interface{}, name string) (tpcc.StatusType, error) {
	agent := object.(*Agent)
	return agent.Do(ctx, name)
}

// continueAfter tells whether an agent goes on after a transaction ended
// with err. Only a fatal error halts it.
func continueAfter(ctx context.Context, err error) bool {
	if err == nil || ctx.Err() != nil {
		return true
	}
	return tpcc.ErrorKindOf(err) != tpcc.ErrorFatal
}

func AddWorkloads() {
	tpcc.Workloads["tpcc"] = func() tpcc.Workload {
		return NewTPCCWorkload()
	}
}
