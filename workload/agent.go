package workload

import (
	"context"
	"time"

	"github.com/hhkbp2/tpcc"
	g "github.com/hhkbp2/tpcc/generator"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	// The mix of one cycle of the deck: 10 New-Order, 10 Payment and one of
	// each of the others.
	mixNames   = []string{tpcc.TxNewOrder, tpcc.TxPayment, tpcc.TxOrderStatus, tpcc.TxDelivery, tpcc.TxStockLevel}
	mixWeights = []int{10, 10, 1, 1, 1}
)

// AgentWarehouse returns the warehouse an agent works on.
func AgentWarehouse(id, scale int64) int64 {
	return id%scale + 1
}

// Agent is one simulated terminal issuing transactions one at a time.
type Agent struct {
	id         int64
	warehouse  int64
	scale      int64
	db         tpcc.DB
	random     *g.Random
	generators *Generators
	deck       *g.DeckGenerator
	statements *Statements
	retry      *tpcc.RetryController
	log        *logrus.Entry
	now        func() time.Time
}

func NewAgent(id int64, meta tpcc.RunMetadata, db tpcc.DB, retryLimit uint, seed int64) *Agent {
	random := g.NewRandom(seed)
	warehouse := AgentWarehouse(id, meta.ScaleFactor)
	object := &Agent{
		id:         id,
		warehouse:  warehouse,
		scale:      meta.ScaleFactor,
		db:         db,
		random:     random,
		generators: NewGenerators(random),
		deck:       g.NewDeckGenerator(random, mixNames, mixWeights),
		statements: NewStatements(meta.Product),
		retry:      tpcc.NewRetryController(db, retryLimit, id),
		log: tpcc.Logger(logrus.Fields{
			"agent":     id,
			"warehouse": warehouse,
		}),
		now: time.Now,
	}
	object.retry.OnConflict(object.conflict)
	return object
}

func (self *Agent) ID() int64 {
	return self.id
}

func (self *Agent) Warehouse() int64 {
	return self.warehouse
}

// Next draws the next transaction of the mix.
func (self *Agent) Next() string {
	return self.deck.NextString()
}

func (self *Agent) conflict(tx string, attempt uint, err error) {
	self.log.WithField("tx", tx).Warnf("conflict on attempt %d: %+v", attempt, err)
	tpcc.GetMeasurements().ReportStatus(tx, tpcc.StatusConflict)
}

// Do runs one transaction of the given name. The inputs are chosen once and
// reused by every retry.
func (self *Agent) Do(ctx context.Context, name string) (tpcc.StatusType, error) {
	var fn func(ctx context.Context) error
	switch name {
	case tpcc.TxNewOrder:
		in := self.newOrderInput()
		fn = func(ctx context.Context) error {
			return self.newOrder(ctx, in)
		}
	case tpcc.TxPayment:
		in := self.paymentInput()
		fn = func(ctx context.Context) error {
			return self.payment(ctx, in)
		}
	case tpcc.TxOrderStatus:
		in := self.orderStatusInput()
		fn = func(ctx context.Context) error {
			return self.orderStatus(ctx, in)
		}
	case tpcc.TxDelivery:
		in := self.deliveryInput()
		fn = func(ctx context.Context) error {
			return self.delivery(ctx, in)
		}
	case tpcc.TxStockLevel:
		in := self.stockLevelInput()
		fn = func(ctx context.Context) error {
			return self.stockLevel(ctx, in)
		}
	default:
		return tpcc.StatusError, errors.Errorf("unknown transaction: %s", name)
	}
	return self.execute(ctx, name, fn)
}

func (self *Agent) execute(ctx context.Context, name string, fn func(ctx context.Context) error) (tpcc.StatusType, error) {
	start := time.Now()
	attempts, err := self.retry.Run(ctx, name, fn)
	latency := tpcc.NanosecondToMicrosecond(int64(time.Since(start)))
	if err != nil && ctx.Err() != nil {
		// the run is over, the transaction is not measured
		return tpcc.StatusError, err
	}
	log := self.log.WithField("tx", name)
	status := tpcc.StatusOK
	if err != nil {
		switch tpcc.ErrorKindOf(err) {
		case tpcc.ErrorSimulatedEntry:
			status = tpcc.StatusRolledBack
			log.Debugf("rolled back: %s", err)
		case tpcc.ErrorRetryLimitExceeded:
			status = tpcc.StatusRetryLimitExceeded
			log.Errorf("the retry limit is reached after %d attempts: %+v", attempts, err)
		default:
			status = tpcc.StatusError
			log.Errorf("%+v", err)
		}
	}
	m := tpcc.GetMeasurements()
	m.Measure(name, latency)
	m.ReportStatus(name, status)
	return status, err
}
