package tpcc

import (
	"context"

	g "github.com/hhkbp2/tpcc/generator"
)

type MakeWorkloadFunc func() Workload

var (
	Workloads = make(map[string]MakeWorkloadFunc)
)

func NewWorkload(className string) (Workload, error) {
	f, ok := Workloads[className]
	if !ok {
		return nil, g.NewErrorf("unsupported workload: %s", className)
	}
	w := f()
	return w, nil
}

// Workload represents One experiment scenario.
// One object of this type will be instantiated and
// shared among all client routines.
// This class should be constructed using a no-argument constructor,
// so we can load it dynamically. Any argument-based initialization
// should be done by Init().
type Workload interface {
	// Initialize the scenario. Create any generators and other shared
	// objects here.
	// Called once in the main client routine, before any operations
	// are started.
	Init(p Properties) error

	// Initialize any state for a particular client routine.
	// Since the scenario object will be shared among all routines,
	// this is the place to create any state that is specific to one routine.
	// The returned object will be passed to invocations of DoInsert()
	// and DoTransaction() for this routine.
	// Routine 0 is initialized before all the others, which lets it
	// establish the state they depend on.
	InitRoutine(ctx context.Context, db DB, routineID int64) (interface{}, error)

	// Cleanup the scenario.
	// Called once, in the main client routine, after all operations
	// have completed.
	Cleanup() error

	// Do one insert operation. Because it will be called concurrently from
	// multiple routines, this function must be routine safe.
	// It returns false when there is nothing left to insert or the routine
	// should stop.
	DoInsert(ctx context.Context, db DB, object interface{}) bool

	// Do one transaction operation. Because it will be called concurrently
	// from multiple client routines, this function must be routine safe.
	// It returns false when the routine hit an error it cannot recover from
	// and should stop.
	DoTransaction(ctx context.Context, db DB, object interface{}) bool
}

// NamedTransactionWorkload is a workload able to run one transaction picked
// by name, used by the interactive shell.
type NamedTransactionWorkload interface {
	Workload
	DoNamedTransaction(ctx context.Context, db DB, object interface{}, name string) (StatusType, error)
}

// The five transaction profiles.
const (
	TxNewOrder    = "New-Order"
	TxPayment     = "Payment"
	TxOrderStatus = "Order-Status"
	TxDelivery    = "Delivery"
	TxStockLevel  = "Stock-Level"
)

var (
	TransactionNames = []string{TxNewOrder, TxPayment, TxOrderStatus, TxDelivery, TxStockLevel}
)
