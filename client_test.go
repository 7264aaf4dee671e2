package tpcc

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hhkbp2/testify/require"
	jsoniter "github.com/json-iterator/go"
)

// fakeWorkload counts calls. Routine 2 stops at its first transaction.
type fakeWorkload struct {
	inserts      int64
	insertLimit  int64
	transactions int64
	named        []string
}

func (self *fakeWorkload) Init(p Properties) error {
	return nil
}

func (self *fakeWorkload) InitRoutine(ctx context.Context, db DB, routineID int64) (interface{}, error) {
	return routineID, nil
}

func (self *fakeWorkload) Cleanup() error {
	return nil
}

func (self *fakeWorkload) DoInsert(ctx context.Context, db DB, object interface{}) bool {
	return atomic.AddInt64(&self.inserts, 1) <= self.insertLimit
}

func (self *fakeWorkload) DoTransaction(ctx context.Context, db DB, object interface{}) bool {
	if object.(int64) == 2 {
		return false
	}
	time.Sleep(time.Millisecond)
	atomic.AddInt64(&self.transactions, 1)
	m := GetMeasurements()
	m.Measure(TxNewOrder, 1000)
	m.ReportStatus(TxNewOrder, StatusOK)
	return true
}

func (self *fakeWorkload) DoNamedTransaction(ctx context.Context, db DB, object interface{}, name string) (StatusType, error) {
	self.named = append(self.named, name)
	return StatusOK, nil
}

func registerFakeWorkload(w *fakeWorkload) {
	Workloads["fake"] = func() Workload {
		return w
	}
}

func fakeArguments(command string) *Arguments {
	props := NewProperties()
	props.Add(PropertyWorkload, "fake")
	props.Add(PropertyThreadCount, "3")
	return &Arguments{
		Command:    command,
		Database:   "basic",
		Properties: props,
	}
}

func TestLoaderMain(t *testing.T) {
	w := &fakeWorkload{insertLimit: 5}
	registerFakeWorkload(w)
	args := fakeArguments("load")
	require.Nil(t, NewLoader(args).Main(context.Background()))
	// every routine stops on its first refused insert
	require.Equal(t, int64(5+3), atomic.LoadInt64(&w.inserts))
	require.Equal(t, "false", args.Properties.Get(PropertyTransactions))
	require.NotEqual(t, "", args.Properties.Get(PropertyRunID))
}

func TestRunnerMain(t *testing.T) {
	w := &fakeWorkload{}
	registerFakeWorkload(w)
	args := fakeArguments("run")
	path := filepath.Join(t.TempDir(), "export-%Y.json")
	args.Properties.Add(PropertyWarmupTime, "0")
	args.Properties.Add(PropertyMeasurementTime, "1")
	args.Properties.Add(PropertyStatusInterval, "0")
	args.Properties.Add(PropertyExporter, "JSONArrayMeasurementExporter")
	args.Properties.Add(PropertyExportFile, path)
	args.Properties.Add(PropertyRunID, "test-run")

	runner := NewRunner(args)
	status := &bytes.Buffer{}
	runner.Status = status
	start := time.Now()
	require.Nil(t, runner.Main(context.Background()))
	require.True(t, time.Since(start) >= time.Second)
	require.True(t, atomic.LoadInt64(&w.transactions) > 0)

	exported := strings.Replace(path, "%Y", start.Format("2006"), 1)
	b, err := os.ReadFile(exported)
	require.Nil(t, err)
	var records []map[string]interface{}
	require.Nil(t, jsoniter.Unmarshal(b, &records))
	values := make(map[string]interface{})
	for _, r := range records {
		values[r["metric"].(string)+"/"+r["measurement"].(string)] = r["value"]
	}
	require.Equal(t, "test-run", values["OVERALL/RunID"])
	throughput, ok := values["OVERALL/Throughput(tpmC)"].(float64)
	require.True(t, ok)
	require.True(t, throughput > 0)
	_, ok = values[TxNewOrder+"/Operations"]
	require.True(t, ok)
}

func TestRunnerCancelled(t *testing.T) {
	w := &fakeWorkload{}
	registerFakeWorkload(w)
	args := fakeArguments("run")
	args.Properties.Add(PropertyWarmupTime, "60")
	args.Properties.Add(PropertyMeasurementTime, "60")
	args.Properties.Add(PropertyExportFile, filepath.Join(t.TempDir(), "export.txt"))
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	start := time.Now()
	require.Nil(t, NewRunner(args).Main(ctx))
	require.True(t, time.Since(start) < 10*time.Second)
	// nothing is measured during the warmup
	require.Equal(t, int64(0), GetMeasurements().GetStatusCount(TxNewOrder, StatusOK))
}

func TestThroughput(t *testing.T) {
	SetMeasurementProperties(NewProperties())
	m := GetMeasurements()
	require.Equal(t, 0.0, Throughput(m, 0))
	for i := 0; i < 30; i++ {
		m.ReportStatus(TxNewOrder, StatusOK)
	}
	m.ReportStatus(TxNewOrder, StatusError)
	m.ReportStatus(TxPayment, StatusOK)
	require.Equal(t, 60.0, Throughput(m, 30*time.Second))
}

func TestShellMain(t *testing.T) {
	w := &fakeWorkload{}
	registerFakeWorkload(w)
	args := fakeArguments("shell")
	shell := NewShell(args)
	shell.in = strings.NewReader("help\nnew-order\n\nStockLevel\nbogus\npayment\nquit\ndelivery\n")
	require.Nil(t, shell.Main(context.Background()))
	require.Equal(t, []string{TxNewOrder, TxStockLevel, TxPayment}, w.named)
}

func TestLookupTransaction(t *testing.T) {
	for _, name := range TransactionNames {
		found, ok := lookupTransaction(strings.ToLower(name))
		require.True(t, ok)
		require.Equal(t, name, found)
	}
	found, ok := lookupTransaction("orderstatus")
	require.True(t, ok)
	require.Equal(t, TxOrderStatus, found)
	_, ok = lookupTransaction("order")
	require.False(t, ok)
}
