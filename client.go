package tpcc

import (
	"bufio"
	"context"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	strftime "github.com/hhkbp2/go-strftime"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

type Client interface {
	Main(ctx context.Context) error
}

type routine struct {
	id     int64
	db     DB
	object interface{}
}

// initRoutines creates and initializes one DB per routine. Routine 0 is
// initialized first, then all the others concurrently.
func initRoutines(ctx context.Context, database string, props Properties, w Workload, count int64) ([]*routine, error) {
	routines := make([]*routine, 0, count)
	for i := int64(0); i < count; i++ {
		db, err := NewDB(database, props)
		if err != nil {
			cleanupRoutines(routines)
			return nil, err
		}
		routines = append(routines, &routine{id: i, db: db})
	}
	initOne := func(ctx context.Context, r *routine) error {
		if err := r.db.Init(ctx); err != nil {
			return errors.Wrapf(err, "fail to init db of routine %d", r.id)
		}
		object, err := w.InitRoutine(ctx, r.db, r.id)
		if err != nil {
			return errors.Wrapf(err, "fail to init routine %d", r.id)
		}
		r.object = object
		return nil
	}
	if err := initOne(ctx, routines[0]); err != nil {
		cleanupRoutines(routines)
		return nil, err
	}
	group, gctx := errgroup.WithContext(ctx)
	for _, r := range routines[1:] {
		r := r
		group.Go(func() error {
			return initOne(gctx, r)
		})
	}
	if err := group.Wait(); err != nil {
		cleanupRoutines(routines)
		return nil, err
	}
	return routines, nil
}

func cleanupRoutines(routines []*routine) error {
	var result *multierror.Error
	for _, r := range routines {
		if err := r.db.Cleanup(); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "routine %d", r.id))
		}
	}
	return result.ErrorOrNil()
}

type stdoutCloser struct {
	io.Writer
}

func (stdoutCloser) Close() error {
	return nil
}

// openExportFile opens the export file, a strftime pattern expanded with t,
// or stdout when no file is set.
func openExportFile(props Properties, t time.Time) (io.WriteCloser, error) {
	pattern := props.Get(PropertyExportFile)
	if pattern == "" {
		return stdoutCloser{os.Stdout}, nil
	}
	path := strftime.Format(pattern, t)
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "fail to create export file %s", path)
	}
	return f, nil
}

func prepareRun(props Properties, transactions bool) (Workload, int64, error) {
	if props.Get(PropertyRunID) == "" {
		props.Add(PropertyRunID, uuid.New().String())
	}
	if transactions {
		props.Add(PropertyTransactions, "true")
	} else {
		props.Add(PropertyTransactions, "false")
	}
	threads, err := props.GetInt(PropertyThreadCount, PropertyThreadCountDefault)
	if err != nil {
		return nil, 0, err
	}
	if threads <= 0 {
		return nil, 0, errors.Errorf("invalid %s=%d", PropertyThreadCount, threads)
	}
	w, err := NewWorkload(props.GetDefault(PropertyWorkload, PropertyWorkloadDefault))
	if err != nil {
		return nil, 0, err
	}
	if err := w.Init(props); err != nil {
		return nil, 0, errors.Wrap(err, "fail to init workload")
	}
	return w, threads, nil
}

type Loader struct {
	args *Arguments
}

func NewLoader(args *Arguments) *Loader {
	return &Loader{
		args: args,
	}
}

// Main creates the schema and populates it. Routine 0 loads the shared
// tables during its initialization, then all routines load warehouses until
// none is left.
func (self *Loader) Main(ctx context.Context) (err error) {
	props := self.args.Properties
	w, threads, err := prepareRun(props, false)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Cleanup(); cerr != nil {
			err = multierror.Append(err, cerr).ErrorOrNil()
		}
	}()
	start := time.Now()
	routines, err := initRoutines(ctx, self.args.Database, props, w, threads)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := cleanupRoutines(routines); cerr != nil {
			err = multierror.Append(err, cerr).ErrorOrNil()
		}
	}()
	var group errgroup.Group
	for _, r := range routines {
		r := r
		group.Go(func() error {
			for ctx.Err() == nil && w.DoInsert(ctx, r.db, r.object) {
			}
			return nil
		})
	}
	group.Wait()
	Infof("load finished in %s, run %s", time.Since(start), props.Get(PropertyRunID))
	return ctx.Err()
}

type Runner struct {
	args *Arguments
	// Where the status lines go.
	Status io.Writer
}

func NewRunner(args *Arguments) *Runner {
	return &Runner{
		args:   args,
		Status: os.Stdout,
	}
}

// Main runs all routines for the warmup and measurement periods, then
// exports the measurements. A routine stops on its own unrecoverable error
// without affecting the others.
func (self *Runner) Main(ctx context.Context) (err error) {
	props := self.args.Properties
	warmup, err := props.GetInt(PropertyWarmupTime, PropertyWarmupTimeDefault)
	if err != nil {
		return err
	}
	measurement, err := props.GetInt(PropertyMeasurementTime, PropertyMeasurementTimeDefault)
	if err != nil {
		return err
	}
	interval, err := props.GetInt(PropertyStatusInterval, PropertyStatusIntervalDefault)
	if err != nil {
		return err
	}
	SetMeasurementProperties(props)
	measurements := GetMeasurements()
	measurements.SetEnabled(false)

	w, threads, err := prepareRun(props, true)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Cleanup(); cerr != nil {
			err = multierror.Append(err, cerr).ErrorOrNil()
		}
	}()
	routines, err := initRoutines(ctx, self.args.Database, props, w, threads)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := cleanupRoutines(routines); cerr != nil {
			err = multierror.Append(err, cerr).ErrorOrNil()
		}
	}()

	runID := props.Get(PropertyRunID)
	start := time.Now()
	runCtx, cancel := context.WithTimeout(ctx,
		time.Duration(SecondToNanosecond(warmup+measurement)))
	defer cancel()
	if listen := props.Get(PropertyPrometheusListen); listen != "" {
		go func() {
			if err := ServeMetrics(runCtx, listen); err != nil {
				Errorf("fail to serve metrics: %s", err)
			}
		}()
	}

	var measureStart time.Time
	var measureLock sync.Mutex
	startMeasure := func() {
		measureLock.Lock()
		defer measureLock.Unlock()
		measureStart = time.Now()
		measurements.SetEnabled(true)
		Infof("run %s: measurement started", runID)
	}
	if warmup == 0 {
		startMeasure()
	} else {
		Infof("run %s: warming up for %d sec", runID, warmup)
		go func() {
			select {
			case <-time.After(time.Duration(SecondToNanosecond(warmup))):
				startMeasure()
			case <-runCtx.Done():
			}
		}()
	}
	statusDone := make(chan struct{})
	go self.status(runCtx, start, time.Duration(SecondToNanosecond(interval)), statusDone)

	var group errgroup.Group
	for _, r := range routines {
		r := r
		group.Go(func() error {
			for runCtx.Err() == nil {
				if !w.DoTransaction(runCtx, r.db, r.object) {
					Errorf("routine %d stopped", r.id)
					break
				}
			}
			return nil
		})
	}
	group.Wait()
	cancel()
	<-statusDone
	measurements.SetEnabled(false)

	measureLock.Lock()
	var elapsed time.Duration
	if !measureStart.IsZero() {
		elapsed = time.Since(measureStart)
	}
	measureLock.Unlock()
	return self.export(props, measurements, start, elapsed)
}

func (self *Runner) status(ctx context.Context, start time.Time, interval time.Duration, done chan<- struct{}) {
	defer close(done)
	if interval <= 0 {
		<-ctx.Done()
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			Fprintln(self.Status, "%s %d sec: %s",
				now.Format("2006-01-02 15:04:05"),
				int64(now.Sub(start).Seconds()),
				GetMeasurements().GetSummary())
		}
	}
}

// Throughput returns the committed New-Order transactions per minute.
func Throughput(m Measurements, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(m.GetStatusCount(TxNewOrder, StatusOK)) / elapsed.Minutes()
}

func (self *Runner) export(props Properties, m Measurements, start time.Time, elapsed time.Duration) (err error) {
	w, err := openExportFile(props, start)
	if err != nil {
		return err
	}
	exporter, err := NewMeasurementExporter(
		props.GetDefault(PropertyExporter, PropertyExporterDefault), w)
	if err != nil {
		w.Close()
		return err
	}
	defer func() {
		if cerr := exporter.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	rw := newRecordWriter(exporter)
	rw.write("OVERALL", "RunID", props.Get(PropertyRunID))
	rw.write("OVERALL", "RunTime(ms)", NanosecondToMillisecond(int64(elapsed)))
	rw.write("OVERALL", "Throughput(tpmC)", Throughput(m, elapsed))
	if rw.err != nil {
		return rw.err
	}
	return m.ExportMeasurements(exporter)
}

type Shell struct {
	args *Arguments
	in   io.Reader
}

func NewShell(args *Arguments) *Shell {
	return &Shell{
		args: args,
		in:   os.Stdin,
	}
}

var (
	regexCmd *regexp.Regexp
)

func init() {
	regexCmd = regexp.MustCompile(`\s+`)
}

// Main runs transactions picked by name, one at a time, as routine 0.
func (self *Shell) Main(ctx context.Context) (err error) {
	Println("TPC-C Command Line Client")
	Println(`Type "help" for command line help`)

	props := self.args.Properties
	props.Add(PropertyThreadCount, "1")
	w, _, err := prepareRun(props, true)
	if err != nil {
		return err
	}
	defer w.Cleanup()
	named, ok := w.(NamedTransactionWorkload)
	if !ok {
		return errors.Errorf("workload %s does not run transactions by name",
			props.GetDefault(PropertyWorkload, PropertyWorkloadDefault))
	}
	routines, err := initRoutines(ctx, self.args.Database, props, w, 1)
	if err != nil {
		return err
	}
	defer cleanupRoutines(routines)
	r := routines[0]

	Println("Connected to %s.", r.db.Product())
	scanner := bufio.NewScanner(self.in)
	for {
		PromptPrintf("> ")
		if !scanner.Scan() {
			break
		}
		startTime := time.Now()
		line := strings.TrimSpace(scanner.Text())
		parts := regexCmd.Split(line, -1)
		switch strings.ToLower(parts[0]) {
		case "":
			continue
		case "help":
			self.help()
			continue
		case "quit", "exit":
			return nil
		case "mix":
			if !w.DoTransaction(ctx, r.db, r.object) {
				Println("Error: transaction failed")
			}
		default:
			name, ok := lookupTransaction(parts[0])
			if !ok {
				Println(`Error: unknown command "%s"`, parts[0])
				continue
			}
			status, err := named.DoNamedTransaction(ctx, r.db, r.object, name)
			if err != nil {
				Println("Result: %s, %s", status, err)
			} else {
				Println("Result: %s", status)
			}
		}
		Println("%d ms", time.Since(startTime).Milliseconds())
	}
	return scanner.Err()
}

func lookupTransaction(s string) (string, bool) {
	for _, name := range TransactionNames {
		if strings.EqualFold(name, s) || strings.EqualFold(strings.Replace(name, "-", "", -1), s) {
			return name, true
		}
	}
	return "", false
}

func (self *Shell) help() {
	helpFormat := `Commands
  new-order    - Run a New-Order transaction
  payment      - Run a Payment transaction
  order-status - Run an Order-Status transaction
  delivery     - Run a Delivery transaction
  stock-level  - Run a Stock-Level transaction
  mix          - Run the next transaction of the mix
  quit         - Quit`
	Println(helpFormat)
}
