package tpcc

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MeasurementType uint8

const (
	MeasurementHDRHistogram MeasurementType = 1 + iota
	MeasurementPrometheus
	MeasurementHDRHistogramAndPrometheus
)

var measurementTypes = map[string]MeasurementType{
	"hdrhistogram":            MeasurementHDRHistogram,
	"prometheus":              MeasurementPrometheus,
	"hdrhistogram+prometheus": MeasurementHDRHistogramAndPrometheus,
}

// StatusType is the outcome of one transaction, or of one attempt for
// StatusConflict.
type StatusType uint8

const (
	StatusOK StatusType = 1 + iota
	StatusRolledBack
	StatusConflict
	StatusRetryLimitExceeded
	StatusError

	numStatuses = int(StatusError)
)

func (self StatusType) String() string {
	switch self {
	case StatusOK:
		return "OK"
	case StatusRolledBack:
		return "ROLLED_BACK"
	case StatusConflict:
		return "CONFLICT"
	case StatusRetryLimitExceeded:
		return "RETRY_LIMIT_EXCEEDED"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOW_STATUS"
	}
}

// Collects latency measurements, and reports them when requested.
type Measurements interface {
	// Report a single latency in microseconds of a transaction,
	// e.g. tx="New-Order".
	Measure(tx string, latency int64)

	// Return a one line summary of the measurements.
	GetSummary() string

	// Report the outcome of a single transaction.
	ReportStatus(tx string, status StatusType)

	// Return the number of times a status was reported for tx.
	GetStatusCount(tx string, status StatusType) int64

	// Export the current measurements to a suitable format.
	ExportMeasurements(exporter MeasurementExporter) error

	// Start or stop recording. Nothing is recorded while disabled.
	SetEnabled(enabled bool)
}

// txMeasurement measures one transaction type.
type txMeasurement interface {
	measure(latency int64)
	reportStatus(status StatusType)
	statusCount(status StatusType) int64
	summary() string
	export(w *recordWriter)
}

// statusCounts holds one counter per StatusType.
type statusCounts struct {
	counts [numStatuses]int64
}

func (self *statusCounts) reportStatus(status StatusType) {
	if status >= StatusOK && int(status) <= numStatuses {
		atomic.AddInt64(&self.counts[status-1], 1)
	}
}

func (self *statusCounts) statusCount(status StatusType) int64 {
	if status < StatusOK || int(status) > numStatuses {
		return 0
	}
	return atomic.LoadInt64(&self.counts[status-1])
}

// export writes the statuses seen at least once.
func (self *statusCounts) export(w *recordWriter, tx string) {
	for i := range self.counts {
		status := StatusType(i + 1)
		if n := self.statusCount(status); n > 0 {
			w.write(tx, "Return="+status.String(), n)
		}
	}
}

type DefaultMeasurements struct {
	props           Properties
	measurementType MeasurementType
	txs             sync.Map
	enabled         int32
}

func NewDefaultMeasurements(props Properties) (*DefaultMeasurements, error) {
	name := props.GetDefault(PropertyMeasurementType, PropertyMeasurementTypeDefault)
	measurementType, ok := measurementTypes[name]
	if !ok {
		return nil, errors.Errorf("unknown %s=%s", PropertyMeasurementType, name)
	}
	// fail early on bad histogram properties instead of on the first measure
	if _, err := newHdrMeasurement("", props); err != nil {
		return nil, err
	}
	return &DefaultMeasurements{
		props:           props,
		measurementType: measurementType,
		enabled:         1,
	}, nil
}

func (self *DefaultMeasurements) newTxMeasurement(tx string) txMeasurement {
	switch self.measurementType {
	case MeasurementPrometheus:
		return newPromMeasurement(tx)
	case MeasurementHDRHistogramAndPrometheus:
		hdr, _ := newHdrMeasurement(tx, self.props)
		return &pairMeasurement{primary: hdr, secondary: newPromMeasurement(tx)}
	default:
		hdr, _ := newHdrMeasurement(tx, self.props)
		return hdr
	}
}

func (self *DefaultMeasurements) get(tx string) txMeasurement {
	if m, ok := self.txs.Load(tx); ok {
		return m.(txMeasurement)
	}
	m, _ := self.txs.LoadOrStore(tx, self.newTxMeasurement(tx))
	return m.(txMeasurement)
}

func (self *DefaultMeasurements) isEnabled() bool {
	return atomic.LoadInt32(&self.enabled) == 1
}

func (self *DefaultMeasurements) SetEnabled(enabled bool) {
	var v int32
	if enabled {
		v = 1
	}
	atomic.StoreInt32(&self.enabled, v)
}

func (self *DefaultMeasurements) Measure(tx string, latency int64) {
	if self.isEnabled() {
		self.get(tx).measure(latency)
	}
}

func (self *DefaultMeasurements) ReportStatus(tx string, status StatusType) {
	if self.isEnabled() {
		self.get(tx).reportStatus(status)
	}
}

func (self *DefaultMeasurements) GetStatusCount(tx string, status StatusType) int64 {
	m, ok := self.txs.Load(tx)
	if !ok {
		return 0
	}
	return m.(txMeasurement).statusCount(status)
}

func (self *DefaultMeasurements) GetSummary() string {
	names := self.names()
	summaries := make([]string, 0, len(names))
	for _, tx := range names {
		summaries = append(summaries, self.get(tx).summary())
	}
	return strings.Join(summaries, " ")
}

func (self *DefaultMeasurements) ExportMeasurements(exporter MeasurementExporter) error {
	w := newRecordWriter(exporter)
	for _, tx := range self.names() {
		self.get(tx).export(w)
	}
	return w.err
}

func (self *DefaultMeasurements) names() []string {
	var names []string
	self.txs.Range(func(k, _ interface{}) bool {
		names = append(names, k.(string))
		return true
	})
	sort.Strings(names)
	return names
}

var (
	measurementLock                  = &sync.Mutex{}
	measurementProperties Properties = NewProperties()
	singleton             Measurements
)

// SetMeasurementProperties sets the properties used to create the
// measurements, and drops the measurements already created.
func SetMeasurementProperties(props Properties) {
	measurementLock.Lock()
	defer measurementLock.Unlock()
	measurementProperties = props
	singleton = nil
}

func GetMeasurements() Measurements {
	measurementLock.Lock()
	defer measurementLock.Unlock()
	if singleton == nil {
		m, err := NewDefaultMeasurements(measurementProperties)
		if err != nil {
			panic(err)
		}
		singleton = m
	}
	return singleton
}

// hdrMeasurement keeps a HdrHistogram of the latencies of one transaction
// type.
type hdrMeasurement struct {
	statusCounts
	name        string
	lock        sync.Mutex
	histogram   *hdrhistogram.Histogram
	percentiles []float64
}

// parsePercentiles parses a comma separated list such as "90,99.9".
func parsePercentiles(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	ret := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || v <= 0 || v > 100 {
			return nil, errors.Errorf("invalid percentile %q in %s", p, PropertyPercentiles)
		}
		ret = append(ret, v)
	}
	return ret, nil
}

func percentileName(p float64) string {
	return "P" + strconv.FormatFloat(p, 'f', -1, 64) + "Latency(us)"
}

func newHdrMeasurement(name string, props Properties) (*hdrMeasurement, error) {
	percentiles, err := parsePercentiles(props.GetDefault(PropertyPercentiles, PropertyPercentilesDefault))
	if err != nil {
		return nil, err
	}
	max, err := props.GetInt(PropertyHdrHistogramMax, PropertyHdrHistogramMaxDefault)
	if err != nil {
		return nil, err
	}
	sig, err := props.GetInt(PropertyHdrHistogramSig, PropertyHdrHistogramSigDefault)
	if err != nil {
		return nil, err
	}
	if sig < 1 || sig > 5 {
		return nil, errors.Errorf("%s should be in [1, 5], got %d", PropertyHdrHistogramSig, sig)
	}
	return &hdrMeasurement{
		name:        name,
		histogram:   hdrhistogram.New(1, max, int(sig)),
		percentiles: percentiles,
	}, nil
}

func (self *hdrMeasurement) measure(latency int64) {
	self.lock.Lock()
	defer self.lock.Unlock()
	if latency < 1 {
		latency = 1
	}
	if self.histogram.RecordValue(latency) != nil {
		// too slow to be tracked, counted as the highest trackable value
		self.histogram.RecordValue(self.histogram.HighestTrackableValue())
	}
}

// summary reports the 90th percentile, the response time TPC-C constrains.
func (self *hdrMeasurement) summary() string {
	self.lock.Lock()
	defer self.lock.Unlock()
	return fmt.Sprintf("[%s: Count=%d, Avg=%.2f, 90=%d, Max=%d]",
		self.name,
		self.histogram.TotalCount(),
		self.histogram.Mean(),
		self.histogram.ValueAtQuantile(90),
		self.histogram.Max())
}

func (self *hdrMeasurement) export(w *recordWriter) {
	self.lock.Lock()
	w.write(self.name, "Operations", self.histogram.TotalCount())
	w.write(self.name, "AverageLatency(us)", self.histogram.Mean())
	w.write(self.name, "MinLatency(us)", self.histogram.Min())
	w.write(self.name, "MaxLatency(us)", self.histogram.Max())
	for _, p := range self.percentiles {
		w.write(self.name, percentileName(p), self.histogram.ValueAtQuantile(p))
	}
	self.lock.Unlock()
	self.statusCounts.export(w, self.name)
}

var (
	// MetricsRegistry holds the metrics served on the prometheus endpoint.
	MetricsRegistry = prometheus.NewRegistry()

	latencyVec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tpcc",
		Name:      "transaction_latency_microseconds",
		Help:      "Latency of the transactions in microseconds.",
		Buckets:   prometheus.ExponentialBuckets(100, 2, 20),
	}, []string{"tx"})
	statusVec = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tpcc",
		Name:      "transaction_status_total",
		Help:      "Number of transactions per status.",
	}, []string{"tx", "status"})
)

func init() {
	MetricsRegistry.MustRegister(latencyVec, statusVec)
}

// promMeasurement feeds the prometheus registry. It keeps its own count and
// sum since histogram vectors are not readable back.
type promMeasurement struct {
	statusCounts
	name         string
	observer     prometheus.Observer
	operations   int64
	totalLatency int64
}

func newPromMeasurement(name string) *promMeasurement {
	return &promMeasurement{
		name:     name,
		observer: latencyVec.WithLabelValues(name),
	}
}

func (self *promMeasurement) measure(latency int64) {
	self.observer.Observe(float64(latency))
	atomic.AddInt64(&self.operations, 1)
	atomic.AddInt64(&self.totalLatency, latency)
}

func (self *promMeasurement) reportStatus(status StatusType) {
	self.statusCounts.reportStatus(status)
	statusVec.WithLabelValues(self.name, status.String()).Inc()
}

func (self *promMeasurement) average() float64 {
	n := atomic.LoadInt64(&self.operations)
	if n == 0 {
		return 0
	}
	return float64(atomic.LoadInt64(&self.totalLatency)) / float64(n)
}

func (self *promMeasurement) summary() string {
	return fmt.Sprintf("[%s: Count=%d, Avg=%.2f]",
		self.name, atomic.LoadInt64(&self.operations), self.average())
}

func (self *promMeasurement) export(w *recordWriter) {
	w.write(self.name, "Operations", atomic.LoadInt64(&self.operations))
	w.write(self.name, "AverageLatency(us)", self.average())
	self.statusCounts.export(w, self.name)
}

// pairMeasurement records into both measurements. Status counts and the
// export come from the primary one, the secondary only feeds its sink.
type pairMeasurement struct {
	primary   txMeasurement
	secondary txMeasurement
}

func (self *pairMeasurement) measure(latency int64) {
	self.primary.measure(latency)
	self.secondary.measure(latency)
}

func (self *pairMeasurement) reportStatus(status StatusType) {
	self.primary.reportStatus(status)
	self.secondary.reportStatus(status)
}

func (self *pairMeasurement) statusCount(status StatusType) int64 {
	return self.primary.statusCount(status)
}

func (self *pairMeasurement) summary() string {
	return self.primary.summary()
}

func (self *pairMeasurement) export(w *recordWriter) {
	self.primary.export(w)
}

// ServeMetrics serves the prometheus registry on addr until ctx is done.
func ServeMetrics(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(MetricsRegistry, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()
	Infof("serving metrics on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
