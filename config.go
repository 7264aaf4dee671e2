package tpcc

const (
	// Client
	// The workload class to be loaded.
	PropertyWorkload        = "workload"
	PropertyWorkloadDefault = "tpcc"
	// The database class to be used.
	PropertyDB        = "db"
	PropertyDBDefault = "basic"
	// The exporter class to be used. The default is TextMeasurementExporter.
	PropertyExporter        = "exporter"
	PropertyExporterDefault = "TextMeasurementExporter"
	// If set to the path of a file, this file will be written instead of stdout.
	// The path is expanded as a strftime pattern with the start time of the run.
	PropertyExportFile = "exportfile"
	// The number of client goroutines (agents) to run.
	PropertyThreadCount        = "threadcount"
	PropertyThreadCountDefault = "16"
	// The number of seconds to run before measurements are recorded.
	PropertyWarmupTime        = "warmuptime"
	PropertyWarmupTimeDefault = "300"
	// The number of seconds measurements are recorded for.
	PropertyMeasurementTime        = "measurementtime"
	PropertyMeasurementTimeDefault = "900"
	// Whether or not this is the transaction phase (run) or not (load).
	PropertyTransactions = "dotransactions"
	// The number of seconds between two status lines.
	PropertyStatusInterval        = "status.interval"
	PropertyStatusIntervalDefault = "10"
	// The identity of the run, generated when not given.
	PropertyRunID = "run.id"

	// BasicDB
	PropertyBasicDBVerbose        = "basicdb.verbose"
	PropertyBasicDBVerboseDefault = "false"
	PropertySimulateDelay         = "basicdb.simulatedelay"
	PropertySimulateDelayDefault  = "0"
	PropertyRandomizeDelay        = "basicdb.randomizedelay"
	PropertyRandomizeDelayDefault = "true"

	// log
	PropertyLogLevel        = "log.level"
	PropertyLogLevelDefault = "info"
	// If set, logs are appended to this file instead of stderr.
	// The path is expanded as a strftime pattern.
	PropertyLogFile = "log.file"

	// workload
	// How many times a transaction is attempted before giving up on
	// transient conflicts.
	PropertyRetryLimit        = "tpcc.retrylimit"
	PropertyRetryLimitDefault = "1000"
	// The number of warehouses to load.
	PropertyWarehouses        = "tpcc.warehouses"
	PropertyWarehousesDefault = "1"
	// Whether the loader creates the schema before populating it.
	PropertySchemaCreate        = "tpcc.schema.create"
	PropertySchemaCreateDefault = "true"
	// The number of rows in one INSERT statement of the loader.
	PropertyLoadBatchSize        = "tpcc.load.batchsize"
	PropertyLoadBatchSizeDefault = "500"
	// Population sizes of the loader. The run phase always uses the
	// standard ranges.
	PropertyLoadItems            = "tpcc.load.items"
	PropertyLoadItemsDefault     = "100000"
	PropertyLoadCustomers        = "tpcc.load.customers"
	PropertyLoadCustomersDefault = "3000"
	PropertyLoadOrders           = "tpcc.load.orders"
	PropertyLoadOrdersDefault    = "3000"
	PropertyLoadNewOrders        = "tpcc.load.neworders"
	PropertyLoadNewOrdersDefault = "900"

	// measurement
	PropertyMeasurementType        = "measurementtype"
	PropertyMeasurementTypeDefault = "hdrhistogram"
	// The name of the property for deciding what percentile values to output.
	PropertyPercentiles = "hdrhistogram.percentiles"
	// The default value of `PropertyPercentiles`
	PropertyPercentilesDefault = "90,95,99"
	// The highest latency in microseconds tracked by hdrhistogram.
	PropertyHdrHistogramMax        = "hdrhistogram.max"
	PropertyHdrHistogramMaxDefault = "60000000"
	// The number of significant value digits of hdrhistogram.
	PropertyHdrHistogramSig        = "hdrhistogram.sig"
	PropertyHdrHistogramSigDefault = "3"
	// If set, serves prometheus metrics on this address, e.g. ":9090".
	PropertyPrometheusListen = "prometheus.listen"
)
