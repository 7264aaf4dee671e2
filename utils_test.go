package tpcc

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hhkbp2/testify/require"
)

func TestPropertiesMerge(t *testing.T) {
	p := NewProperties()
	p.Add(PropertyWarehouses, "4")
	require.Equal(t, "4", p.Get(PropertyWarehouses))
	require.Equal(t, "4", p.GetDefault(PropertyWarehouses, PropertyWarehousesDefault))
	require.Equal(t, PropertyRetryLimitDefault, p.GetDefault(PropertyRetryLimit, PropertyRetryLimitDefault))
	require.Equal(t, "", p.Get(PropertyLogFile))

	// later sources win
	p.Merge(map[string]string{PropertyWarehouses: "8", PropertyThreadCount: "80"})
	require.Equal(t, "8", p.Get(PropertyWarehouses))
	require.Equal(t, "80", p.Get(PropertyThreadCount))
}

func TestPropertiesTyped(t *testing.T) {
	p := NewProperties()
	p.Add(PropertyThreadCount, "4")
	n, err := p.GetInt(PropertyThreadCount, PropertyThreadCountDefault)
	require.Nil(t, err)
	require.Equal(t, int64(4), n)
	n, err = p.GetInt(PropertyRetryLimit, PropertyRetryLimitDefault)
	require.Nil(t, err)
	require.Equal(t, int64(1000), n)
	p.Add(PropertyWarmupTime, "soon")
	_, err = p.GetInt(PropertyWarmupTime, PropertyWarmupTimeDefault)
	require.NotNil(t, err)
	b, err := p.GetBool(PropertySchemaCreate, PropertySchemaCreateDefault)
	require.Nil(t, err)
	require.True(t, b)
}

func TestLoadProperties(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "workload")
	content := "threadcount=8\ntpcc.retrylimit=10\n"
	require.Nil(t, os.WriteFile(path, []byte(content), 0644))
	p, err := LoadProperties(path)
	require.Nil(t, err)
	require.Equal(t, "8", p.Get(PropertyThreadCount))
	require.Equal(t, "10", p.Get(PropertyRetryLimit))

	path = filepath.Join(dir, "workload.yaml")
	content = "threadcount: 2\ntpcc:\n  warehouses: 3\n"
	require.Nil(t, os.WriteFile(path, []byte(content), 0644))
	p, err = LoadProperties(path)
	require.Nil(t, err)
	require.Equal(t, "2", p.Get(PropertyThreadCount))
	require.Equal(t, "3", p.Get(PropertyWarehouses))

	_, err = LoadProperties(filepath.Join(dir, "missing.properties"))
	require.NotNil(t, err)
}

func TestTimeConversions(t *testing.T) {
	latency := 1500 * time.Microsecond
	require.Equal(t, int64(1500), NanosecondToMicrosecond(int64(latency)))
	require.Equal(t, int64(1), NanosecondToMillisecond(int64(latency)))
	require.Equal(t, int64(time.Minute), SecondToNanosecond(60))
	require.Equal(t, int64(2*time.Second), MillisecondToNanosecond(2000))
	require.Equal(t, int64(12), MillisecondToSecond(12999))
}
