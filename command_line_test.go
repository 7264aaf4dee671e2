package tpcc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hhkbp2/testify/require"
	"github.com/spf13/pflag"
)

func TestParseArguments(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "workload.properties")
	content := "threadcount=8\nwarmuptime=5\nmeasurementtime=10\n"
	require.Nil(t, os.WriteFile(file, []byte(content), 0644))

	opts := &options{
		propertyFiles:  []string{file},
		propertyValues: []string{"warmuptime=0", "tpcc.retrylimit=3"},
	}
	args, err := ParseArguments("run", nil, opts)
	require.Nil(t, err)
	require.Equal(t, "run", args.Command)
	require.Equal(t, PropertyDBDefault, args.Database)
	require.Equal(t, "8", args.Properties.Get(PropertyThreadCount))
	require.Equal(t, "0", args.Properties.Get(PropertyWarmupTime))
	require.Equal(t, "10", args.Properties.Get(PropertyMeasurementTime))
	require.Equal(t, "3", args.Properties.Get(PropertyRetryLimit))
	require.Equal(t, "basic", args.Properties.Get(PropertyDB))

	// flags win over properties
	opts.threads = 2
	opts.status = true
	args, err = ParseArguments("load", []string{"basic"}, opts)
	require.Nil(t, err)
	require.Equal(t, "2", args.Properties.Get(PropertyThreadCount))
	require.True(t, args.Status)
	_, ok := newClient(args).(*Loader)
	require.True(t, ok)
}

func TestParseArgumentsErrors(t *testing.T) {
	_, err := ParseArguments("run", nil, &options{propertyValues: []string{"novalue"}})
	require.NotNil(t, err)
	_, err = ParseArguments("run", []string{"nosuchdb"}, &options{})
	require.NotNil(t, err)
	_, err = ParseArguments("run", nil, &options{db: "nosuchdb"})
	require.NotNil(t, err)
	_, err = ParseArguments("run", nil, &options{propertyFiles: []string{"/nonexistent/file.properties"}})
	require.NotNil(t, err)
}

func TestOptionsBind(t *testing.T) {
	opts := &options{}
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts.bind(flags)
	err := flags.Parse([]string{"-P", "a.properties", "-P", "b.properties",
		"-p", "threadcount=2", "-s", "--db", "sqlite", "--threads", "4"})
	require.Nil(t, err)
	require.Equal(t, []string{"a.properties", "b.properties"}, opts.propertyFiles)
	require.Equal(t, []string{"threadcount=2"}, opts.propertyValues)
	require.True(t, opts.status)
	require.Equal(t, "sqlite", opts.db)
	require.Equal(t, 4, opts.threads)
}

func TestNewCommand(t *testing.T) {
	cmd := NewCommand()
	names := make([]string, 0)
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	require.Equal(t, []string{"load", "run", "shell"}, names)
	for _, name := range []string{"property-file", "property", "status", "db", "threads"} {
		require.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}

	_, ok := newClient(&Arguments{Command: "run"}).(*Runner)
	require.True(t, ok)
	_, ok = newClient(&Arguments{Command: "shell"}).(*Shell)
	require.True(t, ok)
}
