package tpcc

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	ProgramName = filepath.Base(os.Args[0])
)

type Arguments struct {
	Command  string
	Database string
	// Print status to stderr instead of stdout.
	Status bool
	Properties
}

type options struct {
	propertyFiles  []string
	propertyValues []string
	status         bool
	db             string
	threads        int
}

func (self *options) bind(flags *pflag.FlagSet) {
	flags.StringArrayVarP(&self.propertyFiles, "property-file", "P", nil, "specify workload file")
	flags.StringArrayVarP(&self.propertyValues, "property", "p", nil, "specify a property value as name=value")
	flags.BoolVarP(&self.status, "status", "s", false, "print status to stderr")
	flags.StringVar(&self.db, "db", "", `use a specified DB class(can also set the "db" property)`)
	flags.IntVar(&self.threads, "threads", 0, "number of agents(can also set the \"threadcount\" property)")
}

func databaseNames() []string {
	names := make([]string, 0, len(Databases))
	for name := range Databases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseArguments builds the arguments of a command: property files are
// merged in order, then -p values override them, then the flags override
// both.
func ParseArguments(command string, positional []string, opts *options) (*Arguments, error) {
	props := NewProperties()
	for _, f := range opts.propertyFiles {
		propsFromFile, err := LoadProperties(f)
		if err != nil {
			return nil, err
		}
		props.Merge(propsFromFile)
	}
	for _, kv := range opts.propertyValues {
		// it's a property, should be in `k=v` form
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			return nil, errors.Errorf("invalid property: %s", kv)
		}
		props.Add(parts[0], parts[1])
	}
	if opts.threads > 0 {
		props.Add(PropertyThreadCount, strconv.Itoa(opts.threads))
	}
	database := props.GetDefault(PropertyDB, PropertyDBDefault)
	if opts.db != "" {
		database = opts.db
	}
	if len(positional) > 0 {
		database = positional[0]
	}
	if _, ok := Databases[database]; !ok {
		return nil, errors.Errorf("unsupported database: %s, should be one of %s",
			database, strings.Join(databaseNames(), ", "))
	}
	props.Add(PropertyDB, database)
	return &Arguments{
		Command:    command,
		Database:   database,
		Status:     opts.status,
		Properties: props,
	}, nil
}

func newClient(args *Arguments) Client {
	switch args.Command {
	case "load":
		return NewLoader(args)
	case "shell":
		return NewShell(args)
	default:
		runner := NewRunner(args)
		if args.Status {
			runner.Status = os.Stderr
		}
		return runner
	}
}

// NewCommand returns the command line interface.
func NewCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           ProgramName,
		Short:         "TPC-C workload driver for transactional SQL stores",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts.bind(root.PersistentFlags())

	commands := []struct {
		name string
		doc  string
	}{
		{"load", "Execute the load phase"},
		{"run", "Execute the transaction phase"},
		{"shell", "Interactive mode"},
	}
	for _, c := range commands {
		name := c.name
		root.AddCommand(&cobra.Command{
			Use:       fmt.Sprintf("%s [database]", name),
			Short:     c.doc,
			Args:      cobra.MaximumNArgs(1),
			ValidArgs: databaseNames(),
			RunE: func(cmd *cobra.Command, positional []string) error {
				args, err := ParseArguments(name, positional, opts)
				if err != nil {
					return err
				}
				closer, err := SetupLogging(args.Properties, time.Now())
				if err != nil {
					return err
				}
				if closer != nil {
					defer closer.Close()
				}
				return newClient(args).Main(cmd.Context())
			},
		})
	}
	return root
}

func ExitOnError(format string, args ...interface{}) {
	EPrintf(format, args...)
	os.Exit(1)
}

func Main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		Debugf("%+v", err)
		ExitOnError("%s", err)
	}
}
