package tpcc

import (
	"fmt"
	"io"
	"os"
	"time"

	strftime "github.com/hhkbp2/go-strftime"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type LogLevelType uint8

const (
	LevelVerbose LogLevelType = 50
	LevelDebug   LogLevelType = 40
	LevelInfo    LogLevelType = 30
	LevelWarn    LogLevelType = 20
	LevelError   LogLevelType = 10
	LevelQuiet   LogLevelType = 0
)

var (
	nameToLevels = map[string]LogLevelType{
		"verbose": LevelVerbose,
		"debug":   LevelDebug,
		"info":    LevelInfo,
		"warn":    LevelWarn,
		"error":   LevelError,
		"quiet":   LevelQuiet,
	}
	levelToLogrus = map[LogLevelType]logrus.Level{
		LevelVerbose: logrus.TraceLevel,
		LevelDebug:   logrus.DebugLevel,
		LevelInfo:    logrus.InfoLevel,
		LevelWarn:    logrus.WarnLevel,
		LevelError:   logrus.ErrorLevel,
		LevelQuiet:   logrus.PanicLevel,
	}
)

var (
	logLevel LogLevelType = LevelInfo
	logger                = newLogger(os.Stderr)
)

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	l.SetLevel(levelToLogrus[logLevel])
	return l
}

// SetLogLevel sets the level by its name, one of
// verbose, debug, info, warn, error and quiet.
func SetLogLevel(name string) error {
	level, ok := nameToLevels[name]
	if !ok {
		return errors.Errorf("unknown log level: %s", name)
	}
	logLevel = level
	logger.SetLevel(levelToLogrus[level])
	return nil
}

// SetLogOutput redirects logs to w.
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}

// SetupLogging applies the log properties. The log file path is a strftime
// pattern expanded with t.
func SetupLogging(p Properties, t time.Time) (io.Closer, error) {
	if err := SetLogLevel(p.GetDefault(PropertyLogLevel, PropertyLogLevelDefault)); err != nil {
		return nil, err
	}
	pattern := p.Get(PropertyLogFile)
	if pattern == "" {
		return nil, nil
	}
	path := strftime.Format(pattern, t)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "fail to open log file %s", path)
	}
	SetLogOutput(f)
	return f, nil
}

// Logger returns an entry carrying the given fields, e.g. agent and tx.
func Logger(fields logrus.Fields) *logrus.Entry {
	return logger.WithFields(fields)
}

func Logf(level LogLevelType, format string, args ...interface{}) {
	if level <= logLevel && level != LevelQuiet {
		logger.Logf(levelToLogrus[level], format, args...)
	}
}

func Errorf(format string, args ...interface{}) {
	Logf(LevelError, format, args...)
}

func Warnf(format string, args ...interface{}) {
	Logf(LevelWarn, format, args...)
}

func Infof(format string, args ...interface{}) {
	Logf(LevelInfo, format, args...)
}

func Debugf(format string, args ...interface{}) {
	Logf(LevelDebug, format, args...)
}

func Verbosef(format string, args ...interface{}) {
	Logf(LevelVerbose, format, args...)
}

func PromptPrintf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

func Println(format string, args ...interface{}) {
	fmt.Printf(format, args...)
	fmt.Println("")
}

func EPrintf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	fmt.Fprintln(os.Stderr, "")
}

func Fprintln(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format, args...)
	fmt.Fprintln(w, "")
}
