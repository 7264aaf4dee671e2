package tpcc

import (
	"bufio"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Used to export the collected measurements into a useful format, for example
// human readable text or machine readable JSON.
type MeasurementExporter interface {
	// Write a measurement to the exported format. v should be a string,
	// int64 or float64.
	Write(metric string, measurement string, v interface{}) error
	io.Closer
}

type MakeMeasurementExporterFunc func(w io.WriteCloser) MeasurementExporter

var (
	MeasurementExporters map[string]MakeMeasurementExporterFunc
)

func init() {
	MeasurementExporters = map[string]MakeMeasurementExporterFunc{
		"TextMeasurementExporter": func(w io.WriteCloser) MeasurementExporter {
			return NewTextMeasurementExporter(w)
		},
		"JSONMeasurementExporter": func(w io.WriteCloser) MeasurementExporter {
			return NewJSONMeasurementExporter(w)
		},
		"JSONArrayMeasurementExporter": func(w io.WriteCloser) MeasurementExporter {
			return NewJSONArrayMeasurementExporter(w)
		},
	}
}

func NewMeasurementExporter(className string, w io.WriteCloser) (MeasurementExporter, error) {
	f, ok := MeasurementExporters[className]
	if !ok {
		return nil, errors.Errorf("unsupported measurement exporter: %s", className)
	}
	return f(w), nil
}

// recordWriter writes records until the first error, which it keeps.
type recordWriter struct {
	exporter MeasurementExporter
	err      error
}

func newRecordWriter(exporter MeasurementExporter) *recordWriter {
	return &recordWriter{exporter: exporter}
}

func (self *recordWriter) write(metric, measurement string, v interface{}) {
	if self.err == nil {
		self.err = self.exporter.Write(metric, measurement, v)
	}
}

// closeBoth flushes then closes, reporting the first error.
func closeBoth(flush func() error, c io.Closer) error {
	err := flush()
	if cerr := c.Close(); err == nil {
		err = cerr
	}
	return err
}

// Write human readable text, one "[metric], measurement, value" per line.
type TextMeasurementExporter struct {
	closer io.Closer
	buf    *bufio.Writer
}

func NewTextMeasurementExporter(w io.WriteCloser) *TextMeasurementExporter {
	return &TextMeasurementExporter{
		closer: w,
		buf:    bufio.NewWriter(w),
	}
}

func (self *TextMeasurementExporter) Write(metric string, measurement string, v interface{}) error {
	_, err := fmt.Fprintf(self.buf, "[%s], %s, %v\n", metric, measurement, v)
	return err
}

func (self *TextMeasurementExporter) Close() error {
	return closeBoth(self.buf.Flush, self.closer)
}

// jsonStreamExporter encodes every record as a JSON object
// {"metric":..,"measurement":..,"value":..} on a jsoniter stream.
type jsonStreamExporter struct {
	closer  io.Closer
	stream  *jsoniter.Stream
	array   bool
	written int
}

func newJSONStreamExporter(w io.WriteCloser, array bool) *jsonStreamExporter {
	object := &jsonStreamExporter{
		closer: w,
		stream: jsoniter.NewStream(json, w, 4096),
		array:  array,
	}
	if array {
		object.stream.WriteArrayStart()
	}
	return object
}

func (self *jsonStreamExporter) Write(metric string, measurement string, v interface{}) error {
	s := self.stream
	if self.array && self.written > 0 {
		s.WriteMore()
	}
	s.WriteObjectStart()
	s.WriteObjectField("metric")
	s.WriteString(metric)
	s.WriteMore()
	s.WriteObjectField("measurement")
	s.WriteString(measurement)
	s.WriteMore()
	s.WriteObjectField("value")
	s.WriteVal(v)
	s.WriteObjectEnd()
	if !self.array {
		s.WriteRaw("\n")
	}
	self.written++
	if s.Error != nil {
		return errors.Wrapf(s.Error, "fail to export %s %s", metric, measurement)
	}
	if s.Buffered() > 2048 {
		return s.Flush()
	}
	return nil
}

func (self *jsonStreamExporter) Close() error {
	if self.array {
		self.stream.WriteArrayEnd()
	}
	return closeBoth(self.stream.Flush, self.closer)
}

// Export measurements into a machine readable JSON file, one object per line.
type JSONMeasurementExporter struct {
	*jsonStreamExporter
}

func NewJSONMeasurementExporter(w io.WriteCloser) *JSONMeasurementExporter {
	return &JSONMeasurementExporter{newJSONStreamExporter(w, false)}
}

// Export measurements into a machine readable JSON Array of measurement objects.
type JSONArrayMeasurementExporter struct {
	*jsonStreamExporter
}

func NewJSONArrayMeasurementExporter(w io.WriteCloser) *JSONArrayMeasurementExporter {
	return &JSONArrayMeasurementExporter{newJSONStreamExporter(w, true)}
}
