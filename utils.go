package tpcc

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Properties map[string]string

func NewProperties() Properties {
	return make(map[string]string)
}

func (self Properties) Get(key string) string {
	v, _ := self[key]
	return v
}

func (self Properties) GetDefault(key string, defaultValue string) string {
	if v, ok := self[key]; ok {
		return v
	}
	return defaultValue
}

func (self Properties) Add(key, value string) {
	self[key] = value
}

func (self Properties) Merge(other map[string]string) {
	for k, v := range other {
		self[k] = v
	}
}

// GetInt parses the property as an integer, or the default value if it is
// not set.
func (self Properties) GetInt(key string, defaultValue string) (int64, error) {
	s := self.GetDefault(key, defaultValue)
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s=%s", key, s)
	}
	return v, nil
}

// GetBool parses the property as a boolean, or the default value if it is
// not set.
func (self Properties) GetBool(key string, defaultValue string) (bool, error) {
	s := self.GetDefault(key, defaultValue)
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, errors.Wrapf(err, "invalid %s=%s", key, s)
	}
	return v, nil
}

func isSupportedExt(ext string) bool {
	for _, e := range viper.SupportedExts {
		if e == ext {
			return true
		}
	}
	return false
}

// LoadProperties reads a property file. Files without an extension known to
// viper are read as java style properties files.
func LoadProperties(path string) (Properties, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if !isSupportedExt(strings.TrimPrefix(filepath.Ext(path), ".")) {
		v.SetConfigType("properties")
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "fail to load property file %s", path)
	}
	props := NewProperties()
	for _, k := range v.AllKeys() {
		props[k] = v.GetString(k)
	}
	return props, nil
}

func SecondToNanosecond(second int64) int64 {
	return second * int64(time.Second)
}

func MillisecondToNanosecond(millis int64) int64 {
	return millis * int64(time.Millisecond)
}

func MillisecondToSecond(millis int64) int64 {
	return millis / 1000
}

func NanosecondToMicrosecond(nanos int64) int64 {
	return nanos / int64(time.Microsecond)
}

func NanosecondToMillisecond(nanos int64) int64 {
	return nanos / int64(time.Millisecond)
}

func Output(format string, args ...interface{}) {
	fmt.Printf(format, args...)
	fmt.Println("")
}

func OutputProperties(p Properties) {
	Output("***************** properties *****************")
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		Output("\"%s\"=\"%s\"", k, p[k])
	}
	Output("**********************************************")
}
