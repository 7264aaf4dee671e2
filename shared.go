package tpcc

import (
	"sync"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
)

const (
	SharedScaleFactor         = "ScaleFactor"
	SharedDatabaseProductName = "DatabaseProductName"
	SharedDatabaseMajor       = "DatabaseMajorVersion"
	SharedDatabaseMinor       = "DatabaseMinorVersion"
)

// SharedData is a process wide key/value store agents use to publish values
// to each other.
type SharedData struct {
	cache *cache.Cache
}

func NewSharedData() *SharedData {
	return &SharedData{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (self *SharedData) Put(key string, value interface{}) {
	self.cache.Set(key, value, cache.NoExpiration)
}

func (self *SharedData) Get(key string) (interface{}, bool) {
	return self.cache.Get(key)
}

func (self *SharedData) Delete(key string) {
	self.cache.Delete(key)
}

var (
	sharedData = NewSharedData()
)

func GetSharedData() *SharedData {
	return sharedData
}

// RunMetadata is established once per run and read only afterwards.
type RunMetadata struct {
	ScaleFactor int64
	Product     Product
}

// PublishRunMetadata stores the metadata into the shared data.
func PublishRunMetadata(shared *SharedData, meta RunMetadata) {
	shared.Put(SharedScaleFactor, meta.ScaleFactor)
	shared.Put(SharedDatabaseProductName, meta.Product.Name)
	shared.Put(SharedDatabaseMajor, meta.Product.Major)
	shared.Put(SharedDatabaseMinor, meta.Product.Minor)
}

// RunMetadataCell reads the published run metadata once and hands out the
// same value afterwards.
type RunMetadataCell struct {
	once sync.Once
	meta RunMetadata
	err  error
}

func (self *RunMetadataCell) Get(shared *SharedData) (RunMetadata, error) {
	self.once.Do(func() {
		self.meta, self.err = readRunMetadata(shared)
	})
	return self.meta, self.err
}

func readRunMetadata(shared *SharedData) (RunMetadata, error) {
	var meta RunMetadata
	v, ok := shared.Get(SharedScaleFactor)
	if !ok {
		return meta, errors.New("run metadata is not published")
	}
	meta.ScaleFactor, ok = v.(int64)
	if !ok || meta.ScaleFactor <= 0 {
		return meta, errors.Errorf("invalid scale factor %v", v)
	}
	if v, ok := shared.Get(SharedDatabaseProductName); ok {
		meta.Product.Name, _ = v.(string)
	}
	if v, ok := shared.Get(SharedDatabaseMajor); ok {
		meta.Product.Major, _ = v.(int)
	}
	if v, ok := shared.Get(SharedDatabaseMinor); ok {
		meta.Product.Minor, _ = v.(int)
	}
	return meta, nil
}
