package store

import (
	"time"
)

type Config struct {
	MaxKeysStored     int           `envconfig:"ORDSTORE_MAX_KEYS_STORED" default:"0"`
	MaxStorageTime    time.Duration `envconfig:"ORDSTORE_MAX_STORAGE_TIME" default:"0s"`
	FlushSize         int           `envconfig:"ORDSTORE_FLUSH_SIZE" default:"64"`
	FlushTime         time.Duration `envconfig:"ORDSTORE_FLUSH_TIME" default:"5s"`
	RebuildTime       time.Duration `envconfig:"ORDSTORE_REBUILD_TIME" default:"60s"`
	MaxConcurrentLoad int           `envconfig:"ORDSTORE_MAX_CONCURRENT_LOAD" default:"4"`
	BootstrapFile     string        `envconfig:"ORDSTORE_BOOTSTRAP_FILE"`
}
