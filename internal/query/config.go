package query

import "time"

type Config struct {
	RequestTimeout time.Duration `envconfig:"ORDSTORE_QUERY_REQUEST_TIMEOUT" default:"30s"`
	MaxKeysLen     int           `envconfig:"ORDSTORE_QUERY_MAX_KEYS_LEN" default:"100"`
	MaxScanLimit   int           `envconfig:"ORDSTORE_QUERY_MAX_SCAN_LIMIT" default:"1000"`
}
