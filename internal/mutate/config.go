package mutate

import "time"

type Config struct {
	RequestTimeout  time.Duration `envconfig:"ORDSTORE_MUTATE_REQUEST_TIMEOUT" default:"60s"`
	MaxDataItemsLen int           `envconfig:"ORDSTORE_MUTATE_MAX_DATA_ITEMS_LEN" default:"1000"`
}
