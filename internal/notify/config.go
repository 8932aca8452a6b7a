package notify

import (
	"encoding/json"
	"time"

	"github.com/gatogato999/ordstore/internal/httputil"
)

type Config struct {
	Targets              Targets       `envconfig:"ORDSTORE_NOTIFY_TARGETS"`
	Interval             time.Duration `envconfig:"ORDSTORE_NOTIFY_INTERVAL" default:"10s"`
	RequestTimeout       time.Duration `envconfig:"ORDSTORE_NOTIFY_REQUEST_TIMEOUT" default:"30s"`
	MaxConcurrentRequest int           `envconfig:"ORDSTORE_NOTIFY_MAX_CONCURRENT_REQUEST" default:"4"`
}

type Targets []Target

// Decode parses the whole target set from one JSON-valued environment
// variable, e.g. ORDSTORE_NOTIFY_TARGETS='[{"url": "http://..."}]'.
func (ts *Targets) Decode(value string) error {
	targets := []Target{}
	if err := json.Unmarshal([]byte(value), &targets); err != nil {
		return err
	}
	*ts = targets
	return nil
}

type Target struct {
	URL        string                    `json:"url"`
	HTTPConfig httputil.HTTPClientConfig `json:"httpConfig"`
}
