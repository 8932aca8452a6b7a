package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gatogato999/ordstore/internal/httputil"
	"github.com/gatogato999/ordstore/internal/logging"
	"github.com/gatogato999/ordstore/internal/notify/model"
	"github.com/gatogato999/ordstore/pkg/iqueue"
	"github.com/gatogato999/ordstore/pkg/rworker"
)

type ProvideFn = func(chan<- error) (Manager, error)

const UserAgent = "ordstore/0.1"

type Options struct {
	maxConcurrentRequest int
	requestTimeout       time.Duration
	notifyInterval       time.Duration
	targets              Targets
}

type Option func(*manager)

func WithMaxConcurrentRequest(n int) Option {
	return func(o *manager) {
		o.opts.maxConcurrentRequest = n
	}
}

func WithNotifyInterval(t time.Duration) Option {
	return func(o *manager) {
		o.opts.notifyInterval = t
	}
}

func WithRequestTimeout(t time.Duration) Option {
	return func(o *manager) {
		o.opts.requestTimeout = t
	}
}

func WithTargets(targets Targets) Option {
	return func(o *manager) {
		o.opts.targets = targets
	}
}

type request struct {
	Events []model.Event `json:"events"`
}

// Notifier accepts events for asynchronous delivery.
type Notifier interface {
	Notify(events ...model.Event)
}

type Manager interface {
	Notifier
	Run(context.Context) error
	Stop()
}

func New(shutdownCh chan<- error, opts ...Option) (*manager, error) {
	m := &manager{
		shutdownCh: shutdownCh,
		queue:      iqueue.New(),
		clients:    map[string]*http.Client{},
		opts: Options{
			maxConcurrentRequest: 4,
			requestTimeout:       30 * time.Second,
			notifyInterval:       10 * time.Second,
		},
	}
	for _, f := range opts {
		f(m)
	}
	for _, target := range m.opts.targets {
		if _, err := url.Parse(target.URL); err != nil {
			return nil, fmt.Errorf("invalid notify target %q: %w", target.URL, err)
		}
		if err := target.HTTPConfig.Validate(); err != nil {
			return nil, fmt.Errorf("invalid http config for target %q: %w", target.URL, err)
		}
		if _, ok := m.clients[target.URL]; !ok {
			client, err := httputil.NewClientFromConfig(target.HTTPConfig, true)
			if err != nil {
				return nil, fmt.Errorf("unable create client for target %q: %v", target.URL, err)
			}
			m.clients[target.URL] = client
		}
	}
	return m, nil
}

type manager struct {
	mtx        sync.Mutex
	opts       Options
	clients    map[string]*http.Client
	queue      *iqueue.Queue
	shutdownCh chan<- error
	pending    []model.Event
	cancel     func()
}

func (m *manager) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	go m.queue.Loop()
	go m.collector(ctx)
	go m.notifier(ctx)
	return nil
}

func (m *manager) Stop() {
	m.cancel()
}

// Notify queues events for delivery; it never blocks the store path.
func (m *manager) Notify(events ...model.Event) {
	if len(m.opts.targets) == 0 {
		return
	}
	for i := range events {
		m.queue.Send(events[i])
	}
}

// collector moves queued events into the pending batch for the next tick
func (m *manager) collector(ctx context.Context) {
	for {
		select {
		case v, ok := <-m.queue.Receive():
			if !ok {
				return
			}
			event, ok := v.(model.Event)
			if !ok {
				continue
			}
			m.mtx.Lock()
			m.pending = append(m.pending, event)
			m.mtx.Unlock()
		case <-ctx.Done():
			return
		}
	}
}

// drain takes the whole pending batch, leaving an empty buffer behind
func (m *manager) drain() []model.Event {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	batch := m.pending
	m.pending = nil
	return batch
}

func (m *manager) shutdown() error {
	if dropped := len(m.drain()); dropped > 0 {
		return fmt.Errorf("notify shutdown: %d undelivered events dropped", dropped)
	}
	return nil
}

func (m *manager) notifier(ctx context.Context) {
	logger := logging.FromContext(ctx)
	errCh := make(chan error, 1)
	rateCh := make(chan struct{}, m.opts.maxConcurrentRequest)
	defer close(errCh)
	defer close(rateCh)
	go func() {
		for err := range errCh {
			logger.Errorf("notify error: %v", err)
		}
	}()
	defer func() {
		m.shutdownCh <- m.shutdown()
	}()
	wg := sync.WaitGroup{}
	ticker := time.NewTicker(m.opts.notifyInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			batch := m.drain()
			if len(batch) == 0 {
				continue
			}
			for _, target := range m.opts.targets {
				target := target
				rworker.Job(&wg, func() error {
					if err := m.do(ctx, target, request{Events: batch}); err != nil {
						return fmt.Errorf("notify target %s: %v", target.URL, err)
					}
					return nil
				}, rateCh, errCh)
			}
			wg.Wait()
		case <-ctx.Done():
			return
		}
	}
}

func (m *manager) do(ctx context.Context, target Target, req request) error {
	ctx, cancel := context.WithTimeout(ctx, m.opts.requestTimeout)
	defer cancel()
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("unable encode json data: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, "POST", target.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request error: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Add("User-Agent", UserAgent)
	resp, err := m.clients[target.URL].Do(httpReq)
	if err != nil {
		return fmt.Errorf("sending request error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("target %s answered status %d", target.URL, resp.StatusCode)
	}
	return nil
}
