package store

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/gatogato999/ordstore/internal/database"
	entryDb "github.com/gatogato999/ordstore/internal/entry/database"
	"github.com/gatogato999/ordstore/internal/entry/model"
	"github.com/gatogato999/ordstore/internal/logging"
	"github.com/gatogato999/ordstore/internal/notify"
	notifyModel "github.com/gatogato999/ordstore/internal/notify/model"
	"github.com/gatogato999/ordstore/internal/stats"
	"github.com/gatogato999/ordstore/pkg/rworker"
)

// Contract for returning the Manager instance
type ProvideFn = func(notify.Manager, chan<- error) (Manager, error)

// ErrKeyspaceNotFound is returned for operations against a keyspace that
// was never created.
var ErrKeyspaceNotFound = fmt.Errorf("store: keyspace not found")

// Reader defines the read-only surface of the store.
type Reader interface {
	Get(ctx context.Context, keyspace, key string) ([]byte, bool, error)
	Scan(ctx context.Context, keyspace, from string, limit int) ([]Pair, error)
	Min(keyspace string) (Pair, bool, error)
	Max(keyspace string) (Pair, bool, error)
	Count(keyspace string) (int, error)
	Keyspaces() []string
}

// Writer defines the mutating surface of the store.
type Writer interface {
	Set(ctx context.Context, keyspace, key string, value []byte) (prev []byte, replaced bool, err error)
	Delete(ctx context.Context, keyspace, key string) (removed []byte, ok bool, err error)
	CreateKeyspace(ctx context.Context, name string) error
	DropKeyspace(ctx context.Context, name string) error
}

// Debugger exposes tree internals for the debug endpoint.
type Debugger interface {
	DumpTree(keyspace string, w io.Writer) error
	TreeHeight(keyspace string) (int, error)
}

// Manager is the behavior of the whole background store service.
type Manager interface {
	Reader
	Writer
	Debugger
	// Start method of the service
	Run(context.Context) error
	// Method for stopping the service
	Stop()
}

type Options struct {
	maxKeysStored     int
	maxStorageTime    time.Duration
	flushTime         time.Duration
	flushSize         int
	rebuildTime       time.Duration
	maxConcurrentLoad int
	bootstrapFile     string
}

type Option func(*manager)

func WithFlushTime(t time.Duration) Option {
	return func(o *manager) {
		o.opts.flushTime = t
	}
}

func WithFlushSize(n int) Option {
	return func(o *manager) {
		o.opts.flushSize = n
	}
}

func WithRebuildTime(t time.Duration) Option {
	return func(o *manager) {
		o.opts.rebuildTime = t
	}
}

func WithMaxKeysStored(n int) Option {
	return func(o *manager) {
		o.opts.maxKeysStored = n
	}
}

func WithMaxStorageTime(t time.Duration) Option {
	return func(o *manager) {
		o.opts.maxStorageTime = t
	}
}

func WithMaxConcurrentLoad(n int) Option {
	return func(o *manager) {
		o.opts.maxConcurrentLoad = n
	}
}

func WithBootstrapFile(path string) Option {
	return func(o *manager) {
		o.opts.bootstrapFile = path
	}
}

// New return manager
func New(db *database.DB, notifier notify.Notifier, shutdownCh chan<- error, opts ...Option) (*manager, error) {
	if notifier == nil {
		return nil, fmt.Errorf("notifier instance is not created")
	}
	m := &manager{
		entryDb:    entryDb.New(db),
		notifier:   notifier,
		shutdownCh: shutdownCh,
		keyspaces:  map[string]*keyspace{},
		opts: Options{
			flushSize:         64,
			flushTime:         5 * time.Second,
			rebuildTime:       time.Minute,
			maxConcurrentLoad: 4,
		},
	}
	for _, f := range opts {
		f(m)
	}
	m.flusher = newDbTxExecutor(m.entryDb, dbTxExecutorOptions{
		flushSize: m.opts.flushSize,
		flushTime: m.opts.flushTime,
	}, shutdownCh)
	m.scheduler = newDBScheduler(m.entryDb, dbSchedulerConfig{
		maxKeysStored:  m.opts.maxKeysStored,
		maxStorageTime: m.opts.maxStorageTime,
		rebuildTime:    m.opts.rebuildTime,
	})
	return m, nil
}

type manager struct {
	mtx sync.RWMutex

	opts       Options
	entryDb    *entryDb.DB
	keyspaces  map[string]*keyspace
	flusher    *dbTxExecutor
	scheduler  *dbScheduler
	notifier   notify.Notifier
	shutdownCh chan<- error
	cancel     func()
}

// Run loads persisted keyspaces, applies the bootstrap manifest and
// starts the flush and rebuild loops.
func (m *manager) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	if err := m.loadKeyspaces(ctx); err != nil {
		return fmt.Errorf("store: load keyspaces: %w", err)
	}
	if m.opts.bootstrapFile != "" {
		if err := m.bootstrap(ctx, m.opts.bootstrapFile); err != nil {
			return fmt.Errorf("store: bootstrap: %w", err)
		}
	}

	go m.flusher.loop(ctx)
	go m.scheduler.schedule(ctx, m.Keyspaces, m.entryDb.CountByKeyspace, m.entryDb.FindByKeyspace, m.evict)
	return nil
}

func (m *manager) Stop() {
	m.cancel()
}

// loadKeyspaces rebuilds every persisted keyspace tree through ordinary
// inserts, a bounded number of keyspaces at a time.
func (m *manager) loadKeyspaces(ctx context.Context) error {
	logger := logging.FromContext(ctx)
	names, err := m.entryDb.Keyspaces()
	if err != nil {
		return fmt.Errorf("unable fetch keyspace names: %v", err)
	}

	errCh := make(chan error, len(names))
	rateCh := make(chan struct{}, m.opts.maxConcurrentLoad)
	wg := sync.WaitGroup{}
	for _, name := range names {
		name := name
		rworker.Job(&wg, func() error {
			return m.loadKeyspace(ctx, name)
		}, rateCh, errCh)
	}
	wg.Wait()
	select {
	case err := <-errCh:
		return err
	default:
	}

	logger.Infof("loaded %d keyspaces", len(names))
	return nil
}

func (m *manager) loadKeyspace(ctx context.Context, name string) error {
	logger := logging.FromContext(ctx)
	entries, err := m.entryDb.FindByKeyspace(name, nil)
	if err != nil {
		return fmt.Errorf("unable fetch entries for keyspace %s: %v", name, err)
	}

	ks := newKeyspace()
	for i := range entries {
		if !entries[i].Valid() {
			logger.Errorf("keyspace %s: checksum mismatch for key %q, record skipped", name, entries[i].Key)
			continue
		}
		ks.set(entries[i].Key, entries[i].Value)
	}

	m.mtx.Lock()
	m.keyspaces[name] = ks
	m.mtx.Unlock()
	logger.Infof("keyspace %s: %d keys loaded", name, ks.count())
	return nil
}

func (m *manager) keyspace(name string) (*keyspace, bool) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	ks, ok := m.keyspaces[name]
	return ks, ok
}

func (m *manager) CreateKeyspace(_ context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("store: keyspace name must not be empty")
	}
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if _, ok := m.keyspaces[name]; ok {
		return nil
	}
	m.keyspaces[name] = newKeyspace()
	return nil
}

func (m *manager) DropKeyspace(ctx context.Context, name string) error {
	m.mtx.Lock()
	_, ok := m.keyspaces[name]
	delete(m.keyspaces, name)
	m.mtx.Unlock()
	if !ok {
		return ErrKeyspaceNotFound
	}
	m.flusher.discardKeyspace(name)
	if err := m.entryDb.DropKeyspace(ctx, name); err != nil {
		return fmt.Errorf("unable drop keyspace %s: %v", name, err)
	}
	m.notifier.Notify(notifyModel.NewEvent(notifyModel.TypeKeyspaceDropped, name, ""))
	return nil
}

func (m *manager) Keyspaces() []string {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	names := make([]string, 0, len(m.keyspaces))
	for name := range m.keyspaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *manager) Set(ctx context.Context, keyspace, key string, value []byte) ([]byte, bool, error) {
	defer stats.RecordOp(ctx, stats.OpSet, time.Now())
	ks, ok := m.keyspace(keyspace)
	if !ok {
		return nil, false, ErrKeyspaceNotFound
	}
	prev, replaced := ks.set(key, value)
	m.flusher.append(ctx, model.NewEntry(keyspace, key, value))
	return prev, replaced, nil
}

func (m *manager) Get(ctx context.Context, keyspace, key string) ([]byte, bool, error) {
	defer stats.RecordOp(ctx, stats.OpGet, time.Now())
	ks, ok := m.keyspace(keyspace)
	if !ok {
		return nil, false, ErrKeyspaceNotFound
	}
	value, found := ks.get(key)
	return value, found, nil
}

func (m *manager) Delete(ctx context.Context, keyspace, key string) ([]byte, bool, error) {
	defer stats.RecordOp(ctx, stats.OpDelete, time.Now())
	ks, ok := m.keyspace(keyspace)
	if !ok {
		return nil, false, ErrKeyspaceNotFound
	}
	removed, found := ks.delete(key)
	if !found {
		return nil, false, nil
	}
	// drop any buffered write for the key before touching the db so a
	// later flush cannot resurrect it
	m.flusher.discard(keyspace, key)
	if err := m.entryDb.Delete(ctx, keyspace, key); err != nil {
		return nil, false, fmt.Errorf("unable delete entry %s/%s: %v", keyspace, key, err)
	}
	return removed, true, nil
}

func (m *manager) Scan(ctx context.Context, keyspace, from string, limit int) ([]Pair, error) {
	defer stats.RecordOp(ctx, stats.OpScan, time.Now())
	ks, ok := m.keyspace(keyspace)
	if !ok {
		return nil, ErrKeyspaceNotFound
	}
	return ks.scan(from, limit), nil
}

func (m *manager) Min(keyspace string) (Pair, bool, error) {
	ks, ok := m.keyspace(keyspace)
	if !ok {
		return Pair{}, false, ErrKeyspaceNotFound
	}
	pair, found := ks.min()
	return pair, found, nil
}

func (m *manager) Max(keyspace string) (Pair, bool, error) {
	ks, ok := m.keyspace(keyspace)
	if !ok {
		return Pair{}, false, ErrKeyspaceNotFound
	}
	pair, found := ks.max()
	return pair, found, nil
}

func (m *manager) Count(keyspace string) (int, error) {
	ks, ok := m.keyspace(keyspace)
	if !ok {
		return 0, ErrKeyspaceNotFound
	}
	return ks.count(), nil
}

func (m *manager) DumpTree(keyspace string, w io.Writer) error {
	ks, ok := m.keyspace(keyspace)
	if !ok {
		return ErrKeyspaceNotFound
	}
	ks.dump(w)
	return nil
}

func (m *manager) TreeHeight(keyspace string) (int, error) {
	ks, ok := m.keyspace(keyspace)
	if !ok {
		return 0, ErrKeyspaceNotFound
	}
	return ks.height(), nil
}

// evict is the scheduler callback: entries already removed from the db
// are dropped from the in-memory tree and reported to the notifier.
func (m *manager) evict(ctx context.Context, eventType string, entries []model.Entry) {
	logger := logging.FromContext(ctx)
	events := make([]notifyModel.Event, 0, len(entries))
	for i := range entries {
		ks, ok := m.keyspace(entries[i].Keyspace)
		if !ok {
			continue
		}
		if _, found := ks.delete(entries[i].Key); found {
			events = append(events, notifyModel.NewEvent(eventType, entries[i].Keyspace, entries[i].Key))
		}
	}
	if len(events) > 0 {
		logger.Infof("evicted %d entries (%s)", len(events), eventType)
		m.notifier.Notify(events...)
	}
}
