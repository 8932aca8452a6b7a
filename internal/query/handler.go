package query

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/gatogato999/ordstore/internal/httputil"
	"github.com/gatogato999/ordstore/internal/logging"
	"github.com/gatogato999/ordstore/internal/store"
)

const maxBodyBytes = 64 * 1024 * 1024

type getRequest struct {
	Keyspace string   `json:"keyspace"`
	Keys     []string `json:"keys"`
}

type getResult struct {
	Key   string `json:"key"`
	Value []byte `json:"value,omitempty"`
	Found bool   `json:"found"`
}

type getResponse struct {
	Keyspace string      `json:"keyspace"`
	Data     []getResult `json:"data"`
}

// NewGetHandler returns the handler behind POST /get. Keys are looked up
// concurrently; a missing key is reported as found: false, not an error.
func NewGetHandler(cfg *Config, reader store.Reader) (http.Handler, error) {
	return &getHandler{cfg: cfg, reader: reader}, nil
}

type getHandler struct {
	reader store.Reader
	cfg    *Config
}

func (h *getHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req getRequest
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()

	if !acceptJSONPost(ctx, w, r) {
		return
	}
	defer r.Body.Close()

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	d := json.NewDecoder(r.Body)
	if err := d.Decode(&req); err != nil {
		httputil.DecodeErr(ctx, w, err)
		return
	}
	if len(req.Keys) > h.cfg.MaxKeysLen {
		httputil.RespBadRequest(ctx, w, `{"error": "keys is too large, max allowed len is %d"}`, h.cfg.MaxKeysLen)
		return
	}

	var data []getResult
	errGrp := errgroup.Group{}
	mtx := sync.Mutex{}
	for _, key := range req.Keys {
		key := key
		errGrp.Go(func() error {
			value, found, err := h.reader.Get(ctx, req.Keyspace, key)
			if err != nil {
				return err
			}
			mtx.Lock()
			data = append(data, getResult{Key: key, Value: value, Found: found})
			mtx.Unlock()
			return nil
		})
	}
	if err := errGrp.Wait(); err != nil {
		respStoreErr(ctx, w, err)
		return
	}

	writeJSON(ctx, w, getResponse{Keyspace: req.Keyspace, Data: data})
}

type scanRequest struct {
	Keyspace string `json:"keyspace"`
	From     string `json:"from"`
	Limit    int    `json:"limit"`
}

type scanResponse struct {
	Keyspace string       `json:"keyspace"`
	Pairs    []store.Pair `json:"pairs"`
	Count    int          `json:"count"`
}

// NewScanHandler returns the handler behind POST /scan: an ordered page
// of up to limit pairs starting at the first key >= from.
func NewScanHandler(cfg *Config, reader store.Reader) (http.Handler, error) {
	return &scanHandler{cfg: cfg, reader: reader}, nil
}

type scanHandler struct {
	reader store.Reader
	cfg    *Config
}

func (h *scanHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()
	logger := logging.FromContext(ctx)

	if !acceptJSONPost(ctx, w, r) {
		return
	}
	defer r.Body.Close()

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	d := json.NewDecoder(r.Body)
	if err := d.Decode(&req); err != nil {
		httputil.DecodeErr(ctx, w, err)
		return
	}
	if req.Limit <= 0 || req.Limit > h.cfg.MaxScanLimit {
		req.Limit = h.cfg.MaxScanLimit
	}

	pairs, err := h.reader.Scan(ctx, req.Keyspace, req.From, req.Limit)
	if err != nil {
		respStoreErr(ctx, w, err)
		return
	}

	logger.Debugf("scan keyspace %s from %q returned %d pairs", req.Keyspace, req.From, len(pairs))
	writeJSON(ctx, w, scanResponse{Keyspace: req.Keyspace, Pairs: pairs, Count: len(pairs)})
}

func acceptJSONPost(ctx context.Context, w http.ResponseWriter, r *http.Request) bool {
	logger := logging.FromContext(ctx)
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		logger.Debug(fmt.Sprintf(`{"error": "method %v is not allowed"}`, r.Method))
		_, _ = fmt.Fprintf(w, `{"error": "method %v is not allowed"}`, r.Method)
		return false
	}
	if t := r.Header.Get("content-type"); len(t) < 16 || t[:16] != "application/json" {
		w.WriteHeader(http.StatusUnsupportedMediaType)
		logger.Debug(fmt.Sprintf(`{"error": "%v"}`, "content-type is not application/json"))
		_, _ = fmt.Fprintf(w, `{"error": "%v"}`, "content-type is not application/json")
		return false
	}
	return true
}

func respStoreErr(ctx context.Context, w http.ResponseWriter, err error) {
	if err == store.ErrKeyspaceNotFound {
		httputil.RespBadRequest(ctx, w, `{"error": "%v"}`, err)
		return
	}
	httputil.RespInternalError(ctx, w, `{"error": "%v"}`, err)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		httputil.RespInternalError(ctx, w, `{"error": "failed to encode output json %v"}`, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}
