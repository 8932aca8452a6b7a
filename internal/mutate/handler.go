package mutate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gatogato999/ordstore/internal/httputil"
	"github.com/gatogato999/ordstore/internal/logging"
	"github.com/gatogato999/ordstore/internal/store"
)

const maxBodyBytes = 64 * 1024 * 1024

type setRequest struct {
	Keyspace string `json:"keyspace"`
	Pairs    []struct {
		Key   string `json:"key"`
		Value []byte `json:"value"`
	} `json:"pairs"`
}

type setResult struct {
	Key      string `json:"key"`
	Replaced bool   `json:"replaced"`
}

type setResponse struct {
	Keyspace string      `json:"keyspace"`
	Results  []setResult `json:"results"`
}

// NewSetHandler returns the handler behind POST /set.
func NewSetHandler(cfg *Config, writer store.Writer) (http.Handler, error) {
	return &setHandler{cfg: cfg, writer: writer}, nil
}

type setHandler struct {
	writer store.Writer
	cfg    *Config
}

func (h *setHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req setRequest
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
	if len(req.Pairs) > h.cfg.MaxDataItemsLen {
		httputil.RespBadRequest(ctx, w, `{"error": "data items is too large, max allowed len is %d"}`, h.cfg.MaxDataItemsLen)
		return
	}

	resp := setResponse{Keyspace: req.Keyspace, Results: make([]setResult, 0, len(req.Pairs))}
	for _, pair := range req.Pairs {
		_, replaced, err := h.writer.Set(ctx, req.Keyspace, pair.Key, pair.Value)
		if err != nil {
			respStoreErr(ctx, w, err)
			return
		}
		resp.Results = append(resp.Results, setResult{Key: pair.Key, Replaced: replaced})
	}

	logger.Debugf("stored %d pairs in keyspace %s", len(req.Pairs), req.Keyspace)
	writeJSON(ctx, w, resp)
}

type deleteRequest struct {
	Keyspace string   `json:"keyspace"`
	Keys     []string `json:"keys"`
}

type deleteResult struct {
	Key     string `json:"key"`
	Removed bool   `json:"removed"`
}

type deleteResponse struct {
	Keyspace string         `json:"keyspace"`
	Results  []deleteResult `json:"results"`
}

// NewDeleteHandler returns the handler behind POST /delete. Missing keys
// are not an error, they report removed: false.
func NewDeleteHandler(cfg *Config, writer store.Writer) (http.Handler, error) {
	return &deleteHandler{cfg: cfg, writer: writer}, nil
}

type deleteHandler struct {
	writer store.Writer
	cfg    *Config
}

func (h *deleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
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
	if len(req.Keys) > h.cfg.MaxDataItemsLen {
		httputil.RespBadRequest(ctx, w, `{"error": "data items is too large, max allowed len is %d"}`, h.cfg.MaxDataItemsLen)
		return
	}

	resp := deleteResponse{Keyspace: req.Keyspace, Results: make([]deleteResult, 0, len(req.Keys))}
	for _, key := range req.Keys {
		_, removed, err := h.writer.Delete(ctx, req.Keyspace, key)
		if err != nil {
			respStoreErr(ctx, w, err)
			return
		}
		resp.Results = append(resp.Results, deleteResult{Key: key, Removed: removed})
	}

	writeJSON(ctx, w, resp)
}

type keyspaceRequest struct {
	Action string `json:"action"`
	Name   string `json:"name"`
}

// NewKeyspaceHandler returns the handler behind POST /keyspace, taking
// {"action": "create"|"drop", "name": ...}.
func NewKeyspaceHandler(cfg *Config, writer store.Writer) (http.Handler, error) {
	return &keyspaceHandler{cfg: cfg, writer: writer}, nil
}

type keyspaceHandler struct {
	writer store.Writer
	cfg    *Config
}

func (h *keyspaceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req keyspaceRequest
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

	var err error
	switch req.Action {
	case "create":
		err = h.writer.CreateKeyspace(ctx, req.Name)
	case "drop":
		err = h.writer.DropKeyspace(ctx, req.Name)
	default:
		httputil.RespBadRequest(ctx, w, `{"error": "unknown action %q"}`, req.Action)
		return
	}
	if err != nil {
		respStoreErr(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, `{"status": "ok"}`)
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
