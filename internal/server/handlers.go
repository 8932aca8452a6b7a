package server

import (
	"fmt"
	"net/http"

	"github.com/davecgh/go-spew/spew"
	"github.com/gatogato999/ordstore/internal/store"
)

// HandleHealth is the liveness probe.
func HandleHealth(reader store.Reader) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, `{"status": "ok", "keyspaces": %d}`, len(reader.Keyspaces()))
	})
}

type treeStats struct {
	Keyspace string
	Keys     int
	Height   int
}

// HandleDebugTree dumps the shape of one keyspace tree as ASCII plus a
// spew'd stats block: GET /debug/tree?keyspace=name
func HandleDebugTree(reader store.Reader, debugger store.Debugger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("keyspace")
		count, err := reader.Count(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		height, err := debugger.TreeHeight(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		spew.Fdump(w, treeStats{Keyspace: name, Keys: count, Height: height})
		_, _ = fmt.Fprintln(w)
		if err := debugger.DumpTree(name, w); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
