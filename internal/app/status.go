package app

import (
	"encoding/json"
	"net/http"

	"github.com/0x6666/ddns-client/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// JournalLister exposes the live journal rows.
type JournalLister interface {
	Entries() ([]storage.Entry, error)
}

// NewStatusRouter serves /healthz, /metrics and /journal.
func NewStatusRouter(journal JournalLister) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/journal", func(w http.ResponseWriter, _ *http.Request) {
		if journal == nil {
			writeJSON(w, http.StatusOK, []storage.Entry{})
			return
		}
		entries, err := journal.Entries()
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if entries == nil {
			entries = []storage.Entry{}
		}
		writeJSON(w, http.StatusOK, entries)
	})
	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
