package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/iamNilotpal/ignite/internal/engineselect"
)

// NewDebugMux builds the operator-facing HTTP surface: a JSON snapshot of
// engine state at /stats and a liveness probe at /healthz. Neither is part
// of the core engine contract (spec §1 scopes the network server out
// entirely); they exist purely so an operator running kvs-server has
// somewhere to look.
func NewDebugMux(eng engineselect.Engine) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	router.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		stats := eng.Stats()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(stats)
	}).Methods(http.MethodGet)

	return router
}
