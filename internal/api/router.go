package api

import "net/http"

func Router(h *Handler, adminSecret string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/health", h.Health)

	mux.HandleFunc("POST /v1/orders/{id}/status-changed", h.OrderStatusChanged)

	mux.HandleFunc("GET /v1/settings", requireAdmin(adminSecret, h.GetSettings))
	mux.HandleFunc("PUT /v1/settings", requireAdmin(adminSecret, h.PutSettings))

	mux.HandleFunc("GET /v1/worker/status", h.WorkerStatus)
	mux.HandleFunc("POST /v1/worker/start", requireAdmin(adminSecret, h.WorkerStart))
	mux.HandleFunc("POST /v1/worker/stop", requireAdmin(adminSecret, h.WorkerStop))

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("order-sms"))
	})

	return mux
}
