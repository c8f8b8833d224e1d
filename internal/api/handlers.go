package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/weblineafrica/order-sms/internal/model"
	"github.com/weblineafrica/order-sms/internal/settings"
)

type DispatchFunc func(ctx context.Context, ev model.OrderStatusEvent)

// Pool is the lifecycle surface of the async dispatch pool.
type Pool interface {
	Start() bool
	Stop() bool
	IsRunning() bool
}

type Handler struct {
	dispatch DispatchFunc
	settings settings.Provider
	pool     Pool
}

// NewHandler wires the HTTP surface. pool may be nil when dispatch is synchronous.
func NewHandler(dispatch DispatchFunc, provider settings.Provider, pool Pool) *Handler {
	return &Handler{dispatch: dispatch, settings: provider, pool: pool}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type statusChangedRequest struct {
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// OrderStatusChanged accepts the shop's status change webhook. SMS outcomes are
// never reported back; the shop only learns that the event was accepted.
func (h *Handler) OrderStatusChanged(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || orderID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req statusChangedRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.NewStatus == "" {
		writeError(w, http.StatusBadRequest, "new_status is required")
		return
	}

	// The shop may hang up before the gateway answers; the send must still finish.
	h.dispatch(context.WithoutCancel(r.Context()), model.OrderStatusEvent{
		OrderID:   orderID,
		OldStatus: req.OldStatus,
		NewStatus: req.NewStatus,
	})

	writeJSON(w, http.StatusAccepted, map[string]any{"accepted": true, "order_id": orderID})
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings.Settings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.Masked())
}

func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	store, ok := h.settings.(settings.Store)
	if !ok {
		writeError(w, http.StatusNotImplemented, settings.ErrReadOnly.Error())
		return
	}

	var in settings.Settings
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	clean := settings.Sanitize(in)
	if err := store.Save(r.Context(), clean); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, clean.Masked())
}

func (h *Handler) WorkerStatus(w http.ResponseWriter, r *http.Request) {
	if h.pool == nil {
		writeJSON(w, http.StatusOK, map[string]any{"async": false, "running": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"async": true, "running": h.pool.IsRunning()})
}

func (h *Handler) WorkerStart(w http.ResponseWriter, r *http.Request) {
	if h.pool == nil {
		writeError(w, http.StatusConflict, "async dispatch disabled")
		return
	}
	h.pool.Start()
	writeJSON(w, http.StatusOK, map[string]any{"async": true, "running": h.pool.IsRunning()})
}

func (h *Handler) WorkerStop(w http.ResponseWriter, r *http.Request) {
	if h.pool == nil {
		writeError(w, http.StatusConflict, "async dispatch disabled")
		return
	}
	h.pool.Stop()
	writeJSON(w, http.StatusOK, map[string]any{"async": true, "running": h.pool.IsRunning()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
