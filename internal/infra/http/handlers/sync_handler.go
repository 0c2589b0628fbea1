package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/luminafoto/lumina-api/internal/infra/http/middleware"
	"github.com/luminafoto/lumina-api/internal/offline"
)

// SyncHandler expõe a fila offline para o painel: replay manual e contagem
// de pendências.
type SyncHandler struct {
	Queue *offline.Queue
}

func NewSyncHandler(queue *offline.Queue) *SyncHandler {
	return &SyncHandler{Queue: queue}
}

func (h *SyncHandler) Replay(w http.ResponseWriter, r *http.Request) {
	report, err := h.Queue.Replay(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "replay failed: "+err.Error())
		return
	}

	middleware.RecordReplay(report.Succeeded, report.Failed)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(report)
}

func (h *SyncHandler) Pending(w http.ResponseWriter, r *http.Request) {
	count, err := h.Queue.Pending(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "could not read pending mutations")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"pending": count,
		"online":  h.Queue.IsOnline(),
	})
}
