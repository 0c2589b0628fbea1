package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/luminafoto/lumina-api/internal/entity"
	"github.com/luminafoto/lumina-api/internal/offline"
	"github.com/luminafoto/lumina-api/internal/usecase"
)

type LeadHandler struct {
	leadRepo  entity.LeadRepositoryInterface
	syncQueue *offline.Queue
	throttle  *usecase.KeyedThrottle
}

func NewLeadHandler(leadRepo entity.LeadRepositoryInterface, syncQueue *offline.Queue) *LeadHandler {
	return &LeadHandler{
		leadRepo:  leadRepo,
		syncQueue: syncQueue,
		throttle:  usecase.NewKeyedThrottle(6 * time.Second), // ~10 req/min por IP
	}
}

type CaptureLeadRequest struct {
	StudioID string `json:"studio_id"`
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Whatsapp string `json:"whatsapp,omitempty"`
}

type CaptureLeadResponse struct {
	Success bool   `json:"success"`
	LeadID  string `json:"lead_id,omitempty"`
	Queued  bool   `json:"queued,omitempty"`
	Message string `json:"message,omitempty"`
}

// CaptureLead é o formulário público do mini-site ("deixe seu contato").
// Offline, a captura vira mutação pendente: formulário público nunca perde
// contato por instabilidade do banco.
func (h *LeadHandler) CaptureLead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientIP := getClientIP(r)
	if !h.throttle.Allow(clientIP, time.Now()) {
		writeJSONError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
		return
	}

	var req CaptureLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.StudioID == "" {
		writeJSONError(w, http.StatusBadRequest, "studio_id is required")
		return
	}
	if req.Email == "" {
		writeJSONError(w, http.StatusBadRequest, "Email is required")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Email is invalid")
		return
	}

	lead := entity.NewLead(req.StudioID, entity.Identifiers{Email: req.Email})
	lead.Name = req.Name
	lead.Whatsapp = req.Whatsapp

	if !h.syncQueue.IsOnline() {
		if err := h.syncQueue.Enqueue(ctx, offline.LeadInsert{Lead: *lead}); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "Failed to capture lead")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(CaptureLeadResponse{Success: true, LeadID: lead.ID, Queued: true})
		return
	}

	if err := h.leadRepo.Upsert(ctx, lead); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Failed to capture lead")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(CaptureLeadResponse{Success: true, LeadID: lead.ID})
}

func (h *LeadHandler) GetLead(w http.ResponseWriter, r *http.Request) {
	studioID := r.URL.Query().Get("studio_id")
	leadID := chi.URLParam(r, "leadId")
	if studioID == "" {
		writeJSONError(w, http.StatusBadRequest, "studio_id is required")
		return
	}

	lead, err := h.leadRepo.FindByID(r.Context(), studioID, leadID)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			writeJSONError(w, http.StatusNotFound, "lead not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "database error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lead)
}

type UpdateHeatRequest struct {
	StudioID  string           `json:"studio_id"`
	HeatLevel entity.HeatLevel `json:"heat_level"`
}

func (h *LeadHandler) UpdateHeat(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadId")

	var req UpdateHeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	switch req.HeatLevel {
	case entity.HeatCold, entity.HeatWarm, entity.HeatHot:
	default:
		writeJSONError(w, http.StatusBadRequest, "heat_level must be COLD, WARM or HOT")
		return
	}

	if !h.syncQueue.IsOnline() {
		if err := h.syncQueue.Enqueue(r.Context(), offline.LeadUpdate{
			StudioID: req.StudioID,
			LeadID:   leadID,
			Patch:    offline.LeadPatch{HeatLevel: req.HeatLevel},
		}); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "could not update heat level")
			return
		}
		w.WriteHeader(http.StatusAccepted)
		return
	}

	if err := h.leadRepo.UpdateHeat(r.Context(), req.StudioID, leadID, req.HeatLevel); err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			writeJSONError(w, http.StatusNotFound, "lead not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "database error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteLead remove o lead (LGPD: pedido de exclusão de dados). Offline, a
// remoção também é adiada via fila.
func (h *LeadHandler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	studioID := r.URL.Query().Get("studio_id")
	leadID := chi.URLParam(r, "leadId")
	if studioID == "" {
		writeJSONError(w, http.StatusBadRequest, "studio_id is required")
		return
	}

	if !h.syncQueue.IsOnline() {
		if err := h.syncQueue.Enqueue(r.Context(), offline.LeadDelete{StudioID: studioID, LeadID: leadID}); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "could not delete lead")
			return
		}
		w.WriteHeader(http.StatusAccepted)
		return
	}

	if err := h.leadRepo.Delete(r.Context(), studioID, leadID); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "database error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
