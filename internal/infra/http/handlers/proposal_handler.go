package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/luminafoto/lumina-api/internal/entity"
	"github.com/luminafoto/lumina-api/internal/infra/http/middleware"
	"github.com/luminafoto/lumina-api/internal/usecase"
)

type ProposalSigner interface {
	Execute(ctx context.Context, input usecase.SignProposalInput) (*usecase.SignProposalOutput, error)
}

type ProposalHandler struct {
	proposalRepo entity.ProposalRepositoryInterface
	leadRepo     entity.LeadRepositoryInterface
	signer       ProposalSigner
}

func NewProposalHandler(proposalRepo entity.ProposalRepositoryInterface, leadRepo entity.LeadRepositoryInterface, signer ProposalSigner) *ProposalHandler {
	return &ProposalHandler{
		proposalRepo: proposalRepo,
		leadRepo:     leadRepo,
		signer:       signer,
	}
}

type ProposalViewResponse struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Body       string `json:"body"` // já renderizado
	TotalCents int    `json:"total_cents"`
	Status     string `json:"status"`
	SignedAt   string `json:"signed_at,omitempty"`
}

// GetProposal é a visão pública de assinatura: corpo com os tokens do
// template já substituídos pelos dados do lead.
func (h *ProposalHandler) GetProposal(w http.ResponseWriter, r *http.Request) {
	proposalID := chi.URLParam(r, "proposalId")

	proposal, err := h.proposalRepo.FindByID(r.Context(), proposalID)
	if err != nil {
		if errors.Is(err, entity.ErrProposalNotFound) {
			writeJSONError(w, http.StatusNotFound, "proposal not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "database error")
		return
	}

	vars := map[string]string{
		"proposal_title": proposal.Title,
	}
	if lead, err := h.leadRepo.FindByID(r.Context(), proposal.StudioID, proposal.LeadID); err == nil {
		vars["client_name"] = lead.Name
		vars["event_date"] = lead.EventDate
		vars["event_location"] = lead.EventLocation
		vars["service_type"] = lead.ServiceType
	}

	resp := ProposalViewResponse{
		ID:         proposal.ID,
		Title:      proposal.Title,
		Body:       proposal.RenderBody(vars),
		TotalCents: proposal.TotalCents,
		Status:     proposal.Status,
	}
	if proposal.SignedAt != nil {
		resp.SignedAt = proposal.SignedAt.Format("2006-01-02T15:04:05Z07:00")
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

type SignRequest struct {
	SignerName  string `json:"signer_name"`
	SignerEmail string `json:"signer_email"`
}

func (h *ProposalHandler) Sign(w http.ResponseWriter, r *http.Request) {
	proposalID := chi.URLParam(r, "proposalId")

	var req SignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	output, err := h.signer.Execute(r.Context(), usecase.SignProposalInput{
		ProposalID:  proposalID,
		SignerName:  req.SignerName,
		SignerEmail: req.SignerEmail,
	})
	if err != nil {
		if usecase.IsDomainError(err) {
			writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "could not sign proposal")
		return
	}

	middleware.RecordProposalSigned()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(output)
}
