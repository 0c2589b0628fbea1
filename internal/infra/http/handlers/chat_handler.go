package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/luminafoto/lumina-api/internal/infra/http/middleware"
	"github.com/luminafoto/lumina-api/internal/usecase"
)

// ChatIntake é a dependência real do handler; interface para os testes.
type ChatIntake interface {
	Execute(ctx context.Context, input usecase.ChatIntakeInput) (*usecase.ChatIntakeOutput, error)
}

type ChatHandler struct {
	Intake ChatIntake
}

func NewChatHandler(intake ChatIntake) *ChatHandler {
	return &ChatHandler{Intake: intake}
}

// Handle recebe eventos do widget de chat e dos webhooks de canal.
func (h *ChatHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var input usecase.ChatIntakeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	output, err := h.Intake.Execute(r.Context(), input)
	if err != nil {
		if usecase.IsDomainError(err) {
			writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "could not process chat event")
		return
	}

	middleware.RecordLeadResolution(string(output.MatchedBy), output.Merged)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(output)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": msg,
	})
}
