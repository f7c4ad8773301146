package controllers

import (
	"net/http"

	"github.com/karangtaruna-pekunden/marketplace/api/responses"
	"github.com/karangtaruna-pekunden/marketplace/api/validators"
	"github.com/karangtaruna-pekunden/marketplace/internal/assistant"
	pkgerrors "github.com/karangtaruna-pekunden/marketplace/pkg/errors"
	"github.com/karangtaruna-pekunden/marketplace/pkg/gemini"
	"github.com/karangtaruna-pekunden/marketplace/pkg/logger"
)

const maxPromptLength = 2000

type assistantRequest struct {
	Prompt  string           `json:"prompt" validate:"required"`
	History []gemini.Content `json:"history" validate:"max=40"`
}

// AssistantAsk proxies the shipping assistant. The body is returned without the data
// envelope, matching the storefront's /api/ai contract.
func AssistantAsk(svc assistant.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assistant unavailable"))
			return
		}

		var payload assistantRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		prompt := validators.SanitizeString(payload.Prompt, maxPromptLength)

		answer, err := svc.Ask(r.Context(), prompt, payload.History)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, answer)
	}
}
