package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vncsmyrnk/pollkit/internal/core/domain"
	"github.com/vncsmyrnk/pollkit/internal/core/ports"
)

type ResponseHandler struct {
	service ports.ResponseService
}

func NewResponseHandler(service ports.ResponseService) *ResponseHandler {
	return &ResponseHandler{
		service: service,
	}
}

type submitResponseRequest struct {
	RespondentName string         `json:"respondent_name"`
	Answers        map[string]any `json:"answers"`
	// Responses is an older name for Answers.
	Responses map[string]any `json:"responses"`
}

type listResponsesResponse struct {
	Responses []domain.Response `json:"responses"`
}

func (h *ResponseHandler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	pollID, ok := pollIDParam(w, r)
	if !ok {
		return
	}

	var req submitResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	answers := req.Answers
	if answers == nil {
		answers = req.Responses
	}

	response, err := h.service.Submit(r.Context(), ports.SubmitResponseInput{
		PollID: pollID,
		Submission: domain.Submission{
			RespondentName: req.RespondentName,
			Answers:        answers,
		},
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, response)
}

func (h *ResponseHandler) ListResponses(w http.ResponseWriter, r *http.Request) {
	pollID, ok := pollIDParam(w, r)
	if !ok {
		return
	}

	responses, err := h.service.ListResponses(r.Context(), pollID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponsesResponse{Responses: responses})
}

func pollIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	pollID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, domain.ErrInvalidPollID.Error())
		return uuid.Nil, false
	}
	return pollID, true
}
