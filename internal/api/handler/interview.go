package handler

import (
	"encoding/json"
	"net/http"

	"github.com/friendlines/interview-api/internal/api/middleware"
	"github.com/friendlines/interview-api/internal/api/response"
	"github.com/friendlines/interview-api/internal/domain"
	"github.com/friendlines/interview-api/internal/service"
	"github.com/go-chi/chi/v5"
)

// InterviewHandler handles interview endpoints
type InterviewHandler struct {
	interviewService *service.InterviewService
}

// NewInterviewHandler creates a new interview handler
func NewInterviewHandler(interviewService *service.InterviewService) *InterviewHandler {
	return &InterviewHandler{interviewService: interviewService}
}

// Start begins a new interview. The body is optional; missing or unknown
// type/language values fall back to defaults.
func (h *InterviewHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.StartInterviewInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		// Body-less start is allowed; defaults apply
		input = domain.StartInterviewInput{}
	}

	session, err := h.interviewService.StartInterview(r.Context(), userID, input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, session)
}

// SendMessage appends one user turn to an active interview
func (h *InterviewHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	interviewID := chi.URLParam(r, "interviewID")

	var input domain.SendMessageInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, "Message cannot be empty")
		return
	}

	session, err := h.interviewService.SendMessage(r.Context(), userID, interviewID, input.Message)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, session)
}

// Get returns the stored interview snapshot
func (h *InterviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	session, err := h.interviewService.GetInterview(r.Context(), userID, chi.URLParam(r, "interviewID"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, session)
}

// Cancel terminates an active interview
func (h *InterviewHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	session, err := h.interviewService.CancelInterview(r.Context(), userID, chi.URLParam(r, "interviewID"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, session)
}
