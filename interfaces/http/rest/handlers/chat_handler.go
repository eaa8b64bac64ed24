package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Midnighter/knowledge-chat/application/dto"
	"github.com/Midnighter/knowledge-chat/application/services"
	kcerrors "github.com/Midnighter/knowledge-chat/pkg/errors"
)

// genericFailureMessage is shown for internal and generation failures;
// detail stays in the logs.
const genericFailureMessage = "The bot ran into an error. Rephrase your query and try again."

// ChatHandler exposes the chat application service over HTTP. Its three
// core operations are the entire surface a front-end may call.
type ChatHandler struct {
	service  *services.ChatService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(service *services.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	UserID string `json:"user_id" validate:"required,max=128"`
	Name   string `json:"name" validate:"required,max=256"`
	Email  string `json:"email" validate:"required,email"`
}

// CreateUserResponse represents the response for creating a user
type CreateUserResponse struct {
	UserID    string `json:"user_id"`
	Reference string `json:"reference"`
}

// CreateUser handles POST /users
func (h *ChatHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	reference, err := h.service.CreateUser(r.Context(), dto.UserDTO{
		UserID: req.UserID,
		Name:   req.Name,
		Email:  req.Email,
	})
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, CreateUserResponse{
		UserID:    req.UserID,
		Reference: reference.String(),
	})
}

// GetUser handles GET /users/{userID}
func (h *ChatHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, user)
}

// StartConversationResponse represents the response for starting a
// conversation
type StartConversationResponse struct {
	UserID         string `json:"user_id"`
	ConversationID string `json:"conversation_id"`
	Reference      string `json:"reference"`
}

// StartConversation handles POST /users/{userID}/conversations/{conversationID}
func (h *ChatHandler) StartConversation(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	conversationID := chi.URLParam(r, "conversationID")

	reference, err := h.service.StartConversation(r.Context(), userID, conversationID)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, StartConversationResponse{
		UserID:         userID,
		ConversationID: conversationID,
		Reference:      reference.String(),
	})
}

// GetConversation handles GET /users/{userID}/conversations/{conversationID}
func (h *ChatHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	conversationID := chi.URLParam(r, "conversationID")

	conversation, err := h.service.GetConversation(r.Context(), userID, conversationID)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, conversation)
}

// RespondToRequest represents the request body for a query
type RespondToRequest struct {
	Query string `json:"query" validate:"required"`
}

// RespondToResponse represents the agent's answer
type RespondToResponse struct {
	Response string `json:"response"`
}

// RespondTo handles POST /users/{userID}/conversations/{conversationID}/messages
func (h *ChatHandler) RespondTo(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	conversationID := chi.URLParam(r, "conversationID")

	var req RespondToRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	response, err := h.service.RespondTo(r.Context(), userID, conversationID, req.Query)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, RespondToResponse{Response: response})
}

// RetryExchange handles POST /users/{userID}/conversations/{conversationID}/retry
func (h *ChatHandler) RetryExchange(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	conversationID := chi.URLParam(r, "conversationID")

	response, err := h.service.RetryExchange(r.Context(), userID, conversationID)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, RespondToResponse{Response: response})
}

// respondDomainError maps domain errors to HTTP responses. Internal and
// generation failures get a generic message; the detail is logged.
func (h *ChatHandler) respondDomainError(w http.ResponseWriter, err error) {
	var domainErr *kcerrors.DomainError
	if !errors.As(err, &domainErr) {
		h.logger.Error("unexpected error", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, genericFailureMessage)
		return
	}

	switch domainErr.Type {
	case kcerrors.ErrorTypeGeneration, kcerrors.ErrorTypeInternal:
		h.logger.Error("request failed",
			zap.String("code", domainErr.Code),
			zap.Error(domainErr),
		)
		h.respondError(w, domainErr.StatusCode, genericFailureMessage)
	default:
		h.respondError(w, domainErr.StatusCode, domainErr.Message)
	}
}

func (h *ChatHandler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *ChatHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
