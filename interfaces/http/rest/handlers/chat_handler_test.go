package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Midnighter/knowledge-chat/application/dto"
	"github.com/Midnighter/knowledge-chat/application/services"
	"github.com/Midnighter/knowledge-chat/domain/core/aggregates"
	"github.com/Midnighter/knowledge-chat/domain/core/valueobjects"
	"github.com/Midnighter/knowledge-chat/domain/service"
	"github.com/Midnighter/knowledge-chat/infrastructure/persistence"
	"github.com/Midnighter/knowledge-chat/infrastructure/persistence/memory"
)

type scriptedAgent struct {
	err error
}

func (a *scriptedAgent) Generate(
	ctx context.Context,
	conversation *aggregates.Conversation,
) (service.Generation, error) {
	if a.err != nil {
		return service.Generation{}, a.err
	}
	return service.Generation{
		Response: valueobjects.NewResponse("X is Y"),
		Thoughts: []valueobjects.Thought{valueobjects.NewThought("s1", nil)},
	}, nil
}

func setupRouter(agent service.ResponseAgent) chi.Router {
	repository := persistence.NewEventSourcedRepository(memory.NewEventStore(), nil, zap.NewNop())
	chat := services.NewChatService(repository, agent, zap.NewNop())
	handler := NewChatHandler(chat, zap.NewNop())

	router := chi.NewRouter()
	router.Post("/users", handler.CreateUser)
	router.Get("/users/{userID}", handler.GetUser)
	router.Post("/users/{userID}/conversations/{conversationID}", handler.StartConversation)
	router.Get("/users/{userID}/conversations/{conversationID}", handler.GetConversation)
	router.Post("/users/{userID}/conversations/{conversationID}/messages", handler.RespondTo)
	router.Post("/users/{userID}/conversations/{conversationID}/retry", handler.RetryExchange)
	return router
}

func doJSON(t *testing.T, router chi.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buffer bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buffer).Encode(body))
	}
	request := httptest.NewRequest(method, path, &buffer)
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestCreateUserEndpoint(t *testing.T) {
	router := setupRouter(&scriptedAgent{})

	recorder := doJSON(t, router, http.MethodPost, "/users", CreateUserRequest{
		UserID: "alice",
		Name:   "Alice",
		Email:  "alice@example.com",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	var response CreateUserResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "alice", response.UserID)
	assert.NotEmpty(t, response.Reference)
}

func TestCreateUserEndpointValidation(t *testing.T) {
	router := setupRouter(&scriptedAgent{})

	recorder := doJSON(t, router, http.MethodPost, "/users", CreateUserRequest{
		UserID: "alice",
		Name:   "Alice",
		Email:  "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetUserEndpointNotFound(t *testing.T) {
	router := setupRouter(&scriptedAgent{})

	recorder := doJSON(t, router, http.MethodGet, "/users/nobody", nil)
	require.Equal(t, http.StatusNotFound, recorder.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Contains(t, response["error"], "/users/nobody")
}

func TestConversationEndpoints(t *testing.T) {
	router := setupRouter(&scriptedAgent{})

	recorder := doJSON(t, router, http.MethodPost, "/users", CreateUserRequest{
		UserID: "alice", Name: "Alice", Email: "alice@example.com",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = doJSON(t, router, http.MethodPost, "/users/alice/conversations/first", nil)
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = doJSON(t, router, http.MethodPost, "/users/alice/conversations/first/messages",
		RespondToRequest{Query: "What is X?"})
	require.Equal(t, http.StatusOK, recorder.Code)

	var answer RespondToResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &answer))
	assert.Equal(t, "X is Y", answer.Response)

	recorder = doJSON(t, router, http.MethodGet, "/users/alice/conversations/first", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var conversation dto.ConversationDTO
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &conversation))
	require.Len(t, conversation.Exchanges, 1)
	assert.True(t, conversation.Exchanges[0].Closed)
	assert.Equal(t, "X is Y", conversation.Exchanges[0].Response)
}

// Generation failures surface as a bad gateway with a generic message;
// the retry endpoint completes the exchange once the agent recovers.
func TestGenerationFailureAndRetryEndpoints(t *testing.T) {
	agent := &scriptedAgent{err: errors.New("model unavailable")}
	router := setupRouter(agent)

	doJSON(t, router, http.MethodPost, "/users", CreateUserRequest{
		UserID: "alice", Name: "Alice", Email: "alice@example.com",
	})
	doJSON(t, router, http.MethodPost, "/users/alice/conversations/first", nil)

	recorder := doJSON(t, router, http.MethodPost, "/users/alice/conversations/first/messages",
		RespondToRequest{Query: "What is X?"})
	require.Equal(t, http.StatusBadGateway, recorder.Code)

	var failure map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &failure))
	assert.Equal(t, genericFailureMessage, failure["error"])
	assert.NotContains(t, failure["error"], "model unavailable")

	agent.err = nil
	recorder = doJSON(t, router, http.MethodPost, "/users/alice/conversations/first/retry", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var answer RespondToResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &answer))
	assert.Equal(t, "X is Y", answer.Response)
}

func TestRespondToEndpointRejectsEmptyQuery(t *testing.T) {
	router := setupRouter(&scriptedAgent{})

	doJSON(t, router, http.MethodPost, "/users", CreateUserRequest{
		UserID: "alice", Name: "Alice", Email: "alice@example.com",
	})
	doJSON(t, router, http.MethodPost, "/users/alice/conversations/first", nil)

	recorder := doJSON(t, router, http.MethodPost, "/users/alice/conversations/first/messages",
		RespondToRequest{})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
