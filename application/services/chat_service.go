package services

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Midnighter/knowledge-chat/application/dto"
	"github.com/Midnighter/knowledge-chat/application/ports"
	"github.com/Midnighter/knowledge-chat/domain/core/aggregates"
	"github.com/Midnighter/knowledge-chat/domain/core/valueobjects"
	"github.com/Midnighter/knowledge-chat/domain/service"
	kcerrors "github.com/Midnighter/knowledge-chat/pkg/errors"
)

// ChatService orchestrates the repository and the external response agent
// to answer user queries. Aggregates are never shared across calls: each
// request loads fresh state by replay, mutates a private copy and saves
// with optimistic concurrency.
type ChatService struct {
	repository ports.Repository
	agent      service.ResponseAgent
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewChatService creates the chat application service
func NewChatService(
	repository ports.Repository,
	agent service.ResponseAgent,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		repository: repository,
		agent:      agent,
		validate:   validator.New(),
		logger:     logger,
	}
}

// CreateUser creates a new user and its index entry in one atomic save,
// returning the user's internal identity.
func (s *ChatService) CreateUser(ctx context.Context, user dto.UserDTO) (uuid.UUID, error) {
	if err := s.validate.Struct(user); err != nil {
		return uuid.Nil, kcerrors.NewValidationError("invalid user data").WithCause(err)
	}

	domainUser := user.Create()
	index := aggregates.NewUserIndex(user.UserID, domainUser.GetID())
	if err := s.repository.Save(ctx, domainUser, index); err != nil {
		return uuid.Nil, err
	}

	s.logger.Info("user created",
		zap.String("user_id", user.UserID),
		zap.String("reference", domainUser.GetID().String()),
	)
	return domainUser.GetID(), nil
}

// GetUser returns user data by the external user id
func (s *ChatService) GetUser(ctx context.Context, userID string) (dto.UserDTO, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return dto.UserDTO{}, err
	}
	return dto.FromUser(userID, user), nil
}

// StartConversation creates a conversation owned by the user, appends the
// reference to the user and persists user, conversation and index entry
// atomically. It returns the conversation's internal identity.
func (s *ChatService) StartConversation(
	ctx context.Context,
	userID, conversationID string,
) (uuid.UUID, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}

	conversation := aggregates.NewConversation(user.GetID())
	index := aggregates.NewConversationIndex(userID, conversationID, conversation.GetID())
	if err := user.AddConversation(conversation.GetID()); err != nil {
		return uuid.Nil, err
	}

	if err := s.repository.Save(ctx, user, conversation, index); err != nil {
		return uuid.Nil, err
	}

	s.logger.Info("conversation started",
		zap.String("user_id", userID),
		zap.String("conversation_id", conversationID),
		zap.String("reference", conversation.GetID().String()),
	)
	return conversation.GetID(), nil
}

// GetConversation returns conversation data by its external identifiers
func (s *ChatService) GetConversation(
	ctx context.Context,
	userID, conversationID string,
) (dto.ConversationDTO, error) {
	conversation, err := s.getConversation(ctx, userID, conversationID)
	if err != nil {
		return dto.ConversationDTO{}, err
	}
	return dto.FromConversation(userID, conversationID, conversation), nil
}

// RespondTo raises the query on the conversation, persists it, then asks
// the response agent and folds its reasoning and response back into the
// exchange. The raised query is committed before the agent runs, so a
// generation failure leaves the exchange open with zero thoughts and
// nothing from the failed attempt persisted.
func (s *ChatService) RespondTo(
	ctx context.Context,
	userID, conversationID, query string,
) (string, error) {
	conversation, err := s.getConversation(ctx, userID, conversationID)
	if err != nil {
		return "", err
	}

	// Invalid state surfaces here, before the agent is ever invoked.
	if err := conversation.RaiseQuery(valueobjects.NewQuery(query)); err != nil {
		return "", err
	}
	if err := s.repository.Save(ctx, conversation); err != nil {
		return "", err
	}

	return s.completeExchange(ctx, userID, conversationID, conversation)
}

// RetryExchange re-invokes the response agent on an exchange left open by
// a failed generation. It is legal only when the latest exchange is open
// with no thoughts recorded.
func (s *ChatService) RetryExchange(
	ctx context.Context,
	userID, conversationID string,
) (string, error) {
	conversation, err := s.getConversation(ctx, userID, conversationID)
	if err != nil {
		return "", err
	}

	exchange, ok := conversation.LatestExchange()
	if !ok {
		return "", kcerrors.NewInvalidState("no exchange to retry")
	}
	if exchange.IsClosed() {
		return "", kcerrors.NewInvalidState("the latest exchange is already closed")
	}
	if exchange.ThoughtCount() > 0 {
		return "", kcerrors.NewInvalidState("the latest exchange already has recorded thoughts")
	}

	return s.completeExchange(ctx, userID, conversationID, conversation)
}

// completeExchange runs the agent and persists the resulting thoughts and
// response. On agent failure nothing is persisted.
func (s *ChatService) completeExchange(
	ctx context.Context,
	userID, conversationID string,
	conversation *aggregates.Conversation,
) (string, error) {
	generation, err := s.agent.Generate(ctx, conversation)
	if err != nil {
		s.logger.Error("response generation failed",
			zap.String("user_id", userID),
			zap.String("conversation_id", conversationID),
			zap.Error(err),
		)
		return "", kcerrors.NewGenerationFailure(err)
	}

	for _, thought := range generation.Thoughts {
		if err := conversation.AddThought(thought); err != nil {
			return "", err
		}
	}
	if len(generation.Thoughts) == 0 {
		// Legal but suspicious, usually a misconfigured agent.
		s.logger.Warn("exchange closed without thoughts",
			zap.String("user_id", userID),
			zap.String("conversation_id", conversationID),
		)
	}
	if err := conversation.Respond(generation.Response); err != nil {
		return "", err
	}

	if err := s.repository.Save(ctx, conversation); err != nil {
		return "", err
	}
	return generation.Response.Text, nil
}

// getUser resolves a user through its deterministic index entry.
func (s *ChatService) getUser(ctx context.Context, userID string) (*aggregates.User, error) {
	aggregate, err := s.repository.Get(ctx, aggregates.DeriveUserIndexID(userID))
	if err != nil {
		if kcerrors.IsNotFound(err) {
			return nil, kcerrors.NewUserNotFound(userID)
		}
		return nil, err
	}
	index, ok := aggregate.(*aggregates.UserIndex)
	if !ok {
		return nil, kcerrors.NewInternalError("index identity resolved to a non-index aggregate", nil)
	}

	// When the index exists, so does the referenced user.
	referenced, err := s.repository.Get(ctx, index.Reference())
	if err != nil {
		return nil, err
	}
	user, ok := referenced.(*aggregates.User)
	if !ok {
		return nil, kcerrors.NewInternalError("user index references a non-user aggregate", nil)
	}
	return user, nil
}

// getConversation resolves a conversation through its deterministic index
// entry.
func (s *ChatService) getConversation(
	ctx context.Context,
	userID, conversationID string,
) (*aggregates.Conversation, error) {
	aggregate, err := s.repository.Get(
		ctx,
		aggregates.DeriveConversationIndexID(userID, conversationID),
	)
	if err != nil {
		if kcerrors.IsNotFound(err) {
			return nil, kcerrors.NewConversationNotFound(userID, conversationID)
		}
		return nil, err
	}
	index, ok := aggregate.(*aggregates.ConversationIndex)
	if !ok {
		return nil, kcerrors.NewInternalError("index identity resolved to a non-index aggregate", nil)
	}

	referenced, err := s.repository.Get(ctx, index.Reference())
	if err != nil {
		return nil, err
	}
	conversation, ok := referenced.(*aggregates.Conversation)
	if !ok {
		return nil, kcerrors.NewInternalError("conversation index references a non-conversation aggregate", nil)
	}
	return conversation, nil
}
