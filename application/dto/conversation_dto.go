package dto

import (
	"github.com/google/uuid"

	"github.com/Midnighter/knowledge-chat/domain/core/aggregates"
)

// ExchangeDTO summarizes one query/response round.
type ExchangeDTO struct {
	Query        string `json:"query"`
	Response     string `json:"response,omitempty"`
	ThoughtCount int    `json:"thought_count"`
	Closed       bool   `json:"closed"`
}

// ConversationDTO carries conversation data across the application
// boundary.
type ConversationDTO struct {
	UserID         string        `json:"user_id"`
	ConversationID string        `json:"conversation_id"`
	UserReference  uuid.UUID     `json:"user_reference"`
	Exchanges      []ExchangeDTO `json:"exchanges"`
}

// FromConversation transforms a conversation domain model into a DTO
func FromConversation(
	userID, conversationID string,
	conversation *aggregates.Conversation,
) ConversationDTO {
	exchanges := make([]ExchangeDTO, 0, conversation.ExchangeCount())
	for _, exchange := range conversation.Exchanges() {
		summary := ExchangeDTO{
			Query:        exchange.Query().Text,
			ThoughtCount: exchange.ThoughtCount(),
			Closed:       exchange.IsClosed(),
		}
		if response, ok := exchange.Response(); ok {
			summary.Response = response.Text
		}
		exchanges = append(exchanges, summary)
	}
	return ConversationDTO{
		UserID:         userID,
		ConversationID: conversationID,
		UserReference:  conversation.UserReference(),
		Exchanges:      exchanges,
	}
}
