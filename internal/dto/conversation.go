package dto

import "support-desk-backend/internal/model"

type ListConversationsResponse struct {
	Conversations []model.Conversation `json:"conversations"`
}

type ListMessagesResponse struct {
	ConversationID string          `json:"conversationId"`
	Messages       []model.Message `json:"messages"`
}

type UpdateConversationStatusRequest struct {
	Status string `json:"status"`
}

type SendReplyRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
}

type SendReplyResponse struct {
	Message model.Message `json:"message"`
}
