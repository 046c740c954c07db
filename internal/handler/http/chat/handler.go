package chat

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"eduportal-backend/internal/domain"
	"eduportal-backend/internal/service/chat"
	apperrors "eduportal-backend/pkg/errors"
	"eduportal-backend/pkg/response"
)

// Handler handles chat HTTP requests
type Handler struct {
	chatService *chat.Service
}

// NewHandler creates a new chat handler
func NewHandler(chatService *chat.Service) *Handler {
	return &Handler{chatService: chatService}
}

// CreateConversationRequest represents a generic conversation create request
type CreateConversationRequest struct {
	Type         string                 `json:"type" binding:"required,oneof=direct group"`
	Title        string                 `json:"title,omitempty"`
	Participants []string               `json:"participants" binding:"required,min=1"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// CreateDMRequest represents a direct conversation create request
type CreateDMRequest struct {
	RecipientID string                 `json:"recipient_id" binding:"required"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// CreateGroupRequest represents a group conversation create request
type CreateGroupRequest struct {
	Name         string               `json:"name" binding:"required"`
	Description  string               `json:"description,omitempty"`
	Participants []string             `json:"participants" binding:"required,min=1"`
	Members      []domain.GroupMember `json:"members,omitempty"`
}

// SendMessageRequest represents a send message request
type SendMessageRequest struct {
	ConversationID string              `json:"conversation_id" binding:"required"`
	Content        string              `json:"content"`
	ContentType    string              `json:"content_type" binding:"omitempty,oneof=text file image system"`
	Attachments    []domain.Attachment `json:"attachments,omitempty"`
	ReplyTo        string              `json:"reply_to,omitempty"`
}

// MarkReadRequest represents a mark-as-read request
type MarkReadRequest struct {
	MessageIDs []string `json:"message_ids"`
}

// CreateConversation handles creating a conversation
// POST /v1/conversations
func (h *Handler) CreateConversation(c *gin.Context) {
	var req CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	output, err := h.chatService.CreateConversation(c.Request.Context(), &chat.CreateConversationInput{
		Type:         req.Type,
		Title:        req.Title,
		Participants: req.Participants,
		Metadata:     req.Metadata,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, output.Conversation)
}

// CreateDMConversation handles creating or resolving a direct conversation
// POST /v1/conversations/direct
func (h *Handler) CreateDMConversation(c *gin.Context) {
	var req CreateDMRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	output, err := h.chatService.CreateDMConversation(c.Request.Context(), &chat.CreateDMConversationInput{
		RecipientID: req.RecipientID,
		Metadata:    req.Metadata,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, output.Conversation)
}

// CreateGroupConversation handles creating a group conversation
// POST /v1/conversations/group
func (h *Handler) CreateGroupConversation(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	output, err := h.chatService.CreateGroupConversation(c.Request.Context(), &chat.CreateGroupConversationInput{
		Name:         req.Name,
		Description:  req.Description,
		Participants: req.Participants,
		Members:      req.Members,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, output.Conversation)
}

// GetConversations lists the acting user's conversations
// GET /v1/conversations
func (h *Handler) GetConversations(c *gin.Context) {
	output, err := h.chatService.GetConversations(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, output.Conversations)
}

// GetMessages retrieves a conversation's messages
// GET /v1/conversations/:id/messages?limit=50
func (h *Handler) GetMessages(c *gin.Context) {
	conversationID := c.Param("id")

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			response.ValidationError(c, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	messages, err := h.chatService.GetMessages(c.Request.Context(), conversationID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, messages)
}

// SendMessage handles sending a message
// POST /v1/messages
func (h *Handler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	output, err := h.chatService.SendMessage(c.Request.Context(), &chat.SendMessageInput{
		ConversationID: req.ConversationID,
		Content:        req.Content,
		ContentType:    req.ContentType,
		Attachments:    req.Attachments,
		ReplyTo:        req.ReplyTo,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, output.Message)
}

// MarkMessagesAsRead flags a conversation's messages as read
// POST /v1/conversations/:id/read
func (h *Handler) MarkMessagesAsRead(c *gin.Context) {
	var req MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	err := h.chatService.MarkMessagesAsRead(c.Request.Context(), &chat.MarkMessagesAsReadInput{
		ConversationID: c.Param("id"),
		MessageIDs:     req.MessageIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"marked": len(req.MessageIDs)})
}

// LeaveConversation removes the acting user from a conversation
// POST /v1/conversations/:id/leave
func (h *Handler) LeaveConversation(c *gin.Context) {
	if err := h.chatService.LeaveConversation(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"left": true})
}

// DeactivateConversation soft-deletes a conversation
// DELETE /v1/conversations/:id
func (h *Handler) DeactivateConversation(c *gin.Context) {
	if err := h.chatService.DeactivateConversation(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deactivated": true})
}

// respondError maps service errors onto the response envelope
func respondError(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	response.Error(c, appErr.StatusCode, string(appErr.Code), appErr.Message)
}
