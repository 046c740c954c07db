package storage

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eduportal-backend/internal/service/chat"
	"eduportal-backend/internal/service/storage"
	apperrors "eduportal-backend/pkg/errors"
	"eduportal-backend/pkg/response"
)

// Handler handles attachment storage HTTP requests
type Handler struct {
	storageService *storage.Service
	chatService    *chat.Service
}

// NewHandler creates a new storage handler
func NewHandler(storageService *storage.Service, chatService *chat.Service) *Handler {
	return &Handler{
		storageService: storageService,
		chatService:    chatService,
	}
}

// UploadURLRequest describes an attachment upload request
type UploadURLRequest struct {
	ConversationID string `json:"conversation_id" binding:"required"`
	FileName       string `json:"file_name" binding:"required"`
	FileSize       int64  `json:"file_size" binding:"required,min=1"`
	ContentType    string `json:"content_type" binding:"required"`
}

// DownloadURLRequest describes an attachment download request
type DownloadURLRequest struct {
	ObjectKey string `form:"object_key" binding:"required"`
	FileName  string `form:"file_name"`
}

// GenerateUploadURL handles POST /v1/attachments/upload-url
// Membership in the conversation gates the presigned URL; clients never see
// storage credentials.
func (h *Handler) GenerateUploadURL(c *gin.Context) {
	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	// Reuse conversation membership as the access check
	if _, err := h.chatService.GetMessages(c.Request.Context(), req.ConversationID, 1); err != nil {
		respondError(c, err)
		return
	}

	output, err := h.storageService.GenerateUploadURL(c.Request.Context(), &storage.GenerateUploadURLInput{
		ConversationID: req.ConversationID,
		FileName:       req.FileName,
		FileSize:       req.FileSize,
		ContentType:    req.ContentType,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, output)
}

// GenerateDownloadURL handles GET /v1/attachments/download-url
func (h *Handler) GenerateDownloadURL(c *gin.Context) {
	var req DownloadURLRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	downloadURL, err := h.storageService.GenerateDownloadURL(c.Request.Context(), req.ObjectKey, req.FileName)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"download_url": downloadURL})
}

func respondError(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	response.Error(c, appErr.StatusCode, string(appErr.Code), appErr.Message)
}
