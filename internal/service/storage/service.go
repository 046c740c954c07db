package storage

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	apperrors "eduportal-backend/pkg/errors"
	"eduportal-backend/pkg/logger"
)

// presigned URL validity windows
const (
	uploadURLExpiry   = 15 * time.Minute
	downloadURLExpiry = time.Hour
)

// maxAttachmentSize caps a single chat attachment at 50 MiB
const maxAttachmentSize = 50 << 20

// ObjectStorage is the object store surface the service needs
type ObjectStorage interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PresignedPutObject(ctx context.Context, bucketName, objectName string, expires time.Duration) (*url.URL, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// Service issues short-lived presigned URLs for chat attachments. Clients
// upload and download directly against object storage and never see
// credentials.
type Service struct {
	store      ObjectStorage
	bucketName string
}

// NewService creates a storage service, ensuring the bucket exists
func NewService(ctx context.Context, store ObjectStorage, bucketName string) (*Service, error) {
	exists, err := store.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := store.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Service{store: store, bucketName: bucketName}, nil
}

// GenerateUploadURLInput describes the attachment being uploaded
type GenerateUploadURLInput struct {
	ConversationID string
	FileName       string
	FileSize       int64
	ContentType    string
}

// GenerateUploadURLOutput carries the presigned upload target
type GenerateUploadURLOutput struct {
	AttachmentID string
	ObjectKey    string
	UploadURL    string
	ExpiresAt    time.Time
}

// GenerateUploadURL issues a presigned PUT URL for a new chat attachment.
// The object key embeds the conversation so access checks can reuse
// conversation membership.
func (s *Service) GenerateUploadURL(ctx context.Context, input *GenerateUploadURLInput) (*GenerateUploadURLOutput, error) {
	if input.ConversationID == "" {
		return nil, apperrors.ValidationError("conversation id is required")
	}
	if input.FileName == "" {
		return nil, apperrors.ValidationError("file name is required")
	}
	if input.FileSize <= 0 || input.FileSize > maxAttachmentSize {
		return nil, apperrors.ValidationError("file size out of range")
	}

	attachmentID := uuid.NewString()
	objectKey := fmt.Sprintf("conversations/%s/%s%s", input.ConversationID, attachmentID, path.Ext(input.FileName))

	presignedURL, err := s.store.PresignedPutObject(ctx, s.bucketName, objectKey, uploadURLExpiry)
	if err != nil {
		return nil, apperrors.StorageError(fmt.Errorf("failed to generate upload URL: %w", err))
	}

	logger.Debug("Attachment upload URL issued",
		zap.String("conversation_id", input.ConversationID),
		zap.String("object_key", objectKey),
		zap.Int64("file_size", input.FileSize))

	return &GenerateUploadURLOutput{
		AttachmentID: attachmentID,
		ObjectKey:    objectKey,
		UploadURL:    presignedURL.String(),
		ExpiresAt:    time.Now().Add(uploadURLExpiry),
	}, nil
}

// GenerateDownloadURL issues a presigned GET URL for an attachment object
func (s *Service) GenerateDownloadURL(ctx context.Context, objectKey, fileName string) (string, error) {
	if objectKey == "" {
		return "", apperrors.ValidationError("object key is required")
	}

	reqParams := make(url.Values)
	if fileName != "" {
		reqParams.Set("response-content-disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	}

	presignedURL, err := s.store.PresignedGetObject(ctx, s.bucketName, objectKey, downloadURLExpiry, reqParams)
	if err != nil {
		return "", apperrors.StorageError(fmt.Errorf("failed to generate download URL: %w", err))
	}

	return presignedURL.String(), nil
}

// DeleteObject removes an attachment object
func (s *Service) DeleteObject(ctx context.Context, objectKey string) error {
	if err := s.store.RemoveObject(ctx, s.bucketName, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return apperrors.StorageError(fmt.Errorf("failed to remove object: %w", err))
	}
	return nil
}
