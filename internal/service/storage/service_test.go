package storage

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mocks
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func (m *MockObjectStorage) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	args := m.Called(ctx, bucketName, opts)
	return args.Error(0)
}

func (m *MockObjectStorage) PresignedPutObject(ctx context.Context, bucketName, objectName string, expires time.Duration) (*url.URL, error) {
	args := m.Called(ctx, bucketName, objectName, expires)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*url.URL), args.Error(1)
}

func (m *MockObjectStorage) PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error) {
	args := m.Called(ctx, bucketName, objectName, expires, reqParams)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*url.URL), args.Error(1)
}

func (m *MockObjectStorage) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	args := m.Called(ctx, bucketName, objectName, opts)
	return args.Error(0)
}

func newTestStorageService(t *testing.T) (*Service, *MockObjectStorage) {
	store := new(MockObjectStorage)
	store.On("BucketExists", mock.Anything, "attachments").Return(true, nil)

	service, err := NewService(context.Background(), store, "attachments")
	assert.NoError(t, err)

	return service, store
}

func TestGenerateUploadURL(t *testing.T) {
	service, store := newTestStorageService(t)

	signed, _ := url.Parse("https://storage.example/attachments/signed-put")
	store.On("PresignedPutObject", mock.Anything, "attachments", mock.AnythingOfType("string"), uploadURLExpiry).
		Return(signed, nil)

	output, err := service.GenerateUploadURL(context.Background(), &GenerateUploadURLInput{
		ConversationID: "conv-1",
		FileName:       "notes.pdf",
		FileSize:       1024,
		ContentType:    "application/pdf",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, output.AttachmentID)
	assert.Contains(t, output.ObjectKey, "conversations/conv-1/")
	assert.Contains(t, output.ObjectKey, ".pdf")
	assert.Equal(t, signed.String(), output.UploadURL)
	store.AssertExpectations(t)
}

func TestGenerateUploadURLRejectsOversizedFile(t *testing.T) {
	service, store := newTestStorageService(t)

	_, err := service.GenerateUploadURL(context.Background(), &GenerateUploadURLInput{
		ConversationID: "conv-1",
		FileName:       "huge.bin",
		FileSize:       maxAttachmentSize + 1,
	})

	assert.Error(t, err)
	store.AssertNotCalled(t, "PresignedPutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateDownloadURLSetsDisposition(t *testing.T) {
	service, store := newTestStorageService(t)

	signed, _ := url.Parse("https://storage.example/attachments/signed-get")
	store.On("PresignedGetObject", mock.Anything, "attachments", "conversations/conv-1/abc.pdf", downloadURLExpiry, mock.Anything).
		Return(signed, nil)

	result, err := service.GenerateDownloadURL(context.Background(), "conversations/conv-1/abc.pdf", "notes.pdf")

	assert.NoError(t, err)
	assert.Equal(t, signed.String(), result)

	params := store.Calls[1].Arguments.Get(4).(url.Values)
	assert.Contains(t, params.Get("response-content-disposition"), "notes.pdf")
}

func TestNewServiceCreatesMissingBucket(t *testing.T) {
	store := new(MockObjectStorage)
	store.On("BucketExists", mock.Anything, "attachments").Return(false, nil)
	store.On("MakeBucket", mock.Anything, "attachments", mock.Anything).Return(nil)

	_, err := NewService(context.Background(), store, "attachments")

	assert.NoError(t, err)
	store.AssertExpectations(t)
}
