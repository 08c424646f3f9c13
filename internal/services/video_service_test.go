// internal/services/video_service_test.go
package services

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isabitv/isabitv-backend/internal/config"
	"github.com/isabitv/isabitv-backend/internal/models"
)

// failingVideoStore rejects every insert, standing in for a database that
// goes away between the object write and the metadata write.
type failingVideoStore struct{}

func (failingVideoStore) Create(*models.Video) error {
	return errors.New("connection refused")
}

// recordingVideoStore accepts inserts and remembers them.
type recordingVideoStore struct {
	videos []*models.Video
}

func (s *recordingVideoStore) Create(v *models.Video) error {
	s.videos = append(s.videos, v)
	return nil
}

// multipartVideo builds a multipart upload carrying a minimal valid MP4
// header and returns the parsed file and header.
func multipartVideo(t *testing.T, filename string) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	// "ftyp" at offset 4 is enough to pass container sniffing
	payload := append([]byte{0x00, 0x00, 0x00, 0x18}, []byte("ftypisom fake video payload")...)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("video", filename)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/videos", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	file, header, err := req.FormFile("video")
	require.NoError(t, err)
	return file, header
}

func TestUploadStoresObjectAndMetadata(t *testing.T) {
	memStore := NewMemoryStore()
	storage := NewStorageServiceWithStore(&config.Config{}, memStore)
	videoStore := &recordingVideoStore{}
	svc := NewVideoServiceWithStore(nil, videoStore, storage)

	file, header := multipartVideo(t, "clip.mp4")
	defer file.Close()

	creatorID := uuid.New()
	video, err := svc.Upload(creatorID, file, header, &UploadVideoRequest{
		Title:    "Street dance session",
		Category: "dance",
		Duration: 95,
	})
	require.NoError(t, err)

	assert.Equal(t, creatorID, video.CreatorID)
	assert.NotEmpty(t, video.StorageKey)
	assert.True(t, memStore.Has(video.StorageKey))
	require.Len(t, videoStore.videos, 1)
	assert.Equal(t, video.StorageKey, videoStore.videos[0].StorageKey)
}

func TestUploadRollsBackObjectOnMetadataFailure(t *testing.T) {
	memStore := NewMemoryStore()
	storage := NewStorageServiceWithStore(&config.Config{}, memStore)
	svc := NewVideoServiceWithStore(nil, failingVideoStore{}, storage)

	file, header := multipartVideo(t, "clip.mp4")
	defer file.Close()

	_, err := svc.Upload(uuid.New(), file, header, &UploadVideoRequest{Title: "Doomed upload"})
	require.Error(t, err)

	assert.Equal(t, 0, memStore.Len(), "a failed metadata insert must not leave an orphaned object")
}

func TestUploadRejectsNonVideoPayload(t *testing.T) {
	memStore := NewMemoryStore()
	storage := NewStorageServiceWithStore(&config.Config{}, memStore)
	svc := NewVideoServiceWithStore(nil, &recordingVideoStore{}, storage)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("video", "notes.mp4")
	require.NoError(t, err)
	_, err = part.Write([]byte("plain text pretending to be a video"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/videos", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	file, header, err := req.FormFile("video")
	require.NoError(t, err)
	defer file.Close()

	_, err = svc.Upload(uuid.New(), file, header, &UploadVideoRequest{Title: "Not a video"})
	require.Error(t, err)
	assert.Equal(t, 0, memStore.Len())
}
