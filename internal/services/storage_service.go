// internal/services/storage_service.go
package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"github.com/isabitv/isabitv-backend/internal/config"
)

// ObjectStore is the binary storage collaborator. The S3 implementation is
// used when credentials are configured; the in-memory one backs local
// development and tests.
type ObjectStore interface {
	Put(key, contentType string, data []byte) error
	Delete(key string) error
	URL(key string) string
	Presign(key string, expiration time.Duration) (string, error)
}

type StorageService struct {
	store  ObjectStore
	config *config.Config
}

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

type UploadOptions struct {
	MaxSize      int64 // in bytes
	AllowedTypes []string
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	if cfg.AWS.AccessKeyID == "" {
		// No credentials: keep uploads in memory for local development
		return &StorageService{store: NewMemoryStore(), config: cfg}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		store:  &s3Store{client: s3.New(sess), cfg: cfg},
		config: cfg,
	}, nil
}

// NewStorageServiceWithStore injects a store directly.
func NewStorageServiceWithStore(cfg *config.Config, store ObjectStore) *StorageService {
	return &StorageService{store: store, config: cfg}
}

// Upload validates the file and writes it under {userID}/{uuid}.{ext}.
func (s *StorageService) Upload(userID uuid.UUID, file multipart.File, header *multipart.FileHeader, options UploadOptions) (*UploadResult, error) {
	// Validate file size
	if options.MaxSize > 0 && header.Size > options.MaxSize {
		return nil, fmt.Errorf("file size %d bytes exceeds maximum allowed size %d bytes", header.Size, options.MaxSize)
	}

	// Validate file type
	fileExt := strings.ToLower(filepath.Ext(header.Filename))
	if len(options.AllowedTypes) > 0 {
		allowed := false
		for _, allowedType := range options.AllowedTypes {
			if fileExt == allowedType {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, fmt.Errorf("file type %s is not allowed", fileExt)
		}
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	key := fmt.Sprintf("%s/%s%s", userID.String(), uuid.New().String(), fileExt)
	contentType := header.Header.Get("Content-Type")

	if err := s.store.Put(key, contentType, fileBytes); err != nil {
		return nil, fmt.Errorf("failed to store object: %w", err)
	}

	return &UploadResult{
		URL:      s.store.URL(key),
		Key:      key,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) Delete(key string) error {
	return s.store.Delete(key)
}

func (s *StorageService) PresignedURL(key string, expiration time.Duration) (string, error) {
	return s.store.Presign(key, expiration)
}

func (s *StorageService) VideoUploadOptions() UploadOptions {
	return UploadOptions{
		MaxSize:      500 * 1024 * 1024, // 500MB
		AllowedTypes: []string{".mp4", ".mov", ".webm", ".mkv"},
	}
}

func (s *StorageService) ImageUploadOptions() UploadOptions {
	return UploadOptions{
		MaxSize:      5 * 1024 * 1024, // 5MB
		AllowedTypes: []string{".jpg", ".jpeg", ".png", ".gif", ".webp"},
	}
}

// s3Store is the production ObjectStore.
type s3Store struct {
	client *s3.S3
	cfg    *config.Config
}

func (s *s3Store) Put(key, contentType string, data []byte) error {
	_, err := s.client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

func (s *s3Store) Delete(key string) error {
	_, err := s.client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.AWS.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

func (s *s3Store) URL(key string) string {
	if s.cfg.AWS.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", s.cfg.AWS.CloudFrontURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.cfg.AWS.S3Bucket, s.cfg.AWS.Region, key)
}

func (s *s3Store) Presign(key string, expiration time.Duration) (string, error) {
	req, _ := s.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.cfg.AWS.S3Bucket),
		Key:    aws.String(key),
	})

	url, err := req.Presign(expiration)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return url, nil
}

// MemoryStore holds objects in a map, for local development and tests.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (m *MemoryStore) Put(key, contentType string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *MemoryStore) URL(key string) string {
	return fmt.Sprintf("http://localhost:8080/uploads/%s", key)
}

func (m *MemoryStore) Presign(key string, expiration time.Duration) (string, error) {
	return m.URL(key), nil
}

// Has reports whether an object exists under the key.
func (m *MemoryStore) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

// Len returns the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// ValidateVideoFile checks the magic bytes of common video containers.
func ValidateVideoFile(file multipart.File) error {
	buffer := make([]byte, 12)
	_, err := file.Read(buffer)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	// Rewind so the upload starts at byte zero; a failed seek would
	// otherwise store a truncated object.
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to rewind file: %w", err)
	}

	// MP4/MOV: "ftyp" at offset 4
	if len(buffer) >= 8 && string(buffer[4:8]) == "ftyp" {
		return nil
	}
	// WebM/MKV: EBML header
	if len(buffer) >= 4 && buffer[0] == 0x1A && buffer[1] == 0x45 && buffer[2] == 0xDF && buffer[3] == 0xA3 {
		return nil
	}

	return fmt.Errorf("invalid video file")
}
