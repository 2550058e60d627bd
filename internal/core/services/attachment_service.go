package services

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"cmcs-claims/internal/adapters/storage"
	"cmcs-claims/internal/core/domain"

	"github.com/google/uuid"
)

// AllowedExtensions lists the accepted document types (lower case)
var AllowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".xlsx": true,
}

// AttachmentService validates and names supporting documents and hands the
// bytes to the file store
type AttachmentService struct {
	store   storage.FileStore
	newName func(ext string) string
}

// NewAttachmentService creates a new attachment service
func NewAttachmentService(store storage.FileStore) *AttachmentService {
	return &AttachmentService{
		store: store,
		newName: func(ext string) string {
			return uuid.NewString() + ext
		},
	}
}

// Validate checks every non-empty file in order and stops at the first failure
func (s *AttachmentService) Validate(files []domain.Upload) error {
	for _, f := range files {
		if f.Size == 0 {
			continue
		}
		if !AllowedExtensions[strings.ToLower(filepath.Ext(f.Filename))] {
			return fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, f.Filename)
		}
		if f.Size > domain.MaxAttachmentBytes {
			return fmt.Errorf("%w: %s", domain.ErrFileTooLarge, f.Filename)
		}
		if f.Content == nil {
			return &domain.ValidationError{Field: "documents", Message: "missing content for " + f.Filename}
		}
	}
	return nil
}

// Register validates the whole batch, then stores each file under a fresh
// logical name. The returned names keep the input order.
func (s *AttachmentService) Register(ctx context.Context, files []domain.Upload) ([]string, error) {
	if err := s.Validate(files); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		if f.Size == 0 {
			continue
		}

		name := s.newName(filepath.Ext(f.Filename))
		if err := s.store.Save(ctx, name, f.Content); err != nil {
			s.Discard(ctx, names)
			return nil, fmt.Errorf("failed to store %s: %w", f.Filename, err)
		}
		names = append(names, name)
	}
	return names, nil
}

// Discard removes stored files, logging failures
func (s *AttachmentService) Discard(ctx context.Context, names []string) {
	for _, name := range names {
		if err := s.store.Delete(ctx, name); err != nil {
			log.Printf("⚠️ Failed to remove attachment %s: %v", name, err)
		}
	}
}
