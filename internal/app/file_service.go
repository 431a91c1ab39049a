package app

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"docuchat/internal/model"
	"docuchat/internal/storage"
)

var (
	ErrFileNotFound    = errors.New("file not found")
	ErrUnsupportedType = errors.New("unsupported content type")
	ErrFileTooLarge    = errors.New("file too large")
)

// FileStore is the ownership-scoped metadata registry contract.
type FileStore interface {
	Create(file *model.UploadedFile) error
	ListByOwner(ownerID uint) ([]model.UploadedFile, error)
	MostRecentByOwner(ownerID uint) (*model.UploadedFile, error)
	GetByIDAndOwner(id, ownerID uint) (*model.UploadedFile, error)
	DeleteByIDAndOwner(id, ownerID uint) error
}

// BlobStore persists raw file bytes independently of the registry.
type BlobStore interface {
	Save(data []byte, ext string) (string, error)
	Read(storedName string) ([]byte, error)
	Delete(storedName string) error
	MaxBytes() int64
}

// ContextInvalidator drops a user's cached chat context when their file
// set changes. Invalidation is best-effort; a stale entry is also caught
// by the file-id tag on the cache side.
type ContextInvalidator interface {
	Invalidate(ctx context.Context, ownerID uint) error
}

type FileService struct {
	files FileStore
	blobs BlobStore
	cache ContextInvalidator
}

type UploadInput struct {
	OwnerID      uint
	OriginalName string
	ContentType  string
	Data         []byte
}

func NewFileService(files FileStore, blobs BlobStore, cache ContextInvalidator) *FileService {
	return &FileService{
		files: files,
		blobs: blobs,
		cache: cache,
	}
}

// Upload validates type and size before anything touches the blob store,
// then writes blob first and metadata second. A failed metadata write
// removes the just-written blob so the two stores cannot drift on this
// path.
func (s *FileService) Upload(ctx context.Context, input UploadInput) (*model.UploadedFile, error) {
	if input.OwnerID == 0 || len(input.Data) == 0 {
		return nil, ErrInvalidInput
	}
	if !storage.AllowedContentType(input.ContentType) {
		return nil, ErrUnsupportedType
	}
	if int64(len(input.Data)) > s.blobs.MaxBytes() {
		return nil, ErrFileTooLarge
	}

	storedName, err := s.blobs.Save(input.Data, filepath.Ext(input.OriginalName))
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return nil, ErrFileTooLarge
		}
		return nil, err
	}

	file := &model.UploadedFile{
		OwnerID:      input.OwnerID,
		StoredName:   storedName,
		OriginalName: input.OriginalName,
		ContentType:  input.ContentType,
		Size:         int64(len(input.Data)),
		UploadedAt:   time.Now(),
	}
	if err := s.files.Create(file); err != nil {
		_ = s.blobs.Delete(storedName)
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, input.OwnerID)
	}
	return file, nil
}

// MaxUploadBytes exposes the blob store's size cap so the transport layer
// can refuse oversize requests before reading the body.
func (s *FileService) MaxUploadBytes() int64 {
	return s.blobs.MaxBytes()
}

func (s *FileService) List(ownerID uint) ([]model.UploadedFile, error) {
	if ownerID == 0 {
		return nil, ErrInvalidInput
	}
	return s.files.ListByOwner(ownerID)
}

// Delete removes blob first, metadata second. A blob that is already gone
// is treated as deleted on that side; a second delete of the same file
// fails with ErrFileNotFound at the registry lookup without touching
// storage.
func (s *FileService) Delete(ctx context.Context, ownerID, fileID uint) error {
	if ownerID == 0 || fileID == 0 {
		return ErrInvalidInput
	}

	file, err := s.files.GetByIDAndOwner(fileID, ownerID)
	if err != nil {
		return err
	}
	if file == nil {
		return ErrFileNotFound
	}

	if err := s.blobs.Delete(file.StoredName); err != nil {
		return err
	}
	if err := s.files.DeleteByIDAndOwner(fileID, ownerID); err != nil {
		return err
	}

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, ownerID)
	}
	return nil
}
