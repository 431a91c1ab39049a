package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"docuchat/internal/model"
)

// FileRepository scopes every lookup and mutation by owner so that an
// unscoped read cannot be expressed. A file owned by someone else is
// indistinguishable from a file that does not exist.
type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Create(file *model.UploadedFile) error {
	if err := r.db.Create(file).Error; err != nil {
		return fmt.Errorf("create uploaded file failed: %w", err)
	}
	return nil
}

func (r *FileRepository) ListByOwner(ownerID uint) ([]model.UploadedFile, error) {
	var files []model.UploadedFile
	if err := r.db.Where("owner_id = ?", ownerID).Order("uploaded_at DESC").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("list uploaded files failed: %w", err)
	}
	return files, nil
}

func (r *FileRepository) MostRecentByOwner(ownerID uint) (*model.UploadedFile, error) {
	var file model.UploadedFile
	if err := r.db.Where("owner_id = ?", ownerID).Order("uploaded_at DESC").First(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query most recent uploaded file failed: %w", err)
	}
	return &file, nil
}

func (r *FileRepository) GetByIDAndOwner(id, ownerID uint) (*model.UploadedFile, error) {
	var file model.UploadedFile
	if err := r.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get uploaded file failed: %w", err)
	}
	return &file, nil
}

func (r *FileRepository) DeleteByIDAndOwner(id, ownerID uint) error {
	if err := r.db.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&model.UploadedFile{}).Error; err != nil {
		return fmt.Errorf("delete uploaded file failed: %w", err)
	}
	return nil
}
