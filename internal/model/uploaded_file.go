package model

import "time"

// UploadedFile is the metadata record for a stored document. The raw bytes
// live in the blob store under StoredName; the two can drift independently
// and callers must tolerate a missing blob.
type UploadedFile struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OwnerID      uint      `gorm:"not null;index" json:"owner_id"`
	StoredName   string    `gorm:"size:128;not null;uniqueIndex" json:"stored_name"`
	OriginalName string    `gorm:"size:256;not null" json:"original_name"`
	ContentType  string    `gorm:"size:128;not null" json:"content_type"`
	Size         int64     `gorm:"not null" json:"size"`
	UploadedAt   time.Time `gorm:"not null;index" json:"uploaded_at"`
}
