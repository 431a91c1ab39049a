package model

import "time"

// ChatMessage is one entry of the chat transcript log. Transcripts are
// persisted asynchronously and are best-effort; the chat request never
// waits on them.
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	FileID    uint      `gorm:"index" json:"file_id"` // 0 = no document was resolved
	Role      string    `gorm:"size:16;not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
