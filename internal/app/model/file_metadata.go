package model

import (
	"path/filepath"
	"strings"
	"time"
)

// MaxFileSize caps a single uploaded document.
const MaxFileSize int64 = 10 * 1024 * 1024

var AllowedExtensions = []string{".pdf", ".jpg", ".jpeg", ".png", ".docx", ".doc"}

// IsAllowedExtension reports whether name has an accepted document extension.
func IsAllowedExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

type FileMetadata struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`                // file ID (UUID)
	ApplicationID string    `gorm:"type:varchar(36);not null;index" json:"applicationId"` // owning application
	FileName      string    `gorm:"size:255;not null" json:"fileName"`                    // original file name as uploaded
	StoragePath   string    `gorm:"size:500;not null" json:"-"`                           // generated storage name, never user controlled
	ContentType   string    `gorm:"size:100;not null" json:"contentType"`                 // declared MIME type
	FileSize      int64     `gorm:"not null" json:"fileSize"`                             // size in bytes
	UploadedAt    time.Time `json:"uploadedAt"`                                           // upload time
}

func (FileMetadata) TableName() string {
	return "file_metadata"
}
