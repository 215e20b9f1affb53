package models

import "time"

// UploadKind classifies stored uploads by what they were accepted as.
type UploadKind string

const (
	UploadImage  UploadKind = "image"
	UploadPDF    UploadKind = "pdf"
	UploadVideo  UploadKind = "video"
	UploadAvatar UploadKind = "avatar"
)

// File represents a stored upload in the system
type File struct {
	ID         int64      `json:"id" db:"id"`
	PublicID   string     `json:"publicId" db:"public_id"`
	FileName   string     `json:"fileName" db:"file_name"`
	FilePath   string     `json:"filePath" db:"file_path"`
	FileURL    string     `json:"fileUrl" db:"file_url"`
	FileSize   int64      `json:"fileSize" db:"file_size"`
	MimeType   string     `json:"mimeType" db:"mime_type"`
	Kind       UploadKind `json:"kind" db:"kind"`
	UploadedBy int64      `json:"uploadedBy" db:"uploaded_by"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
}
