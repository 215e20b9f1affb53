package dto

// UploadResponse is the storage descriptor returned after a successful upload.
type UploadResponse struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
	Format   string `json:"format"`
	Size     int64  `json:"size"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Duration int    `json:"duration,omitempty"` // seconds, videos only
}

// BulkUploadResponse reports per-file outcomes of a bulk upload.
type BulkUploadResponse struct {
	Uploaded []UploadResponse `json:"uploaded"`
	Failed   []FieldError     `json:"failed,omitempty"`
}
