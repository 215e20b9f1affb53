package filestorage

import "mime/multipart"

// StoredObject describes a blob after it has been written to storage.
type StoredObject struct {
	PublicID string // Stable identifier used for later deletion
	URL      string // Public URL or path to access the blob
	Size     int64  // Size in bytes
	Format   string // File extension without the leading dot
}

// BlobStore defines the interface for blob storage backends.
type BlobStore interface {
	// Save writes an uploaded file under the given folder and returns its descriptor
	Save(fileHeader *multipart.FileHeader, folder string) (*StoredObject, error)

	// Delete removes a blob by its public identifier.
	// Deleting a missing blob is not an error.
	Delete(publicID string) error

	// FullPath returns the physical location backing a public identifier, if any
	FullPath(publicID string) string
}
