package models

import "time"

// FileRecord is the metadata half of a logical file. The physical half
// lives on disk under the owner's storage namespace; the two are kept
// consistent by the file service, not by any transactional coupling.
type FileRecord struct {
	// UserID is the owner of the file.
	UserID int64
	// FileName is unique within the owner's scope.
	FileName string
	// FileHash is the hex SHA-256 digest recorded at save time.
	FileHash string
}

// FileDetail describes a stored file as it currently exists on disk.
// Hash is recomputed from the bytes at read time, never copied from the
// metadata record, so listings always reflect on-disk truth.
type FileDetail struct {
	FileName  string
	Size      int64
	CreatedAt time.Time
	Hash      string
}
