// Package files implements the metadata store adapter for file records.
//
// A record and its stored object are two halves of one logical file kept in
// separate subsystems with no transactional coupling; this package owns the
// database half only. All queries are parameterized and owner-scoped.
package files

import (
	"context"

	"github.com/dmitrijs2005/filekeeper/internal/server/models"
)

type Repository interface {
	// Add inserts a record for (userID, fileName). Returns
	// common.ErrDuplicateName when a record for that pair already exists;
	// the store-level uniqueness constraint arbitrates concurrent saves,
	// so exactly one of two racing Adds succeeds.
	Add(ctx context.Context, userID int64, fileName, fileHash string) error

	// List returns all records owned by userID, unordered with respect to
	// insertion. A user with no files yields an empty slice, not an error.
	List(ctx context.Context, userID int64) ([]*models.FileRecord, error)

	// Delete removes the record for (userID, fileName). Returns
	// common.ErrNotFound when no row matched.
	Delete(ctx context.Context, userID int64, fileName string) error

	// GetHash returns the recorded content hash for (userID, fileName),
	// or common.ErrNotFound.
	GetHash(ctx context.Context, userID int64, fileName string) (string, error)

	// GetNameByHash resolves a content hash back to a filename within the
	// owner's scope only, supporting obfuscated download URLs without
	// leaking filenames across users.
	GetNameByHash(ctx context.Context, userID int64, fileHash string) (string, error)
}
