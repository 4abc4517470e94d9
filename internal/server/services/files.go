// Package services contains the server-side application services. The file
// service is the only writer of both halves of a logical file: the metadata
// record in the database and the stored object on disk.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/filex"
	"github.com/dmitrijs2005/filekeeper/internal/hashx"
	"github.com/dmitrijs2005/filekeeper/internal/logging"
	"github.com/dmitrijs2005/filekeeper/internal/server/models"
	"github.com/dmitrijs2005/filekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filekeeper/internal/server/storage"
)

// FileService orchestrates validation, path resolution, physical IO, hash
// computation and metadata synchronization. There is no transaction
// spanning disk and database; consistency comes from strict ordering
// (write-then-register on save, remove-then-unregister on delete) plus a
// compensating delete on the one failure path that can strand a blob.
type FileService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	store  *storage.Local
	logger logging.Logger
}

func NewFileService(db *sql.DB, repos repomanager.RepositoryManager, store *storage.Local, logger logging.Logger) *FileService {
	return &FileService{
		db:     db,
		repos:  repos,
		store:  store,
		logger: logger,
	}
}

// ownerID resolves username to its numeric owner id, translating a missing
// user into common.ErrUnknownUser.
func (s *FileService) ownerID(ctx context.Context, username string) (int64, error) {
	id, err := s.repos.Users(s.db).GetID(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return 0, fmt.Errorf("user %q: %w", username, common.ErrUnknownUser)
		}
		s.logger.Error(ctx, "owner lookup failed", "username", username, "error", err)
		return 0, fmt.Errorf("%w: %v", common.ErrMetadata, err)
	}
	return id, nil
}

// Register creates the identity row that owner-id resolution relies on.
// Credentials are the external auth collaborator's concern; the core only
// records identity.
func (s *FileService) Register(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repos.Users(s.db).Create(ctx, username)
	if err != nil {
		s.logger.Error(ctx, "user registration failed", "username", username, "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrMetadata, err)
	}
	s.logger.Info(ctx, "user registered", "username", username, "user_id", user.ID)
	return user, nil
}

// Save validates, writes the bytes into the owner's namespace and then
// registers the metadata record. Ordering is write-then-register, never the
// reverse: a failed write leaves no record behind, and a failed insert
// (typically a lost uniqueness race) removes the just-written blob so no
// orphaned object survives the call. Returns the computed content hash.
func (s *FileService) Save(ctx context.Context, username, filename string, content []byte) (string, error) {

	ownerID, err := s.ownerID(ctx, username)
	if err != nil {
		return "", err
	}

	if !filex.ValidFilename(filename) {
		return "", fmt.Errorf("%q: %w", filename, common.ErrInvalidFilename)
	}

	fileRepo := s.repos.Files(s.db)

	// friendly early rejection; the database constraint is the arbiter
	// for anything that slips through concurrently
	_, err = fileRepo.GetHash(ctx, ownerID, filename)
	if err == nil {
		return "", fmt.Errorf("%q: %w", filename, common.ErrDuplicateName)
	}
	if !errors.Is(err, common.ErrNotFound) {
		s.logger.Error(ctx, "duplicate pre-check failed", "username", username, "filename", filename, "error", err)
		return "", fmt.Errorf("%w: %v", common.ErrMetadata, err)
	}

	hash := hashx.Sum256Hex(content)

	if err := s.store.Write(username, filename, content); err != nil {
		s.logger.Error(ctx, "physical write failed", "op", "save", "username", username, "filename", filename, "error", err)
		return "", fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	if err := fileRepo.Add(ctx, ownerID, filename, hash); err != nil {
		// compensating delete: the blob must not outlive a failed insert
		if rmErr := s.store.Remove(username, filename); rmErr != nil && !errors.Is(rmErr, common.ErrNotFound) {
			s.logger.Error(ctx, "compensating delete failed, orphaned blob left behind",
				"username", username, "filename", filename, "error", rmErr)
		}
		if errors.Is(err, common.ErrDuplicateName) {
			return "", fmt.Errorf("%q: %w", filename, common.ErrDuplicateName)
		}
		s.logger.Error(ctx, "metadata insert failed", "op", "save", "username", username, "filename", filename, "error", err)
		return "", fmt.Errorf("%w: %v", common.ErrMetadata, err)
	}

	s.logger.Info(ctx, "file saved", "username", username, "filename", filename, "size", len(content))
	return hash, nil
}

// Delete removes the stored object first and the metadata record second.
// When the object is already gone the metadata is left untouched, so a
// record for a file that was never there is not silently dropped. A record
// deletion failure after the object is removed leaves an orphaned record;
// that inconsistency is logged loudly and returned, never swallowed.
func (s *FileService) Delete(ctx context.Context, username, filename string) error {

	ownerID, err := s.ownerID(ctx, username)
	if err != nil {
		return err
	}

	if !s.store.Exists(username, filename) {
		return fmt.Errorf("%q: %w", filename, common.ErrNotFound)
	}

	if err := s.store.Remove(username, filename); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%q: %w", filename, common.ErrNotFound)
		}
		// nothing changed; a later retry will still find the file
		s.logger.Error(ctx, "physical remove failed", "op", "delete", "username", username, "filename", filename, "error", err)
		return fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	if err := s.repos.Files(s.db).Delete(ctx, ownerID, filename); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// the blob existed with no record: drift the audit should have caught
			s.logger.Warn(ctx, "removed a blob that had no metadata record", "username", username, "filename", filename)
			return nil
		}
		s.logger.Error(ctx, "record delete failed after blob removal, orphaned record remains",
			"op", "delete", "username", username, "filename", filename, "error", err)
		return fmt.Errorf("%w: %v", common.ErrMetadata, err)
	}

	s.logger.Info(ctx, "file deleted", "username", username, "filename", filename)
	return nil
}

// readDetail builds a FileDetail from the bytes currently on disk. The
// hash is always recomputed, never copied from the record.
func (s *FileService) readDetail(username, filename string) (*models.FileDetail, error) {
	data, err := s.store.Read(username, filename)
	if err != nil {
		return nil, err
	}
	_, createdAt, err := s.store.Stat(username, filename)
	if err != nil {
		return nil, err
	}
	return &models.FileDetail{
		FileName:  filename,
		Size:      int64(len(data)),
		CreatedAt: createdAt,
		Hash:      hashx.Sum256Hex(data),
	}, nil
}

// ListDetails returns details for every file the user's metadata claims,
// with hashes recomputed from disk. Records whose object is missing are
// skipped rather than failing the whole listing; the drift is logged and
// remains discoverable through the audit.
func (s *FileService) ListDetails(ctx context.Context, username string) ([]models.FileDetail, error) {

	ownerID, err := s.ownerID(ctx, username)
	if err != nil {
		return nil, err
	}

	records, err := s.repos.Files(s.db).List(ctx, ownerID)
	if err != nil {
		s.logger.Error(ctx, "record listing failed", "op", "list", "username", username, "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrMetadata, err)
	}

	details := []models.FileDetail{}
	for _, rec := range records {
		d, err := s.readDetail(username, rec.FileName)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				s.logger.Warn(ctx, "file missing from storage, skipped in listing",
					"username", username, "filename", rec.FileName)
				continue
			}
			s.logger.Error(ctx, "file read failed", "op", "list", "username", username, "filename", rec.FileName, "error", err)
			return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
		}
		details = append(details, *d)
	}

	return details, nil
}

// GetSingleDetails returns the current on-disk detail for one file. Both
// halves must be present: no record or no object means ErrNotFound.
func (s *FileService) GetSingleDetails(ctx context.Context, username, filename string) (*models.FileDetail, error) {

	ownerID, err := s.ownerID(ctx, username)
	if err != nil {
		return nil, err
	}

	if _, err := s.repos.Files(s.db).GetHash(ctx, ownerID, filename); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%q: %w", filename, common.ErrNotFound)
		}
		s.logger.Error(ctx, "record lookup failed", "op", "details", "username", username, "filename", filename, "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrMetadata, err)
	}

	d, err := s.readDetail(username, filename)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%q: %w", filename, common.ErrNotFound)
		}
		s.logger.Error(ctx, "file read failed", "op", "details", "username", username, "filename", filename, "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return d, nil
}

// StoredHash returns the hash recorded at save time, used by callers to
// compare against freshly computed digests.
func (s *FileService) StoredHash(ctx context.Context, username, filename string) (string, error) {

	ownerID, err := s.ownerID(ctx, username)
	if err != nil {
		return "", err
	}

	hash, err := s.repos.Files(s.db).GetHash(ctx, ownerID, filename)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", fmt.Errorf("%q: %w", filename, common.ErrNotFound)
		}
		s.logger.Error(ctx, "hash lookup failed", "username", username, "filename", filename, "error", err)
		return "", fmt.Errorf("%w: %v", common.ErrMetadata, err)
	}
	return hash, nil
}

// ResolveFilenameByHash maps a content hash back to a filename within the
// owner's scope. Download links can carry the hash instead of the plain
// filename, which defeats filename enumeration.
func (s *FileService) ResolveFilenameByHash(ctx context.Context, username, hash string) (string, error) {

	ownerID, err := s.ownerID(ctx, username)
	if err != nil {
		return "", err
	}

	name, err := s.repos.Files(s.db).GetNameByHash(ctx, ownerID, hash)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrNotFound
		}
		s.logger.Error(ctx, "hash resolution failed", "username", username, "error", err)
		return "", fmt.Errorf("%w: %v", common.ErrMetadata, err)
	}
	return name, nil
}

// Download returns the file's bytes after verifying them against the
// recorded hash. Content whose digest disagrees with the record is never
// served: the call fails with ErrIntegrityViolation instead.
func (s *FileService) Download(ctx context.Context, username, filename string) ([]byte, error) {

	data, match, err := s.verify(ctx, username, filename)
	if err != nil {
		return nil, err
	}
	if !match {
		s.logger.Error(ctx, "integrity violation: on-disk content does not match recorded hash",
			"op", "download", "username", username, "filename", filename)
		return nil, fmt.Errorf("%q: %w", filename, common.ErrIntegrityViolation)
	}
	return data, nil
}

// VerifyIntegrity recomputes the on-disk digest and compares it with the
// recorded hash.
func (s *FileService) VerifyIntegrity(ctx context.Context, username, filename string) (bool, error) {
	_, match, err := s.verify(ctx, username, filename)
	return match, err
}

func (s *FileService) verify(ctx context.Context, username, filename string) ([]byte, bool, error) {

	storedHash, err := s.StoredHash(ctx, username, filename)
	if err != nil {
		return nil, false, err
	}

	data, err := s.store.Read(username, filename)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, false, fmt.Errorf("%q: %w", filename, common.ErrNotFound)
		}
		s.logger.Error(ctx, "file read failed", "op", "verify", "username", username, "filename", filename, "error", err)
		return nil, false, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	return data, hashx.Sum256Hex(data) == storedHash, nil
}
