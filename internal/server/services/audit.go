package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/dbx"
	"github.com/dmitrijs2005/filekeeper/internal/hashx"
	"github.com/dmitrijs2005/filekeeper/internal/logging"
	"github.com/dmitrijs2005/filekeeper/internal/server/models"
	"github.com/dmitrijs2005/filekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filekeeper/internal/server/storage"
	"github.com/google/uuid"
)

// AuditService enumerates drift between the metadata store and the storage
// namespace. The normal read path tolerates drift (listings skip missing
// files); the audit is where that tolerance stops hiding problems from
// operators. Nothing is repaired: neither disk nor database is presumed
// authoritative.
type AuditService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	store  *storage.Local
	logger logging.Logger
}

func NewAuditService(db *sql.DB, repos repomanager.RepositoryManager, store *storage.Local, logger logging.Logger) *AuditService {
	return &AuditService{
		db:     db,
		repos:  repos,
		store:  store,
		logger: logger,
	}
}

// Run builds an inconsistency report for one user: records whose object is
// missing (orphaned records), objects with no record (orphaned blobs), and
// objects whose current digest disagrees with the recorded hash. Metadata
// is read in a read-only transaction so the record set is one snapshot.
func (s *AuditService) Run(ctx context.Context, username string) (*models.AuditReport, error) {

	userRepo := s.repos.Users(s.db)

	ownerID, err := userRepo.GetID(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("user %q: %w", username, common.ErrUnknownUser)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrMetadata, err)
	}

	var records []*models.FileRecord
	err = dbx.WithTx(ctx, s.db, &sql.TxOptions{ReadOnly: true}, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		records, err = s.repos.Files(tx).List(ctx, ownerID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMetadata, err)
	}

	onDisk, err := s.store.ListNames(username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	report := &models.AuditReport{
		ID:              uuid.NewString(),
		UserName:        username,
		GeneratedAt:     time.Now(),
		OrphanedRecords: []string{},
		OrphanedBlobs:   []string{},
		HashMismatches:  []models.HashMismatch{},
	}

	recorded := make(map[string]string, len(records))
	for _, rec := range records {
		recorded[rec.FileName] = rec.FileHash

		data, err := s.store.Read(username, rec.FileName)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				report.OrphanedRecords = append(report.OrphanedRecords, rec.FileName)
				continue
			}
			return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
		}

		if actual := hashx.Sum256Hex(data); actual != rec.FileHash {
			report.HashMismatches = append(report.HashMismatches, models.HashMismatch{
				FileName:     rec.FileName,
				RecordedHash: rec.FileHash,
				ActualHash:   actual,
			})
		}
	}

	for _, name := range onDisk {
		if _, ok := recorded[name]; !ok {
			report.OrphanedBlobs = append(report.OrphanedBlobs, name)
		}
	}

	if report.Clean() {
		s.logger.Info(ctx, "audit clean", "audit_id", report.ID, "username", username, "files", len(records))
	} else {
		s.logger.Warn(ctx, "audit found inconsistencies",
			"audit_id", report.ID,
			"username", username,
			"orphaned_records", len(report.OrphanedRecords),
			"orphaned_blobs", len(report.OrphanedBlobs),
			"hash_mismatches", len(report.HashMismatches))
	}

	return report, nil
}
