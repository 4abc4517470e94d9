package models

import "time"

// HashMismatch is a file whose on-disk digest no longer equals the
// recorded one.
type HashMismatch struct {
	FileName     string
	RecordedHash string
	ActualHash   string
}

// AuditReport enumerates metadata/storage inconsistencies for one user.
// The audit only reports; neither side is treated as authoritative and
// nothing is auto-repaired.
type AuditReport struct {
	// ID is a unique identifier for this audit run.
	ID          string
	UserName    string
	GeneratedAt time.Time

	// OrphanedRecords are file names with a metadata record but no
	// stored object.
	OrphanedRecords []string
	// OrphanedBlobs are on-disk names with no metadata record.
	OrphanedBlobs  []string
	HashMismatches []HashMismatch
}

// Clean reports whether the audit found no inconsistencies.
func (r *AuditReport) Clean() bool {
	return len(r.OrphanedRecords) == 0 && len(r.OrphanedBlobs) == 0 && len(r.HashMismatches) == 0
}
