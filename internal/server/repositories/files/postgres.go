package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/dbx"
	"github.com/dmitrijs2005/filekeeper/internal/server/models"
)

// PostgresRepository implements file record storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Add inserts a file record. Uniqueness of (user_id, file_name) is decided
// by the table constraint: ON CONFLICT DO NOTHING turns a lost race into
// zero affected rows, reported as common.ErrDuplicateName.
func (r *PostgresRepository) Add(ctx context.Context, userID int64, fileName, fileHash string) error {
	query := `
		INSERT INTO files (user_id, file_name, file_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, file_name) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query, userID, fileName, fileHash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrDuplicateName
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

// List returns all file records for userID.
func (r *PostgresRepository) List(ctx context.Context, userID int64) ([]*models.FileRecord, error) {
	query := `
		SELECT user_id, file_name, file_hash FROM files
		WHERE user_id = $1
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	result := []*models.FileRecord{}
	for rows.Next() {
		var item models.FileRecord
		if err := rows.Scan(&item.UserID, &item.FileName, &item.FileHash); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes the record for (userID, fileName). Exactly one row is
// expected; zero means the record was already gone.
func (r *PostgresRepository) Delete(ctx context.Context, userID int64, fileName string) error {
	query := `DELETE FROM files WHERE user_id = $1 AND file_name = $2`

	res, err := r.db.ExecContext(ctx, query, userID, fileName)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// GetHash returns the recorded hash for (userID, fileName). This is an
// indexed point query, deliberately not a fetch-all-then-filter scan.
func (r *PostgresRepository) GetHash(ctx context.Context, userID int64, fileName string) (string, error) {
	query := `
		SELECT file_hash FROM files
		WHERE user_id = $1 AND file_name = $2
	`

	var hash string
	err := r.db.QueryRowContext(ctx, query, userID, fileName).Scan(&hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return hash, nil
}

// GetNameByHash resolves fileHash to a filename within the owner's scope.
func (r *PostgresRepository) GetNameByHash(ctx context.Context, userID int64, fileHash string) (string, error) {
	query := `
		SELECT file_name FROM files
		WHERE user_id = $1 AND file_hash = $2
	`

	var name string
	err := r.db.QueryRowContext(ctx, query, userID, fileHash).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return name, nil
}
