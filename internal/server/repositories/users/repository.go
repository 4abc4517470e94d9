// Package users implements the user directory: the lookup from username to
// the stable numeric owner id that file records are keyed by.
package users

import (
	"context"

	"github.com/dmitrijs2005/filekeeper/internal/server/models"
)

type Repository interface {
	// Create inserts an identity row for username and returns it with the
	// assigned id. Usernames are unique.
	Create(ctx context.Context, username string) (*models.User, error)

	// GetID resolves a username to its owner id. Returns
	// common.ErrNotFound when no such user exists.
	GetID(ctx context.Context, username string) (int64, error)

	GetByUserName(ctx context.Context, username string) (*models.User, error)

	// ListUserNames returns every known username. Used by the audit runner.
	ListUserNames(ctx context.Context) ([]string, error)
}
