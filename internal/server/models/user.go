// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an identity row. The core never mutates users after registration;
// credentials live with the external authentication collaborator, so the
// row carries identity only.
type User struct {
	// ID is the stable numeric identifier used as the foreign key for
	// file ownership.
	ID int64
	// UserName is the unique display/lookup key.
	UserName string
	CreatedAt time.Time
}
