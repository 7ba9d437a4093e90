package models

import (
	"time"

	"github.com/google/uuid"
)

// Owner is an authenticated user of the service. Every job, stored video,
// and API key belongs to exactly one owner, and all reads are implicitly
// filtered to the owner of the current session.
type Owner struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	Email     string    `db:"email"      json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
