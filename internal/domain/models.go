package domain

import (
	"time"

	"github.com/google/uuid"
)

// Principal is the authenticated identity associated with the current
// request. Its ID is the string form used in storage path owner segments.
type Principal struct {
	ID    string
	Email string
}

// UploadResult is produced only on terminal success of the upload pipeline.
// PublicURL is best-effort; an empty value does not invalidate the upload.
type UploadResult struct {
	StoredPath string `json:"stored_path"`
	PublicURL  string `json:"public_url,omitempty"`
}

// Resource is a catalog record for an uploaded educational resource.
// ThumbnailURL is written back asynchronously by the external thumbnail
// generator, keyed by StoredPath.
type Resource struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	OwnerID      uuid.UUID  `db:"owner_id" json:"owner_id"`
	GroupID      *uuid.UUID `db:"group_id" json:"group_id,omitempty"`
	Title        string     `db:"title" json:"title"`
	Bucket       string     `db:"bucket" json:"bucket"`
	StoredPath   string     `db:"stored_path" json:"stored_path"`
	ContentType  string     `db:"content_type" json:"content_type"`
	FileSize     int64      `db:"file_size" json:"file_size"`
	PublicURL    string     `db:"public_url" json:"public_url,omitempty"`
	ThumbnailURL string     `db:"thumbnail_url" json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// NewsItem is a published news entry shown on the student feed.
type NewsItem struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Body        string    `db:"body" json:"body"`
	ImageURL    string    `db:"image_url" json:"image_url,omitempty"`
	PublishedAt time.Time `db:"published_at" json:"published_at"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// StudyGroup is a student study group with shared files and chat.
type StudyGroup struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	OwnerID     uuid.UUID `db:"owner_id" json:"owner_id"`
	MemberCount int       `db:"member_count" json:"member_count"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// User is an account that can authenticate against the service.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	DisplayName  string    `db:"display_name" json:"display_name"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
