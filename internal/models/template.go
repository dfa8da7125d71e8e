package models

import "time"

// Template is a user-owned content template definition. The content
// itself lives in versions; saving new content appends a version.
type Template struct {
	ID          int64             `json:"id"`
	UserID      int64             `json:"-"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	IsPublic    bool              `json:"is_public"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   *time.Time        `json:"updated_at,omitempty"`
	Versions    []TemplateVersion `json:"versions,omitempty"`
}

// TemplateVersion is one immutable revision of a template's content.
type TemplateVersion struct {
	ID            int64     `json:"id"`
	TemplateID    int64     `json:"template_id"`
	VersionNumber int       `json:"version_number"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
}
