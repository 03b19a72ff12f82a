package models

import "time"

// Category groups posts. Categories are managed by site administrators,
// so there are no CRUD routes for them — only the published flag matters
// to the public views.
type Category struct {
	ID          int    `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	Slug        string `gorm:"unique;not null" json:"slug"`
	IsPublished bool   `json:"is_published"`

	CreatedAt time.Time `json:"created_at"`
}
