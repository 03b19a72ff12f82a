package models

import "time"

// Location is an optional post attribute (the place a post is written about).
type Location struct {
	ID          int    `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	IsPublished bool   `json:"is_published"`

	CreatedAt time.Time `json:"created_at"`
}
