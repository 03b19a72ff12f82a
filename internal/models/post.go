package models

import "time"

type Post struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Text        string    `gorm:"not null" json:"text"`
	PubDate     time.Time `gorm:"index;not null" json:"pub_date"`
	IsPublished bool      `json:"is_published"`
	Image       string    `json:"image"`

	AuthorID   int       `gorm:"not null;index" json:"author_id"`
	Author     User      `gorm:"foreignKey:AuthorID" json:"author"`
	CategoryID int       `gorm:"not null;index" json:"category_id"`
	Category   Category  `gorm:"foreignKey:CategoryID" json:"category"`
	LocationID *int      `json:"location_id,omitempty"`
	Location   *Location `gorm:"foreignKey:LocationID" json:"location,omitempty"`

	// Filled by the comment-count annotation, never stored.
	CommentCount int64 `gorm:"->;-:migration" json:"comment_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PubliclyVisible reports whether the post passes all three gating
// conditions: published flag, past pub_date, published category.
// The category relation must be loaded.
func (p *Post) PubliclyVisible(now time.Time) bool {
	return p.IsPublished && !p.PubDate.After(now) && p.Category.IsPublished
}

type PostForm struct {
	Title       string    `form:"title" binding:"required,max=256"`
	Text        string    `form:"text" binding:"required"`
	PubDate     time.Time `form:"pub_date" time_format:"2006-01-02" binding:"required"`
	CategoryID  int       `form:"category" binding:"required"`
	LocationID  int       `form:"location"`
	Image       string    `form:"image"`
	IsPublished bool      `form:"is_published"`
}

// PubDateValue formats the publication date for an <input type="date">.
func (f PostForm) PubDateValue() string {
	if f.PubDate.IsZero() {
		return ""
	}
	return f.PubDate.Format("2006-01-02")
}
