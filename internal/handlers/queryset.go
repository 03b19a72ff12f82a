package handlers

import (
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/annabogdanova/blogicum/internal/models"
)

const postsPerPage = 10

// withRelations eager-loads the relations every post listing needs,
// so templates never trigger per-row lookups.
func withRelations(q *gorm.DB) *gorm.DB {
	return q.Preload("Author").Preload("Category").Preload("Location")
}

// feedPosts returns the global feed: published posts with a past pub_date
// in a published category.
func feedPosts(db *gorm.DB) *gorm.DB {
	q := db.Model(&models.Post{}).
		Joins("JOIN categories ON categories.id = posts.category_id").
		Where("posts.is_published = ? AND posts.pub_date <= ? AND categories.is_published = ?",
			true, time.Now(), true)
	return withRelations(q)
}

// categoryPosts returns published, past-dated posts in the given category.
// The category itself must already be resolved as published.
func categoryPosts(db *gorm.DB, category *models.Category) *gorm.DB {
	q := db.Model(&models.Post{}).
		Where("posts.category_id = ? AND posts.is_published = ? AND posts.pub_date <= ?",
			category.ID, true, time.Now())
	return withRelations(q)
}

// userPosts returns the posts shown on a profile page. The owner sees
// everything they wrote; anyone else only the published, past-dated posts.
func userPosts(db *gorm.DB, owner *models.User, viewerID int) *gorm.DB {
	q := db.Model(&models.Post{}).Where("posts.author_id = ?", owner.ID)
	if viewerID != owner.ID {
		q = q.Where("posts.is_published = ? AND posts.pub_date <= ?", true, time.Now())
	}
	return withRelations(q)
}

// publishedCategory resolves a category by slug, treating unpublished
// categories as absent.
func publishedCategory(db *gorm.DB, slug string) (*models.Category, error) {
	var category models.Category
	err := db.Where("slug = ? AND is_published = ?", slug, true).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// annotateComments attaches a per-post comment count and fixes the feed
// order: newest publication date first.
func annotateComments(q *gorm.DB) *gorm.DB {
	return q.
		Select("posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count").
		Order("posts.pub_date DESC")
}

// PostPage is one page of an annotated post listing.
type PostPage struct {
	Posts       []models.Post
	Number      int
	TotalPages  int
	HasNext     bool
	HasPrevious bool
}

func (p *PostPage) NextPage() int     { return p.Number + 1 }
func (p *PostPage) PreviousPage() int { return p.Number - 1 }

// paginatePosts runs the annotated query for the requested 1-indexed page.
// Invalid or out-of-range page numbers clamp to the nearest valid page.
func paginatePosts(q *gorm.DB, rawPage string) (*PostPage, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + postsPerPage - 1) / postsPerPage)
	if totalPages < 1 {
		totalPages = 1
	}

	number, err := strconv.Atoi(rawPage)
	if err != nil || number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	var posts []models.Post
	err = annotateComments(q).
		Offset((number - 1) * postsPerPage).
		Limit(postsPerPage).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	return &PostPage{
		Posts:       posts,
		Number:      number,
		TotalPages:  totalPages,
		HasNext:     number < totalPages,
		HasPrevious: number > 1,
	}, nil
}
