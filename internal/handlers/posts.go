package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/annabogdanova/blogicum/internal/models"
)

type PostHandler struct {
	db *gorm.DB
}

func NewPostHandler(db *gorm.DB) *PostHandler {
	return &PostHandler{db: db}
}

// Index renders the public feed.
func (h *PostHandler) Index(c *gin.Context) {
	page, err := paginatePosts(feedPosts(h.db), c.Query("page"))
	if err != nil {
		renderServerError(c)
		return
	}
	render(c, http.StatusOK, "index.html", gin.H{"Title": "Latest posts", "Page": page})
}

// Detail renders a single post with its comments and a comment form.
func (h *PostHandler) Detail(c *gin.Context) {
	post, ok := h.visiblePost(c)
	if !ok {
		return
	}
	comments, err := postComments(h.db, post.ID)
	if err != nil {
		renderServerError(c)
		return
	}
	render(c, http.StatusOK, "detail.html", gin.H{
		"Title":    post.Title,
		"Post":     post,
		"Comments": comments,
		"Form":     models.CommentForm{},
	})
}

// Category renders the feed of one published category.
func (h *PostHandler) Category(c *gin.Context) {
	category, err := publishedCategory(h.db, c.Param("category_slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			renderNotFound(c)
		} else {
			renderServerError(c)
		}
		return
	}
	page, err := paginatePosts(categoryPosts(h.db, category), c.Query("page"))
	if err != nil {
		renderServerError(c)
		return
	}
	render(c, http.StatusOK, "category.html", gin.H{
		"Title":    category.Title,
		"Category": category,
		"Page":     page,
	})
}

// Create shows the post form and persists a valid submission, stamping the
// requester as author.
func (h *PostHandler) Create(c *gin.Context) {
	if c.Request.Method == http.MethodGet {
		form := models.PostForm{PubDate: time.Now(), IsPublished: true}
		h.renderPostForm(c, gin.H{"Title": "Add post", "Form": form})
		return
	}

	var form models.PostForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderPostForm(c, gin.H{"Title": "Add post", "Form": form, "Errors": formErrors(err)})
		return
	}
	if errs := h.validateChoices(&form); errs != nil {
		h.renderPostForm(c, gin.H{"Title": "Add post", "Form": form, "Errors": errs})
		return
	}

	userID, _ := extractUserID(c)
	post := models.Post{
		Title:       form.Title,
		Text:        form.Text,
		PubDate:     form.PubDate,
		IsPublished: form.IsPublished,
		Image:       form.Image,
		AuthorID:    userID,
		CategoryID:  form.CategoryID,
		LocationID:  optionalID(form.LocationID),
	}
	if err := h.db.Create(&post).Error; err != nil {
		renderServerError(c)
		return
	}

	username, _ := c.Get("username")
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/profile/%v", username))
}

// Update edits a post. Only the author may proceed; anyone else is sent
// back to the post with an error message.
func (h *PostHandler) Update(c *gin.Context) {
	post, ok := h.ownedPost(c, "You can only edit your own posts.")
	if !ok {
		return
	}

	if c.Request.Method == http.MethodGet {
		h.renderPostForm(c, gin.H{"Title": "Edit post", "Form": formFromPost(post), "Post": post})
		return
	}

	var form models.PostForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderPostForm(c, gin.H{"Title": "Edit post", "Form": form, "Post": post, "Errors": formErrors(err)})
		return
	}
	if errs := h.validateChoices(&form); errs != nil {
		h.renderPostForm(c, gin.H{"Title": "Edit post", "Form": form, "Post": post, "Errors": errs})
		return
	}

	post.Title = form.Title
	post.Text = form.Text
	post.PubDate = form.PubDate
	post.IsPublished = form.IsPublished
	post.Image = form.Image
	post.CategoryID = form.CategoryID
	post.LocationID = optionalID(form.LocationID)

	if err := h.db.Save(post).Error; err != nil {
		renderServerError(c)
		return
	}
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/posts/%d", post.ID))
}

// Delete shows a confirmation page and removes the post with its comments.
func (h *PostHandler) Delete(c *gin.Context) {
	post, ok := h.ownedPost(c, "You can only delete your own posts.")
	if !ok {
		return
	}

	if c.Request.Method == http.MethodGet {
		h.renderPostForm(c, gin.H{"Title": "Delete post", "Form": formFromPost(post), "Post": post, "Deleting": true})
		return
	}

	if err := h.db.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
		renderServerError(c)
		return
	}
	if err := h.db.Delete(post).Error; err != nil {
		renderServerError(c)
		return
	}

	setFlash(c, "success", "Post deleted.")
	c.Redirect(http.StatusSeeOther, "/")
}

// visiblePost loads the requested post and applies the detail access rule:
// the author always gets through, everyone else only when the post is
// publicly visible. Failures render 404, never 403.
func (h *PostHandler) visiblePost(c *gin.Context) (*models.Post, bool) {
	id, err := strconv.Atoi(c.Param("post_id"))
	if err != nil {
		renderNotFound(c)
		return nil, false
	}

	var post models.Post
	err = withRelations(h.db).First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			renderNotFound(c)
		} else {
			renderServerError(c)
		}
		return nil, false
	}

	viewerID, _ := extractUserID(c)
	if viewerID == post.AuthorID {
		return &post, true
	}
	if post.PubliclyVisible(time.Now()) {
		return &post, true
	}

	renderNotFound(c)
	return nil, false
}

// ownedPost loads a post for mutation. A missing post renders 404; a post
// owned by someone else flashes the message and redirects to its detail page.
func (h *PostHandler) ownedPost(c *gin.Context, message string) (*models.Post, bool) {
	id, err := strconv.Atoi(c.Param("post_id"))
	if err != nil {
		renderNotFound(c)
		return nil, false
	}

	var post models.Post
	err = h.db.First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			renderNotFound(c)
		} else {
			renderServerError(c)
		}
		return nil, false
	}

	userID, _ := extractUserID(c)
	if userID != post.AuthorID {
		setFlash(c, "error", message)
		c.Redirect(http.StatusSeeOther, fmt.Sprintf("/posts/%d", post.ID))
		return nil, false
	}
	return &post, true
}

func (h *PostHandler) renderPostForm(c *gin.Context, data gin.H) {
	var categories []models.Category
	h.db.Where("is_published = ?", true).Order("title").Find(&categories)
	var locations []models.Location
	h.db.Where("is_published = ?", true).Order("name").Find(&locations)

	data["Categories"] = categories
	data["Locations"] = locations
	render(c, http.StatusOK, "create.html", data)
}

// validateChoices checks the referenced category and location exist,
// mirroring a model form's choice validation.
func (h *PostHandler) validateChoices(form *models.PostForm) map[string]string {
	var category models.Category
	if err := h.db.First(&category, form.CategoryID).Error; err != nil {
		return map[string]string{"category": "Select a valid choice."}
	}
	if form.LocationID != 0 {
		var location models.Location
		if err := h.db.First(&location, form.LocationID).Error; err != nil {
			return map[string]string{"location": "Select a valid choice."}
		}
	}
	return nil
}

func formFromPost(post *models.Post) models.PostForm {
	form := models.PostForm{
		Title:       post.Title,
		Text:        post.Text,
		PubDate:     post.PubDate,
		CategoryID:  post.CategoryID,
		Image:       post.Image,
		IsPublished: post.IsPublished,
	}
	if post.LocationID != nil {
		form.LocationID = *post.LocationID
	}
	return form
}

func optionalID(id int) *int {
	if id == 0 {
		return nil
	}
	return &id
}

// postComments lists a post's comments oldest first, with their authors.
func postComments(db *gorm.DB, postID int) ([]models.Comment, error) {
	var comments []models.Comment
	err := db.Where("post_id = ?", postID).Preload("Author").Order("created_at asc").Find(&comments).Error
	return comments, err
}
