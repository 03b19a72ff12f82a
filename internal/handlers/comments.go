package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/annabogdanova/blogicum/internal/models"
)

type CommentHandler struct {
	db *gorm.DB
}

func NewCommentHandler(db *gorm.DB) *CommentHandler {
	return &CommentHandler{db: db}
}

// Create adds a comment to a post, stamping the requester as author and the
// resolved post as parent. On a failed validation the detail page is
// re-rendered around that same resolved post.
func (h *CommentHandler) Create(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("post_id"))
	if err != nil {
		renderNotFound(c)
		return
	}

	var post models.Post
	err = withRelations(h.db).First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			renderNotFound(c)
		} else {
			renderServerError(c)
		}
		return
	}

	var form models.CommentForm
	if err := c.ShouldBind(&form); err != nil {
		comments, cErr := postComments(h.db, post.ID)
		if cErr != nil {
			renderServerError(c)
			return
		}
		render(c, http.StatusOK, "detail.html", gin.H{
			"Title":    post.Title,
			"Post":     &post,
			"Comments": comments,
			"Form":     form,
			"Errors":   formErrors(err),
		})
		return
	}

	userID, _ := extractUserID(c)
	comment := models.Comment{
		Text:     form.Text,
		PostID:   post.ID,
		AuthorID: userID,
	}
	if err := h.db.Create(&comment).Error; err != nil {
		renderServerError(c)
		return
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/posts/%d", post.ID))
}

// Update edits a comment (author only).
func (h *CommentHandler) Update(c *gin.Context) {
	comment, ok := h.ownedComment(c, "You can only edit your own comments.")
	if !ok {
		return
	}

	if c.Request.Method == http.MethodGet {
		render(c, http.StatusOK, "comment.html", gin.H{
			"Title":   "Edit comment",
			"Comment": comment,
			"Form":    models.CommentForm{Text: comment.Text},
		})
		return
	}

	var form models.CommentForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusOK, "comment.html", gin.H{
			"Title":   "Edit comment",
			"Comment": comment,
			"Form":    form,
			"Errors":  formErrors(err),
		})
		return
	}

	comment.Text = form.Text
	if err := h.db.Save(comment).Error; err != nil {
		renderServerError(c)
		return
	}
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/posts/%d", comment.PostID))
}

// Delete removes a comment (author only) after a confirmation page.
func (h *CommentHandler) Delete(c *gin.Context) {
	comment, ok := h.ownedComment(c, "You can only delete your own comments.")
	if !ok {
		return
	}

	if c.Request.Method == http.MethodGet {
		render(c, http.StatusOK, "comment.html", gin.H{
			"Title":    "Delete comment",
			"Comment":  comment,
			"Deleting": true,
		})
		return
	}

	if err := h.db.Delete(comment).Error; err != nil {
		renderServerError(c)
		return
	}

	setFlash(c, "success", "Comment deleted.")
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/posts/%d", comment.PostID))
}

// ownedComment loads a comment for mutation. A missing comment renders 404;
// someone else's comment flashes the message and redirects to its post.
func (h *CommentHandler) ownedComment(c *gin.Context, message string) (*models.Comment, bool) {
	id, err := strconv.Atoi(c.Param("comment_id"))
	if err != nil {
		renderNotFound(c)
		return nil, false
	}

	var comment models.Comment
	err = h.db.First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			renderNotFound(c)
		} else {
			renderServerError(c)
		}
		return nil, false
	}

	userID, _ := extractUserID(c)
	if userID != comment.AuthorID {
		setFlash(c, "error", message)
		c.Redirect(http.StatusSeeOther, fmt.Sprintf("/posts/%d", comment.PostID))
		return nil, false
	}
	return &comment, true
}
