package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/annabogdanova/blogicum/internal/middleware"
	"github.com/annabogdanova/blogicum/internal/models"
)

type ProfileHandler struct {
	db *gorm.DB
}

func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{db: db}
}

// Detail renders a user's profile with their posts, filtered by what the
// requester is allowed to see. The owner sees everything they wrote.
func (h *ProfileHandler) Detail(c *gin.Context) {
	var profile models.User
	err := h.db.Where("username = ?", c.Param("username")).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			renderNotFound(c)
		} else {
			renderServerError(c)
		}
		return
	}

	viewerID, _ := extractUserID(c)
	page, err := paginatePosts(userPosts(h.db, &profile, viewerID), c.Query("page"))
	if err != nil {
		renderServerError(c)
		return
	}

	render(c, http.StatusOK, "profile.html", gin.H{
		"Title":   profile.Username,
		"Profile": profile,
		"Page":    page,
	})
}

// Edit updates the authenticated requester's own profile. There is no
// identifier parameter: the target is always the session user.
func (h *ProfileHandler) Edit(c *gin.Context) {
	userID, _ := extractUserID(c)

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		renderNotFound(c)
		return
	}

	if c.Request.Method == http.MethodGet {
		form := models.ProfileForm{
			Username:  user.Username,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
		}
		render(c, http.StatusOK, "user.html", gin.H{"Title": "Edit profile", "Form": form})
		return
	}

	var form models.ProfileForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusOK, "user.html", gin.H{
			"Title":  "Edit profile",
			"Form":   form,
			"Errors": formErrors(err),
		})
		return
	}

	if form.Username != user.Username {
		var existing models.User
		if err := h.db.Where("username = ?", form.Username).First(&existing).Error; err == nil {
			render(c, http.StatusOK, "user.html", gin.H{
				"Title":  "Edit profile",
				"Form":   form,
				"Errors": map[string]string{"username": "A user with that username already exists."},
			})
			return
		}
	}

	user.Username = form.Username
	user.FirstName = form.FirstName
	user.LastName = form.LastName
	user.Email = form.Email

	if err := h.db.Save(&user).Error; err != nil {
		renderServerError(c)
		return
	}

	// The username claim may have changed; reissue the session cookie.
	if token, err := middleware.NewSessionToken(&user); err == nil {
		c.SetCookie(middleware.SessionCookie, token,
			int(middleware.SessionMaxAge.Seconds()), "/", "", false, true)
	}

	c.Redirect(http.StatusSeeOther, "/profile/"+user.Username)
}
