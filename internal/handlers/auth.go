package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/annabogdanova/blogicum/internal/middleware"
	"github.com/annabogdanova/blogicum/internal/models"
)

type AuthHandler struct {
	db *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db}
}

// Login renders the login page and starts a session on valid credentials.
func (h *AuthHandler) Login(c *gin.Context) {
	if c.Request.Method == http.MethodGet {
		render(c, http.StatusOK, "login.html", gin.H{
			"Title": "Log in",
			"Form":  models.LoginForm{},
			"Next":  c.Query("next"),
		})
		return
	}

	var form models.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusOK, "login.html", gin.H{
			"Title":  "Log in",
			"Form":   form,
			"Errors": formErrors(err),
			"Next":   c.PostForm("next"),
		})
		return
	}

	var user models.User
	if err := h.db.Where("username = ?", form.Username).First(&user).Error; err != nil {
		h.rejectLogin(c, form)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(form.Password)); err != nil {
		h.rejectLogin(c, form)
		return
	}

	if err := h.startSession(c, &user); err != nil {
		renderServerError(c)
		return
	}
	c.Redirect(http.StatusSeeOther, safeNext(c.PostForm("next")))
}

// Registration creates an account and logs the new user straight in.
func (h *AuthHandler) Registration(c *gin.Context) {
	if c.Request.Method == http.MethodGet {
		render(c, http.StatusOK, "registration.html", gin.H{"Title": "Sign up", "Form": models.RegistrationForm{}})
		return
	}

	var form models.RegistrationForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusOK, "registration.html", gin.H{
			"Title":  "Sign up",
			"Form":   form,
			"Errors": formErrors(err),
		})
		return
	}

	// Check if username or email already exists
	var existing models.User
	if err := h.db.Where("username = ? OR email = ?", form.Username, form.Email).First(&existing).Error; err == nil {
		render(c, http.StatusOK, "registration.html", gin.H{
			"Title":  "Sign up",
			"Form":   form,
			"Errors": map[string]string{"username": "Username or email already exists."},
		})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		renderServerError(c)
		return
	}

	user := models.User{
		Username: form.Username,
		Email:    form.Email,
		Password: string(hashedPassword),
	}
	if err := h.db.Create(&user).Error; err != nil {
		renderServerError(c)
		return
	}

	if err := h.startSession(c, &user); err != nil {
		renderServerError(c)
		return
	}
	c.Redirect(http.StatusSeeOther, "/profile/"+user.Username)
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	setFlash(c, "success", "You have been logged out.")
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *AuthHandler) startSession(c *gin.Context, user *models.User) error {
	token, err := middleware.NewSessionToken(user)
	if err != nil {
		return err
	}
	c.SetCookie(middleware.SessionCookie, token,
		int(middleware.SessionMaxAge.Seconds()), "/", "", false, true)
	return nil
}

func (h *AuthHandler) rejectLogin(c *gin.Context, form models.LoginForm) {
	render(c, http.StatusOK, "login.html", gin.H{
		"Title":  "Log in",
		"Form":   form,
		"Errors": map[string]string{"__all__": "Invalid username or password."},
		"Next":   c.PostForm("next"),
	})
}

// safeNext only follows same-site redirect targets.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}
