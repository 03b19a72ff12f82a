package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Handler combines all handler types
type Handler struct {
	Post    *PostHandler
	Comment *CommentHandler
	Profile *ProfileHandler
	Auth    *AuthHandler
}

// New creates a unified handler with all sub-handlers
func New(db *gorm.DB) *Handler {
	return &Handler{
		Post:    NewPostHandler(db),
		Comment: NewCommentHandler(db),
		Profile: NewProfileHandler(db),
		Auth:    NewAuthHandler(db),
	}
}

func extractUserID(c *gin.Context) (int, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case uint:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// formErrors converts a binding error into per-field messages keyed by the
// lowercased field name, for re-rendering next to the form inputs.
func formErrors(err error) map[string]string {
	errs := map[string]string{}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			field := strings.ToLower(fe.Field())
			switch fe.Tag() {
			case "required":
				errs[field] = "This field is required."
			case "email":
				errs[field] = "Enter a valid email address."
			case "max":
				errs[field] = fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
			case "min":
				errs[field] = fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
			default:
				errs[field] = "Enter a valid value."
			}
		}
		return errs
	}

	errs["__all__"] = "Please correct the errors below."
	return errs
}
