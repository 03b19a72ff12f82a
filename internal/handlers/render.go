package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// render executes an HTML template with the pending flash message and the
// requester's identity merged into the template data.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if f := popFlash(c); f != nil {
		data["Flash"] = f
	}
	if username, exists := c.Get("username"); exists {
		data["CurrentUser"] = username
	}
	c.HTML(status, name, data)
}

// renderNotFound hides unpublished content behind the same page a truly
// missing entity gets, so hidden posts cannot be enumerated.
func renderNotFound(c *gin.Context) {
	render(c, http.StatusNotFound, "404.html", gin.H{"Title": "Page not found"})
}

func renderServerError(c *gin.Context) {
	render(c, http.StatusInternalServerError, "500.html", gin.H{"Title": "Server error"})
}
