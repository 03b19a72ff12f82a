package server

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/annabogdanova/blogicum/internal/database"
	"github.com/annabogdanova/blogicum/internal/handlers"
	"github.com/annabogdanova/blogicum/internal/middleware"
)

type Server struct {
	db      database.Service
	handler *handlers.Handler
}

// NewServer creates and configures a new server
func NewServer() *http.Server {
	// Fast connectivity check before the ORM pool comes up.
	bootstrap, err := database.NewDatabase()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	bootstrap.Close()

	dbService := database.New()
	handler := handlers.New(dbService.GetDB())

	newServer := &Server{
		db:      dbService,
		handler: handler,
	}

	templates := os.Getenv("TEMPLATES_GLOB")
	if templates == "" {
		templates = "web/templates/*.html"
	}
	router := newServer.RegisterRoutes(templates)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", port)
	fmt.Println("📝 Press Ctrl+C to stop the server")

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes(templatesGlob string) *gin.Engine {
	r := NewRouter(s.handler, templatesGlob)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	return r
}

var templateFuncs = template.FuncMap{
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02 Jan 2006, 15:04")
	},
}

// NewRouter builds the gin engine with every application route.
func NewRouter(h *handlers.Handler, templatesGlob string) *gin.Engine {
	r := gin.Default()
	r.SetFuncMap(templateFuncs)
	r.LoadHTMLGlob(templatesGlob)

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Accept", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * 3600,
	}))

	r.Use(middleware.Identify())

	// Public reads
	r.GET("/", h.Post.Index)
	r.GET("/posts/:post_id", h.Post.Detail)
	r.GET("/category/:category_slug", h.Post.Category)
	r.GET("/profile/:username", h.Profile.Detail)

	// Session routes
	auth := r.Group("/auth")
	{
		auth.GET("/login", h.Auth.Login)
		auth.POST("/login", h.Auth.Login)
		auth.GET("/registration", h.Auth.Registration)
		auth.POST("/registration", h.Auth.Registration)
		auth.GET("/logout", h.Auth.Logout)
	}

	// Protected routes (authentication required)
	protected := r.Group("", middleware.LoginRequired())
	{
		protected.GET("/create", h.Post.Create)
		protected.POST("/create", h.Post.Create)
		protected.GET("/posts/:post_id/edit", h.Post.Update)
		protected.POST("/posts/:post_id/edit", h.Post.Update)
		protected.GET("/posts/:post_id/delete", h.Post.Delete)
		protected.POST("/posts/:post_id/delete", h.Post.Delete)

		protected.POST("/posts/:post_id/comment", h.Comment.Create)
		protected.GET("/posts/:post_id/edit_comment/:comment_id", h.Comment.Update)
		protected.POST("/posts/:post_id/edit_comment/:comment_id", h.Comment.Update)
		protected.GET("/posts/:post_id/delete_comment/:comment_id", h.Comment.Delete)
		protected.POST("/posts/:post_id/delete_comment/:comment_id", h.Comment.Delete)

		protected.GET("/edit_profile", h.Profile.Edit)
		protected.POST("/edit_profile", h.Profile.Edit)
	}

	return r
}
