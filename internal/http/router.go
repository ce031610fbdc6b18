package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(SecurityHeadersMiddleware())

	health := NewHealthController(cfg.Database, cfg.Version)
	books := NewCatalogController(cfg.Catalog)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Catalog endpoints
	api := router.Group("/api")
	api.GET("/books", books.ListBooks)
	api.POST("/books", books.CreateBook)
	api.GET("/books/:isbn", books.GetBook)
	api.PUT("/books/:isbn", books.UpdateBook)
	api.DELETE("/books/:isbn", books.DeleteBook)
	api.GET("/books/:isbn/pdf", books.GetPDF)
	api.PUT("/books/:isbn/pdf", books.SetPDF)

	// Undo history
	api.GET("/undo", books.History)
	api.POST("/undo", books.Undo)

	// Report endpoints
	if cfg.Reports != nil {
		reports := NewReportController(cfg.Reports, cfg.ReportPath, cfg.ReportQueue, cfg.Auditor)
		api.POST("/report", reports.Generate)
		router.GET("/report", reports.View)
	}

	if cfg.TaskStatus != nil {
		taskStatus := NewTasksController(cfg.TaskStatus)
		api.GET("/tasks/:id", taskStatus.GetTaskStatus)
	}

	// Audit trail
	if cfg.AuditReader != nil {
		audit := NewAuditController(cfg.AuditReader)
		api.GET("/audit", audit.GetAuditEvents)
	}

	return router
}
