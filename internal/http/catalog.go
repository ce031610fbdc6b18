package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/entities"
)

// CatalogService is the catalog surface exposed over HTTP.
type CatalogService interface {
	Add(ctx context.Context, title, author, isbn string) error
	Delete(ctx context.Context, isbn string) error
	Update(ctx context.Context, isbn, newTitle, newAuthor, newISBN string) error
	UpdatePDFPath(ctx context.Context, isbn, path string) error
	GetPDFPath(ctx context.Context, isbn string) (string, bool, error)
	FindByISBN(ctx context.Context, isbn string) (*catalog.BookSummary, error)
	ListAll(ctx context.Context) ([]entities.Book, error)
	Undo(ctx context.Context) (catalog.UndoEntry, error)
	History() []catalog.UndoEntry
}

// BookRequest is the body of POST /api/books and PUT /api/books/:isbn.
type BookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

// PDFRequest is the body of PUT /api/books/:isbn/pdf.
type PDFRequest struct {
	Path string `json:"path"`
}

// PDFResponse reports the attachment of a record.
type PDFResponse struct {
	ISBN     string `json:"isbn"`
	Path     string `json:"path,omitempty"`
	Attached bool   `json:"attached"`
}

type CatalogController struct {
	catalog CatalogService
}

func NewCatalogController(service CatalogService) *CatalogController {
	return &CatalogController{catalog: service}
}

// ListBooks handles GET /api/books
func (cc *CatalogController) ListBooks(c *gin.Context) {
	books, err := cc.catalog.ListAll(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	if books == nil {
		books = []entities.Book{}
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

// GetBook handles GET /api/books/:isbn
func (cc *CatalogController) GetBook(c *gin.Context) {
	book, err := cc.catalog.FindByISBN(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		respondInternalError(c, err, "find book")
		return
	}
	if book == nil {
		respondNotFound(c, "book")
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}

// CreateBook handles POST /api/books
func (cc *CatalogController) CreateBook(c *gin.Context) {
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if err := cc.catalog.Add(c.Request.Context(), req.Title, req.Author, req.ISBN); err != nil {
		respondCatalogError(c, err, "add book")
		return
	}
	respondCreated(c, catalog.BookSummary{Title: req.Title, Author: req.Author, ISBN: req.ISBN})
}

// UpdateBook handles PUT /api/books/:isbn
func (cc *CatalogController) UpdateBook(c *gin.Context) {
	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	isbn := c.Param("isbn")
	if err := cc.catalog.Update(c.Request.Context(), isbn, req.Title, req.Author, req.ISBN); err != nil {
		respondCatalogError(c, err, "update book")
		return
	}
	c.JSON(http.StatusOK, catalog.BookSummary{Title: req.Title, Author: req.Author, ISBN: req.ISBN})
}

// DeleteBook handles DELETE /api/books/:isbn
func (cc *CatalogController) DeleteBook(c *gin.Context) {
	isbn := c.Param("isbn")
	if err := cc.catalog.Delete(c.Request.Context(), isbn); err != nil {
		respondCatalogError(c, err, "delete book")
		return
	}
	respondSuccess(c, "book "+isbn+" deleted")
}

// SetPDF handles PUT /api/books/:isbn/pdf
func (cc *CatalogController) SetPDF(c *gin.Context) {
	var req PDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	isbn := c.Param("isbn")
	if err := cc.catalog.UpdatePDFPath(c.Request.Context(), isbn, req.Path); err != nil {
		respondCatalogError(c, err, "attach pdf")
		return
	}
	c.JSON(http.StatusOK, PDFResponse{ISBN: isbn, Path: req.Path, Attached: true})
}

// GetPDF handles GET /api/books/:isbn/pdf
func (cc *CatalogController) GetPDF(c *gin.Context) {
	isbn := c.Param("isbn")
	path, ok, err := cc.catalog.GetPDFPath(c.Request.Context(), isbn)
	if err != nil {
		respondCatalogError(c, err, "get pdf")
		return
	}
	c.JSON(http.StatusOK, PDFResponse{ISBN: isbn, Path: path, Attached: ok})
}

// Undo handles POST /api/undo
func (cc *CatalogController) Undo(c *gin.Context) {
	entry, err := cc.catalog.Undo(c.Request.Context())
	if err != nil {
		respondCatalogError(c, err, "undo")
		return
	}
	c.JSON(http.StatusOK, gin.H{"undone": entry})
}

// History handles GET /api/undo
func (cc *CatalogController) History(c *gin.Context) {
	history := cc.catalog.History()
	c.JSON(http.StatusOK, gin.H{"history": history, "count": len(history)})
}
