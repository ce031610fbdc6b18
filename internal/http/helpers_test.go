package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/librarian/internal/catalog"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondCatalogError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid input", fmt.Errorf("%w: title is required", catalog.ErrInvalidInput), http.StatusBadRequest, CodeInvalidInput},
		{"not found", fmt.Errorf("%w: 123", catalog.ErrNotFound), http.StatusNotFound, CodeNotFound},
		{"duplicate", fmt.Errorf("%w: 123", catalog.ErrDuplicateKey), http.StatusConflict, CodeDuplicateKey},
		{"empty history", catalog.ErrEmptyHistory, http.StatusConflict, CodeEmptyHistory},
		{"storage failure", errors.New("database is locked"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondCatalogError(c, tt.err, "test")

			assert.Equal(t, tt.status, w.Code)
			if tt.code != "" {
				assert.Contains(t, w.Body.String(), `"code":"`+tt.code+`"`)
			} else {
				assert.Contains(t, w.Body.String(), "internal server error")
				assert.NotContains(t, w.Body.String(), "database is locked")
			}
		})
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		limit  int
		offset int
	}{
		{"defaults", "", 25, 0},
		{"explicit", "?limit=10&offset=20", 10, 20},
		{"limit too large", "?limit=1000", 25, 0},
		{"negative offset", "?offset=-5", 25, 0},
		{"garbage", "?limit=abc&offset=xyz", 25, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/"+tt.query, nil)

			limit, offset := parsePagination(c, 25, 100)

			assert.Equal(t, tt.limit, limit)
			assert.Equal(t, tt.offset, offset)
		})
	}
}

func TestPaginated(t *testing.T) {
	p := paginated([]int{1, 2}, 5, 2, 2)
	assert.True(t, p.HasMore)
	assert.Equal(t, 3, p.TotalPages)

	p = paginated([]int{5}, 5, 2, 4)
	assert.False(t, p.HasMore)
}
