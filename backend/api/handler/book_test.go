package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookhole/backend/api/middleware"
	"bookhole/backend/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newBookRouter() *gin.Engine {
	router := gin.New()
	books := router.Group("/api/books")
	books.Use(middleware.JWTAuth())
	books.GET("/", GetAllBooks)
	books.GET("/search", SearchBooks)
	return router
}

func getBooks(t *testing.T, router *gin.Engine, path string) []map[string]interface{} {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", bearerToken(t, "reader"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Success bool                     `json:"success"`
		Data    []map[string]interface{} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.True(t, body.Success)
	return body.Data
}

func TestGetAllBooks_Paging(t *testing.T) {
	assert.NoError(t, model.DB.Where("1 = 1").Delete(&model.Book{}).Error)
	for i := 0; i < 15; i++ {
		book := &model.Book{Title: fmt.Sprintf("paged-%02d", i), Author: "A"}
		assert.NoError(t, book.Insert())
	}
	router := newBookRouter()

	first := getBooks(t, router, "/api/books/")
	assert.Len(t, first, 10)
	assert.Equal(t, "paged-14", first[0]["title"], "newest entry comes first")

	second := getBooks(t, router, "/api/books/?p=1")
	assert.Len(t, second, 5)
	assert.Equal(t, "paged-04", second[0]["title"])
}

func TestSearchBooks_MatchesTitleAndAuthor(t *testing.T) {
	assert.NoError(t, model.DB.Where("1 = 1").Delete(&model.Book{}).Error)
	for _, b := range []*model.Book{
		{Title: "Go in Practice", Author: "someone"},
		{Title: "Cooking", Author: "Gopher Chef"},
		{Title: "Unrelated", Author: "nobody"},
	} {
		assert.NoError(t, b.Insert())
	}
	router := newBookRouter()

	found := getBooks(t, router, "/api/books/search?keyword=Go")
	assert.Len(t, found, 2)

	none := getBooks(t, router, "/api/books/search?keyword=zzz")
	assert.Len(t, none, 0)
}
