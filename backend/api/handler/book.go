package handler

import (
	"net/http"
	"strconv"

	"bookhole/backend/common"
	"bookhole/backend/model"

	"github.com/gin-gonic/gin"
)

func GetAllBooks(c *gin.Context) {
	p, _ := strconv.Atoi(c.Query("p"))
	if p < 0 {
		p = 0
	}
	books, err := model.GetAllBooks(p*common.ItemsPerPage, common.ItemsPerPage)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, err.Error())
		return
	}
	common.RespSuccess(c, books)
}

func SearchBooks(c *gin.Context) {
	keyword := c.Query("keyword")
	books, err := model.SearchBooks(keyword)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, err.Error())
		return
	}
	common.RespSuccess(c, books)
}
