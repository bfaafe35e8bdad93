package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"bookhole/backend/common"
	"bookhole/backend/model"
	"bookhole/backend/service"

	"github.com/gin-gonic/gin"
)

// FileHandler is the generic file-upload proxy: it stores a file in the
// object store under a type-specific prefix and records it.
type FileHandler struct {
	Store service.ObjectStore
}

func NewFileHandler(store service.ObjectStore) *FileHandler {
	return &FileHandler{Store: store}
}

func (h *FileHandler) UploadFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		common.RespError(c, http.StatusBadRequest, "No file provided")
		return
	}
	fileType := c.PostForm("fileType")

	file, err := fileHeader.Open()
	if err != nil {
		common.RespError(c, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		common.SysError("failed to read uploaded file: " + err.Error())
		common.RespError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	userId := c.GetString("user_id")
	record, err := service.StoreUserFile(c.Request.Context(), h.Store, userId, fileType, fileHeader.Filename, contentType, data)
	if err != nil {
		if errors.Is(err, service.ErrInvalidFileType) {
			common.RespError(c, http.StatusBadRequest, "Invalid file type")
			return
		}
		common.SysError("file proxy upload failed for user " + userId + ": " + err.Error())
		common.RespError(c, http.StatusInternalServerError, "Failed to store file")
		return
	}

	common.RespOK(c, gin.H{
		"success": true,
		"url":     record.Url,
		"key":     record.Key,
	})
}

func (h *FileHandler) GetMyFiles(c *gin.Context) {
	p, _ := strconv.Atoi(c.Query("p"))
	if p < 0 {
		p = 0
	}
	userId := c.GetString("user_id")
	files, err := model.FindFilesForUser(userId, p*common.ItemsPerPage, common.ItemsPerPage)
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, err.Error())
		return
	}
	common.RespSuccess(c, files)
}
