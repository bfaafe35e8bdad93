package handler

import (
	"errors"
	"io"
	"net/http"

	"bookhole/backend/common"
	"bookhole/backend/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// DriveHandler exposes the three drive operations behind the
// /api/drive/:action dispatcher.
type DriveHandler struct {
	Auth     *service.DriveAuth
	Uploader *service.Uploader
}

func NewDriveHandler(auth *service.DriveAuth, uploader *service.Uploader) *DriveHandler {
	return &DriveHandler{Auth: auth, Uploader: uploader}
}

// Dispatch selects the operation from the last path segment. Auth has
// already run; unknown selectors are a client error.
func (h *DriveHandler) Dispatch(c *gin.Context) {
	switch c.Param("action") {
	case "authorize":
		h.authorize(c)
	case "callback":
		h.callback(c)
	case "upload":
		h.upload(c)
	default:
		common.RespError(c, http.StatusBadRequest, "Unknown endpoint")
	}
}

func (h *DriveHandler) authorize(c *gin.Context) {
	common.RespOK(c, gin.H{"url": h.Auth.AuthURL()})
}

type callbackRequest struct {
	Code string `json:"code" validate:"required"`
}

func (h *DriveHandler) callback(c *gin.Context) {
	var req callbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespError(c, http.StatusBadRequest, "No authorization code provided")
		return
	}
	if err := validate.Struct(&req); err != nil {
		common.RespError(c, http.StatusBadRequest, "No authorization code provided")
		return
	}

	token, err := h.Auth.ExchangeCode(c.Request.Context(), req.Code)
	if err != nil {
		common.SysError("error exchanging code for tokens: " + err.Error())
		common.RespError(c, http.StatusBadRequest, "Failed to exchange authorization code")
		return
	}

	userId := c.GetString("user_id")
	if err := service.SaveConnection(userId, token); err != nil {
		common.SysError("failed to store tokens for user " + userId + ": " + err.Error())
		common.RespError(c, http.StatusInternalServerError, "Failed to store tokens")
		return
	}

	common.RespOK(c, gin.H{"success": true})
}

func (h *DriveHandler) upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	fileName := c.PostForm("fileName")
	if err != nil || fileName == "" {
		common.RespError(c, http.StatusBadRequest, "No file provided")
		return
	}

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
	result, err := h.Uploader.UploadBook(c.Request.Context(), userId, fileName, contentType, data)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoConnection):
			common.RespError(c, http.StatusBadRequest, "No Google Drive connection found")
		case errors.Is(err, service.ErrTokenRefresh):
			common.SysError("token refresh failed for user " + userId + ": " + err.Error())
			common.RespError(c, http.StatusBadRequest, "Failed to refresh token")
		case errors.Is(err, service.ErrDriveUpload):
			common.SysError("drive upload failed for user " + userId + ": " + err.Error())
			common.RespError(c, http.StatusInternalServerError, "Failed to upload file")
		default:
			common.SysError("upload failed for user " + userId + ": " + err.Error())
			common.RespError(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	common.RespOK(c, gin.H{
		"success":   true,
		"fileId":    result.FileId,
		"bookId":    result.BookId,
		"publicUrl": result.PublicURL,
	})
}
