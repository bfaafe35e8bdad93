package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"bookhole/backend/common"
	"bookhole/backend/library/drive"
	"bookhole/backend/model"

	"gorm.io/gorm"
)

// PlaceholderCover is shown in the library UI until a real cover is set.
const PlaceholderCover = "https://via.placeholder.com/300x450?text=Uploaded+Book"

const folderCacheTTL = time.Hour

var (
	ErrNoConnection = errors.New("no Google Drive connection found")
	ErrTokenRefresh = errors.New("failed to refresh token")
	ErrDriveUpload  = errors.New("failed to upload file to Google Drive")
)

// ObjectStore is the slice of the object store the uploader needs.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	PublicURL(key string) string
}

// DriveClient is implemented by drive.Client; tests substitute fakes.
type DriveClient interface {
	FindFolder(ctx context.Context, accessToken, name string) (*drive.File, error)
	CreateFolder(ctx context.Context, accessToken, name string) (*drive.File, error)
	UploadMultipart(ctx context.Context, accessToken, folderId, name, contentType string, data []byte) (*drive.File, error)
}

// Uploader relays a book to the caller's Google Drive and mirrors it into
// the local object store. Store may be nil when no object store is
// configured; the mirror is then skipped and the Drive view URL is used.
type Uploader struct {
	Auth       *DriveAuth
	Drive      DriveClient
	Store      ObjectStore
	FolderName string
}

type UploadResult struct {
	FileId    string `json:"fileId"`
	BookId    *int   `json:"bookId"`
	PublicURL string `json:"publicUrl"`
}

// UploadBook runs the relay sequence: load connection, refresh the token if
// expired, resolve the destination folder, upload to Drive, then the two
// best-effort side-writes (object store mirror, catalog entry). The
// side-writes are logged on failure but never fail the upload — once the
// Drive upload succeeded the operation is reported as a success.
func (u *Uploader) UploadBook(ctx context.Context, userId, fileName, contentType string, data []byte) (*UploadResult, error) {
	conn, err := model.GetDriveConnection(userId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoConnection
		}
		return nil, err
	}

	accessToken, err := u.Auth.EnsureFreshToken(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenRefresh, err)
	}

	folderId, err := u.resolveFolder(ctx, accessToken, userId)
	if err != nil {
		return nil, err
	}

	uploaded, err := u.Drive.UploadMultipart(ctx, accessToken, folderId, fileName, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDriveUpload, err)
	}

	publicURL := ""
	if u.Store != nil {
		key := userId + "/" + fileName
		if bestEffort("mirror upload to object store", func() error {
			return u.Store.Put(ctx, key, contentType, data)
		}) {
			publicURL = u.Store.PublicURL(key)
		}
	}

	pdfURL := publicURL
	if pdfURL == "" {
		pdfURL = drive.ViewURL(uploaded.Id)
	}

	book := &model.Book{
		Title:      strings.TrimSuffix(fileName, filepath.Ext(fileName)),
		Author:     "Uploaded by user",
		PdfUrl:     pdfURL,
		Category:   []string{"user-uploaded"},
		CoverImage: PlaceholderCover,
	}
	var bookId *int
	if bestEffort("catalog insert", book.Insert) {
		bookId = &book.Id
	}

	return &UploadResult{
		FileId:    uploaded.Id,
		BookId:    bookId,
		PublicURL: publicURL,
	}, nil
}

// resolveFolder finds or creates the destination Drive folder. The id is
// cached in Redis per user when Redis is enabled; concurrent first uploads
// can still race on creation, matching the lookup-then-create semantics.
func (u *Uploader) resolveFolder(ctx context.Context, accessToken, userId string) (string, error) {
	cacheKey := "drive:folder:" + userId
	if common.RedisEnabled {
		if id, err := common.RedisGet(cacheKey); err == nil && id != "" {
			return id, nil
		}
	}

	folder, err := u.Drive.FindFolder(ctx, accessToken, u.FolderName)
	if err != nil {
		return "", err
	}
	if folder == nil {
		folder, err = u.Drive.CreateFolder(ctx, accessToken, u.FolderName)
		if err != nil {
			return "", err
		}
	}

	if common.RedisEnabled {
		bestEffort("cache drive folder id", func() error {
			return common.RedisSet(cacheKey, folder.Id, folderCacheTTL)
		})
	}
	return folder.Id, nil
}

// bestEffort runs a secondary write whose failure must not fail the overall
// operation. It reports success; failures are logged and swallowed.
func bestEffort(op string, fn func() error) bool {
	if err := fn(); err != nil {
		common.SysError(op + ": " + err.Error())
		return false
	}
	return true
}
