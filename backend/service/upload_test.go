package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookhole/backend/library/drive"
	"bookhole/backend/model"

	"github.com/stretchr/testify/assert"
)

// fakeDrive implements DriveClient in memory.
type fakeDrive struct {
	folders     map[string]*drive.File
	findCalls   int
	createCalls int
	uploadCalls int
	lastParent  string
	failUpload  bool
}

func newFakeDrive() *fakeDrive {
	return &fakeDrive{folders: make(map[string]*drive.File)}
}

func (f *fakeDrive) FindFolder(ctx context.Context, accessToken, name string) (*drive.File, error) {
	f.findCalls++
	return f.folders[name], nil
}

func (f *fakeDrive) CreateFolder(ctx context.Context, accessToken, name string) (*drive.File, error) {
	f.createCalls++
	folder := &drive.File{Id: "folder-" + name, Name: name, MimeType: drive.FolderMimeType}
	f.folders[name] = folder
	return folder, nil
}

func (f *fakeDrive) UploadMultipart(ctx context.Context, accessToken, folderId, name, contentType string, data []byte) (*drive.File, error) {
	f.uploadCalls++
	f.lastParent = folderId
	if f.failUpload {
		return nil, errors.New("upstream said no")
	}
	return &drive.File{Id: "drive-file-1", Name: name}, nil
}

// fakeStore implements ObjectStore in memory.
type fakeStore struct {
	objects map[string][]byte
	failPut bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (s *fakeStore) Put(ctx context.Context, key, contentType string, data []byte) error {
	if s.failPut {
		return errors.New("store unavailable")
	}
	s.objects[key] = data
	return nil
}

func (s *fakeStore) PublicURL(key string) string {
	return "https://store.example.com/books/" + key
}

func newTestUploader(d DriveClient, s ObjectStore) *Uploader {
	return &Uploader{
		Auth:       NewDriveAuth(testDriveConfig()),
		Drive:      d,
		Store:      s,
		FolderName: "Seen Books",
	}
}

func connectUser(t *testing.T, userId string) {
	t.Helper()
	err := model.UpsertDriveConnection(userId, "valid-access", "refresh", time.Now().Add(time.Hour))
	assert.NoError(t, err)
}

func countBooks(t *testing.T, title string) int64 {
	t.Helper()
	var count int64
	assert.NoError(t, model.DB.Model(&model.Book{}).Where("title = ?", title).Count(&count).Error)
	return count
}

func TestUploadBook_NoConnection(t *testing.T) {
	uploader := newTestUploader(newFakeDrive(), newFakeStore())

	_, err := uploader.UploadBook(context.Background(), "stranger", "notes.pdf", "application/pdf", []byte("x"))
	assert.ErrorIs(t, err, ErrNoConnection)
}

func TestUploadBook_HappyPath_FolderExists(t *testing.T) {
	fake := newFakeDrive()
	fake.folders["Seen Books"] = &drive.File{Id: "existing-folder"}
	store := newFakeStore()
	uploader := newTestUploader(fake, store)

	userId := "happy-user"
	connectUser(t, userId)

	result, err := uploader.UploadBook(context.Background(), userId, "mybook.pdf", "application/pdf", []byte("pdf-bytes"))
	assert.NoError(t, err)

	assert.Equal(t, "drive-file-1", result.FileId)
	assert.Equal(t, 0, fake.createCalls, "existing folder must be reused")
	assert.Equal(t, "existing-folder", fake.lastParent)

	// Mirror landed under the caller-scoped key.
	assert.Equal(t, []byte("pdf-bytes"), store.objects[userId+"/mybook.pdf"])
	assert.Equal(t, "https://store.example.com/books/"+userId+"/mybook.pdf", result.PublicURL)

	// Catalog entry with the extension stripped from the title.
	assert.NotNil(t, result.BookId)
	var book model.Book
	assert.NoError(t, model.DB.First(&book, *result.BookId).Error)
	assert.Equal(t, "mybook", book.Title)
	assert.Equal(t, "Uploaded by user", book.Author)
	assert.Equal(t, []string{"user-uploaded"}, book.Category)
	assert.Equal(t, result.PublicURL, book.PdfUrl)
}

func TestUploadBook_CreatesFolderOnce(t *testing.T) {
	fake := newFakeDrive()
	uploader := newTestUploader(fake, newFakeStore())

	userId := "folder-user"
	connectUser(t, userId)

	result, err := uploader.UploadBook(context.Background(), userId, "a.pdf", "application/pdf", []byte("x"))
	assert.NoError(t, err)
	assert.Equal(t, 1, fake.createCalls)
	assert.Equal(t, "folder-Seen Books", fake.lastParent)
	assert.NotNil(t, result)

	// Second upload finds the folder and performs zero create calls.
	_, err = uploader.UploadBook(context.Background(), userId, "b.pdf", "application/pdf", []byte("y"))
	assert.NoError(t, err)
	assert.Equal(t, 1, fake.createCalls)
	assert.Equal(t, 2, fake.uploadCalls)
}

func TestUploadBook_ExpiredTokenRefreshedOnce(t *testing.T) {
	endpoint := newFakeTokenEndpoint(t)
	fake := newFakeDrive()
	fake.folders["Seen Books"] = &drive.File{Id: "f"}
	uploader := newTestUploader(fake, newFakeStore())

	userId := "expired-upload-user"
	assert.NoError(t, model.UpsertDriveConnection(userId, "stale", "keep-me", time.Now().Add(-time.Minute)))

	_, err := uploader.UploadBook(context.Background(), userId, "c.pdf", "application/pdf", []byte("z"))
	assert.NoError(t, err)

	assert.Equal(t, []string{"refresh_token"}, endpoint.grantTypes())
	assert.Equal(t, 1, fake.uploadCalls)

	stored, err := model.GetDriveConnection(userId)
	assert.NoError(t, err)
	assert.Equal(t, "fresh-access-token", stored.AccessToken)
	assert.Equal(t, "keep-me", stored.RefreshToken)
}

func TestUploadBook_RefreshRejected(t *testing.T) {
	endpoint := newFakeTokenEndpoint(t)
	endpoint.rejectAll = true
	uploader := newTestUploader(newFakeDrive(), newFakeStore())

	userId := "refresh-rejected-user"
	assert.NoError(t, model.UpsertDriveConnection(userId, "stale", "revoked", time.Now().Add(-time.Minute)))

	_, err := uploader.UploadBook(context.Background(), userId, "d.pdf", "application/pdf", []byte("x"))
	assert.ErrorIs(t, err, ErrTokenRefresh)
}

func TestUploadBook_DriveUploadFails(t *testing.T) {
	fake := newFakeDrive()
	fake.failUpload = true
	uploader := newTestUploader(fake, newFakeStore())

	userId := "drive-fail-user"
	connectUser(t, userId)

	_, err := uploader.UploadBook(context.Background(), userId, "e.pdf", "application/pdf", []byte("x"))
	assert.ErrorIs(t, err, ErrDriveUpload)

	// Nothing was cataloged for the failed upload.
	assert.EqualValues(t, 0, countBooks(t, "e"))
}

func TestUploadBook_MirrorFailureIsTolerated(t *testing.T) {
	fake := newFakeDrive()
	fake.folders["Seen Books"] = &drive.File{Id: "f"}
	store := newFakeStore()
	store.failPut = true
	uploader := newTestUploader(fake, store)

	userId := "mirror-fail-user"
	connectUser(t, userId)

	result, err := uploader.UploadBook(context.Background(), userId, "tolerated.pdf", "application/pdf", []byte("x"))
	assert.NoError(t, err, "mirror failure must not fail the upload")

	assert.Equal(t, "", result.PublicURL)

	// The catalog entry falls back to the Drive view URL.
	assert.NotNil(t, result.BookId)
	var book model.Book
	assert.NoError(t, model.DB.First(&book, *result.BookId).Error)
	assert.Equal(t, drive.ViewURL("drive-file-1"), book.PdfUrl)
}

func TestUploadBook_NoStoreConfigured(t *testing.T) {
	fake := newFakeDrive()
	fake.folders["Seen Books"] = &drive.File{Id: "f"}
	uploader := newTestUploader(fake, nil)

	userId := "no-store-user"
	connectUser(t, userId)

	result, err := uploader.UploadBook(context.Background(), userId, "nostore.pdf", "application/pdf", []byte("x"))
	assert.NoError(t, err)
	assert.Equal(t, "", result.PublicURL)
}

func TestUploadBook_DuplicateUploadsProduceTwoEntries(t *testing.T) {
	fake := newFakeDrive()
	fake.folders["Seen Books"] = &drive.File{Id: "f"}
	uploader := newTestUploader(fake, newFakeStore())

	userId := "duplicate-user"
	connectUser(t, userId)

	_, err := uploader.UploadBook(context.Background(), userId, "same.pdf", "application/pdf", []byte("x"))
	assert.NoError(t, err)
	_, err = uploader.UploadBook(context.Background(), userId, "same.pdf", "application/pdf", []byte("x"))
	assert.NoError(t, err)

	// No deduplication: every upload catalogs a new entry.
	assert.EqualValues(t, 2, countBooks(t, "same"))
}

func TestStoreUserFile(t *testing.T) {
	store := newFakeStore()

	record, err := StoreUserFile(context.Background(), store, "proxy-user", "pdf", "doc.pdf", "application/pdf", []byte("data"))
	assert.NoError(t, err)
	assert.Contains(t, record.Key, "pdfs/proxy-user/")
	assert.Contains(t, record.Key, "_doc.pdf")
	assert.Equal(t, store.PublicURL(record.Key), record.Url)
	assert.Equal(t, []byte("data"), store.objects[record.Key])

	// Record landed in the files table.
	files, err := model.FindFilesForUser("proxy-user", 0, 10)
	assert.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestStoreUserFile_InvalidType(t *testing.T) {
	_, err := StoreUserFile(context.Background(), newFakeStore(), "proxy-user", "exe", "x.exe", "application/octet-stream", []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidFileType)
}

func TestStoreUserFile_ImagePrefix(t *testing.T) {
	store := newFakeStore()
	record, err := StoreUserFile(context.Background(), store, "proxy-user", "image", "cover.png", "image/png", []byte("png"))
	assert.NoError(t, err)
	assert.Contains(t, record.Key, "covers/proxy-user/")
}
