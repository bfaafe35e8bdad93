// Package drive is a minimal Google Drive v3 client covering what the
// upload relay needs: folder lookup, folder creation, and multipart file
// upload. Callers supply a bearer access token per request since tokens are
// per-user.
package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"
)

const (
	defaultBaseURL   = "https://www.googleapis.com/drive/v3"
	defaultUploadURL = "https://www.googleapis.com/upload/drive/v3"

	// FolderMimeType is the mime type Drive assigns to folders.
	FolderMimeType = "application/vnd.google-apps.folder"
)

// File is the subset of a Drive file resource the service reads.
type File struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
}

type fileList struct {
	Files []File `json:"files"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	uploadURL  string
}

type Option func(*Client)

// WithBaseURLs points the client at alternate API hosts. Tests use this to
// target an httptest server.
func WithBaseURLs(baseURL, uploadURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
		c.uploadURL = uploadURL
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    defaultBaseURL,
		uploadURL:  defaultUploadURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FindFolder looks up a non-trashed folder by exact name. Returns nil when
// no folder matches.
func (c *Client) FindFolder(ctx context.Context, accessToken, name string) (*File, error) {
	query := fmt.Sprintf("name='%s' and mimeType='%s' and trashed=false", name, FolderMimeType)
	reqURL := c.baseURL + "/files?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("drive: folder lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("folder lookup", resp)
	}

	var list fileList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("drive: decoding folder list: %w", err)
	}
	if len(list.Files) == 0 {
		return nil, nil
	}
	return &list.Files[0], nil
}

// CreateFolder creates a folder at the Drive root.
func (c *Client) CreateFolder(ctx context.Context, accessToken, name string) (*File, error) {
	body, err := json.Marshal(map[string]string{
		"name":     name,
		"mimeType": FolderMimeType,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("drive: folder create: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("folder create", resp)
	}

	var folder File
	if err := json.NewDecoder(resp.Body).Decode(&folder); err != nil {
		return nil, fmt.Errorf("drive: decoding created folder: %w", err)
	}
	return &folder, nil
}

// UploadMultipart uploads file bytes into the given parent folder using the
// multipart upload endpoint: a JSON metadata part followed by the raw
// content part, as multipart/related.
func (c *Client) UploadMultipart(ctx context.Context, accessToken, folderId, name, contentType string, data []byte) (*File, error) {
	metadata, err := json.Marshal(map[string]interface{}{
		"name":    name,
		"parents": []string{folderId},
	})
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	metaPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"application/json; charset=UTF-8"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := metaPart.Write(metadata); err != nil {
		return nil, err
	}

	filePart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {contentType},
	})
	if err != nil {
		return nil, err
	}
	if _, err := filePart.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	reqURL := c.uploadURL + "/files?uploadType=multipart"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "multipart/related; boundary="+writer.Boundary())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("drive: upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("upload", resp)
	}

	var uploaded File
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return nil, fmt.Errorf("drive: decoding upload response: %w", err)
	}
	return &uploaded, nil
}

// ViewURL is the shareable "view" link for a Drive file id.
func ViewURL(fileId string) string {
	return "https://drive.google.com/file/d/" + fileId + "/view"
}

func statusError(op string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("drive: %s failed with status %d: %s", op, resp.StatusCode, snippet)
}
