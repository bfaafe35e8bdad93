package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookhole/backend/model"
)

var ErrInvalidFileType = errors.New("invalid file type")

// StoreUserFile stores a file through the generic upload proxy and records
// it. Keys are prefixed per type and timestamped so re-uploads of the same
// filename never collide.
func StoreUserFile(ctx context.Context, store ObjectStore, userId, fileType, filename, contentType string, data []byte) (*model.File, error) {
	var prefix string
	switch fileType {
	case "pdf":
		prefix = "pdfs"
	case "image":
		prefix = "covers"
	default:
		return nil, ErrInvalidFileType
	}

	key := fmt.Sprintf("%s/%s/%d_%s", prefix, userId, time.Now().UnixMilli(), filename)
	if err := store.Put(ctx, key, contentType, data); err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	record := &model.File{
		UserId:    userId,
		Filename:  filename,
		Key:       key,
		Url:       store.PublicURL(key),
		CreatedAt: time.Now().Unix(),
	}
	if err := record.Insert(); err != nil {
		return nil, fmt.Errorf("failed to save file record: %w", err)
	}

	return record, nil
}
