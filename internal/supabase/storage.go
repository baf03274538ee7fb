package supabase

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
	"golang.org/x/sync/errgroup"
)

type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewStorageClient(supabaseURL, serviceRoleKey, bucket string) (*StorageClient, error) {
	baseURL := strings.TrimRight(supabaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("supabase url is required")
	}
	client := storage.NewClient(baseURL+"/storage/v1", serviceRoleKey, nil)

	return &StorageClient{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

// PhotoPath is pages/{page_id}/photos/{uuid}.{ext}.
func PhotoPath(pageID uuid.UUID, ext string) string {
	return fmt.Sprintf("pages/%s/photos/%s.%s", pageID, uuid.New(), strings.TrimPrefix(ext, "."))
}

// StickerPath is pages/{page_id}/stickers/{uuid}.png.
func StickerPath(pageID uuid.UUID) string {
	return fmt.Sprintf("pages/%s/stickers/%s.png", pageID, uuid.New())
}

// Upload stores data at storagePath and returns its public URL.
func (s *StorageClient) Upload(storagePath, contentType string, data []byte) (string, error) {
	upsert := false
	_, err := s.client.UploadFile(s.bucket, storagePath, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	return s.GetPublicURL(storagePath), nil
}

func (s *StorageClient) GetPublicURL(storagePath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		s.baseURL, s.bucket, storagePath)
}

func (s *StorageClient) DeleteFile(storagePath string) error {
	_, err := s.client.RemoveFile(s.bucket, []string{storagePath})
	return err
}

// DeleteFiles removes every path concurrently and returns the first failure.
func (s *StorageClient) DeleteFiles(ctx context.Context, paths []string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.DeleteFile(p); err != nil {
				return fmt.Errorf("failed to delete %s: %w", p, err)
			}
			return nil
		})
	}
	return g.Wait()
}
