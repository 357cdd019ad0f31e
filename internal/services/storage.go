package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"time"

	"github.com/kursgid/kursgid-api/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9.\-]`)

// StorageService stores submitted course images and school logos in MinIO.
type StorageService struct {
	client *minio.Client
	bucket string
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, err
	}

	// Ensure bucket exists
	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.MinIOBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		err = client.MakeBucket(ctx, cfg.MinIOBucket, minio.MakeBucketOptions{})
		if err != nil {
			return nil, err
		}
	}

	return &StorageService{
		client: client,
		bucket: cfg.MinIOBucket,
	}, nil
}

// UploadImage stores an uploaded image under the given prefix ("courses" or
// "schools") and returns the object path to persist on the entity.
func (s *StorageService) UploadImage(file multipart.File, header *multipart.FileHeader, prefix string) (string, error) {
	base := unsafeFilenameChars.ReplaceAllString(filepath.Base(header.Filename), "_")
	objectName := fmt.Sprintf("%s/%d-%s", prefix, time.Now().UnixMilli(), base)

	ctx := context.Background()
	_, err := s.client.PutObject(ctx, s.bucket, objectName, file, header.Size, minio.PutObjectOptions{
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		return "", err
	}
	return "/" + s.bucket + "/" + objectName, nil
}

func (s *StorageService) DeleteFile(objectName string) error {
	ctx := context.Background()
	return s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
}
