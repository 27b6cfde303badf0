package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/recipevault/backend/config"
)

// ImageStore persists uploaded recipe images and returns the reference
// stored on the recipe. Delete removes an object whose reference never
// made it into the database.
type ImageStore interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// RecipeImageKey builds the storage key for an uploaded recipe image:
// a random identifier with the original file extension, under
// uploads/recipe/.
func RecipeImageKey(filename string) string {
	ext := filepath.Ext(filename)
	return fmt.Sprintf("uploads/recipe/%s%s", uuid.New().String(), ext)
}

// S3ImageStore uploads images to an S3 bucket with public-read URLs.
type S3ImageStore struct {
	s3Config *config.S3Config
}

func NewS3ImageStore(s3Config *config.S3Config) *S3ImageStore {
	return &S3ImageStore{s3Config: s3Config}
}

func (s *S3ImageStore) Save(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key), nil
}

func (s *S3ImageStore) Delete(ctx context.Context, key string) error {
	_, err := s.s3Config.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

// FileImageStore writes images under a local media directory. Used in
// development and tests where no bucket is configured.
type FileImageStore struct {
	dir string
}

func NewFileImageStore(dir string) *FileImageStore {
	return &FileImageStore{dir: dir}
}

func (s *FileImageStore) Save(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return "/media/" + key, nil
}

func (s *FileImageStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
