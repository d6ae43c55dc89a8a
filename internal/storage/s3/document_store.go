// Package s3 implements the document storage boundary on top of an
// S3-compatible object store.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ats-backend/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// DefaultPresignExpiry is used when the caller does not specify a TTL.
const DefaultPresignExpiry = time.Hour

type DocumentStore struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

func NewDocumentStore(client *s3.Client, bucket string) *DocumentStore {
	return &DocumentStore{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
	}
}

// EnsureBucket creates the configured bucket if it does not exist yet.
// Safe to call concurrently and repeatedly.
func (s *DocumentStore) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	if !errors.As(err, &notFound) {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		var exists *types.BucketAlreadyExists
		if errors.As(err, &owned) || errors.As(err, &exists) {
			return nil
		}
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// objectPath builds the per-candidate, per-type storage path.
func objectPath(candidateID int64, docType domain.DocumentType, fileName string) string {
	return fmt.Sprintf("candidates/%d/%s/%s", candidateID, strings.ToLower(string(docType)), fileName)
}

// uniqueFileName generates a collision-resistant name preserving the original
// extension.
func uniqueFileName(originalName string) string {
	return uuid.New().String() + strings.ToLower(filepath.Ext(originalName))
}

func (s *DocumentStore) Upload(ctx context.Context, file *domain.FileUpload, candidateID int64, docType domain.DocumentType) (*domain.UploadResult, error) {
	if err := s.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	fileName := uniqueFileName(file.OriginalName)
	filePath := objectPath(candidateID, docType, fileName)

	out, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(s.bucket),
		Key:                aws.String(filePath),
		Body:               bytes.NewReader(file.Content),
		ContentLength:      aws.Int64(file.Size),
		ContentType:        aws.String(file.MimeType),
		ContentDisposition: aws.String(fmt.Sprintf("attachment; filename=%q", file.OriginalName)),
		Metadata: map[string]string{
			"original-name": file.OriginalName,
			"candidate-id":  strconv.FormatInt(candidateID, 10),
			"document-type": string(docType),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object %s: %w", filePath, err)
	}

	return &domain.UploadResult{
		FileName:     fileName,
		OriginalName: file.OriginalName,
		MimeType:     file.MimeType,
		FileSize:     file.Size,
		FilePath:     filePath,
		BucketName:   s.bucket,
		Etag:         strings.Trim(aws.ToString(out.ETag), `"`),
	}, nil
}

func (s *DocumentStore) Get(ctx context.Context, filePath string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(filePath),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", filePath, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", filePath, err)
	}
	return data, nil
}

// Delete removes the object. S3 DeleteObject is idempotent: deleting an
// absent object succeeds, which keeps document deletion retryable.
func (s *DocumentStore) Delete(ctx context.Context, filePath string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(filePath),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", filePath, err)
	}
	return nil
}

func (s *DocumentStore) PresignDownload(ctx context.Context, filePath string, expires time.Duration) (string, error) {
	if expires <= 0 {
		expires = DefaultPresignExpiry
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(filePath),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("failed to presign download for %s: %w", filePath, err)
	}
	return req.URL, nil
}

func (s *DocumentStore) PresignUpload(ctx context.Context, candidateID int64, fileName string, docType domain.DocumentType, expires time.Duration) (*domain.PresignedUpload, error) {
	if expires <= 0 {
		expires = DefaultPresignExpiry
	}

	if err := s.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	generated := uniqueFileName(fileName)
	filePath := objectPath(candidateID, docType, generated)

	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(filePath),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload for %s: %w", filePath, err)
	}

	return &domain.PresignedUpload{
		UploadURL: req.URL,
		FileName:  generated,
		FilePath:  filePath,
	}, nil
}

// List returns every object path under the candidate's prefix.
func (s *DocumentStore) List(ctx context.Context, candidateID int64) ([]string, error) {
	prefix := fmt.Sprintf("candidates/%d/", candidateID)

	var paths []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects for candidate %d: %w", candidateID, err)
		}
		for _, obj := range page.Contents {
			paths = append(paths, aws.ToString(obj.Key))
		}
	}
	return paths, nil
}

func (s *DocumentStore) Stat(ctx context.Context, filePath string) (*domain.FileStat, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(filePath),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to stat object %s: %w", filePath, err)
	}

	return &domain.FileStat{
		Size:         aws.ToInt64(out.ContentLength),
		ContentType:  aws.ToString(out.ContentType),
		Etag:         strings.Trim(aws.ToString(out.ETag), `"`),
		LastModified: aws.ToTime(out.LastModified),
	}, nil
}
