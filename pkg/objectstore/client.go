// Package objectstore constructs an S3 client against an S3-compatible
// endpoint (MinIO in development, any S3 API in production).
package objectstore

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ClientConfig holds connection settings for the object store.
type ClientConfig struct {
	Endpoint  string
	Port      string
	UseSSL    bool
	AccessKey string
	SecretKey string
	Region    string
}

// BaseEndpoint renders the endpoint URL the SDK should target.
func (c ClientConfig) BaseEndpoint() string {
	scheme := "http"
	if c.UseSSL {
		scheme = "https"
	}
	if c.Port != "" {
		return fmt.Sprintf("%s://%s:%s", scheme, c.Endpoint, c.Port)
	}
	return fmt.Sprintf("%s://%s", scheme, c.Endpoint)
}

// NewClient creates an S3 client with static credentials and path-style
// addressing. MinIO requires path-style; AWS accepts it.
func NewClient(ctx context.Context, cfg ClientConfig) (*s3.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.BaseEndpoint())
		o.UsePathStyle = true
	})

	return client, nil
}

// TestConnection checks bucket reachability by listing at most one object.
func TestConnection(ctx context.Context, client *s3.Client, bucket string) error {
	_, err := client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(bucket),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return fmt.Errorf("failed to access bucket %s: %w", bucket, err)
	}
	return nil
}
