package db

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"
	"github.com/techagentng/citypulse/config"
)

// MediaRepository stores report images and resolves their public URLs
type MediaRepository interface {
	UploadImage(ctx context.Context, key string, data []byte, contentType string) (string, error)
	PublicURL(key string) string
}

type s3MediaRepo struct {
	client        *s3.Client
	bucket        string
	region        string
	publicBaseURL string
}

func NewMediaRepo(c *config.Config) (MediaRepository, error) {
	client, err := createS3Client(c)
	if err != nil {
		return nil, err
	}
	return &s3MediaRepo{
		client:        client,
		bucket:        c.AWSBucket,
		region:        c.AWSRegion,
		publicBaseURL: c.PublicBaseURL,
	}, nil
}

func createS3Client(c *config.Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(c.AWSRegion),
	}
	if c.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.AWSAccessKeyID,
			c.AWSSecretAccessKey,
			"",
		)))
	}
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(), opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config, %v", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.AWSEndpoint != "" {
			o.BaseEndpoint = aws.String(c.AWSEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func (m *s3MediaRepo) UploadImage(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
		ACL:    types.ObjectCannedACLPublicRead,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := m.client.PutObject(ctx, input); err != nil {
		log.Printf("error uploading %s to bucket %s: %v", key, m.bucket, err)
		return "", errors.Wrap(err, "failed to upload file to S3")
	}

	return m.PublicURL(key), nil
}

// PublicURL returns the address the object is served from once uploaded
func (m *s3MediaRepo) PublicURL(key string) string {
	if m.publicBaseURL != "" {
		return strings.TrimRight(m.publicBaseURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", m.bucket, m.region, key)
}
