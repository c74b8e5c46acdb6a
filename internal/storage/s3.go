package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const keyTimeFormat = "20060102150405"

// Config holds the S3 bucket settings for profile image storage.
type Config struct {
	Bucket    string
	Region    string
	KeyPrefix string
}

// objectClient is the slice of the S3 API the bucket uses.
type objectClient interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Bucket stores profile images as S3 objects addressed by public URL.
type S3Bucket struct {
	client objectClient
	cfg    Config
}

// NewS3Bucket creates an S3Bucket backed by the given client.
func NewS3Bucket(client *s3.Client, cfg Config) *S3Bucket {
	return &S3Bucket{client: client, cfg: cfg}
}

// Upload stores content under a fresh object key and returns the object URL.
func (b *S3Bucket) Upload(ctx context.Context, content []byte, filename string) (string, error) {
	key := objectKey(b.cfg.KeyPrefix, filename, time.Now())

	input := &s3.PutObjectInput{
		Bucket: aws.String(b.cfg.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(content),
	}
	if contentType := mime.TypeByExtension(path.Ext(filename)); contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := b.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put object %q: %w", key, err)
	}
	return objectURL(b.cfg.Bucket, b.cfg.Region, key), nil
}

// Delete removes the object addressed by a URL previously returned by Upload.
func (b *S3Bucket) Delete(ctx context.Context, objectURL string) error {
	key, err := extractKey(objectURL)
	if err != nil {
		return err
	}

	_, err = b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %q: %w", key, err)
	}
	return nil
}

// objectKey builds a collision-free key: the original filename alone is not
// unique across users.
func objectKey(prefix, filename string, now time.Time) string {
	return fmt.Sprintf("%s-%s-%s%s",
		prefix, now.Format(keyTimeFormat), uuid.NewString(), path.Ext(filename))
}

func objectURL(bucket, region, key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, url.PathEscape(key))
}

func extractKey(objectURL string) (string, error) {
	idx := strings.LastIndex(objectURL, "/")
	if idx < 0 || idx == len(objectURL)-1 {
		return "", fmt.Errorf("no object key in url %q", objectURL)
	}
	key, err := url.PathUnescape(objectURL[idx+1:])
	if err != nil {
		return "", fmt.Errorf("decode object key from url %q: %w", objectURL, err)
	}
	return key, nil
}
