package storage

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const applicationPrefix = "applications"

// Bucket stores application attachments in one object storage bucket.
type Bucket struct {
	client *minio.Client
	name   string
	expiry time.Duration
}

type Options struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PresignExpiry time.Duration
}

func NewBucket(opts Options) (*Bucket, error) {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true,
		},
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure:    opts.UseSSL,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to object storage: %w", err)
	}

	expiry := opts.PresignExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &Bucket{client: client, name: opts.Bucket, expiry: expiry}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (b *Bucket) EnsureBucket(ctx context.Context) error {
	exists, err := b.client.BucketExists(ctx, b.name)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", b.name, err)
	}
	if exists {
		log.Printf("[storage] bucket already exists: %s", b.name)
		return nil
	}
	if err := b.client.MakeBucket(ctx, b.name, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", b.name, err)
	}
	log.Printf("[storage] bucket created: %s", b.name)
	return nil
}

// Upload stores r under the application's prefix and returns the object key.
func (b *Bucket) Upload(ctx context.Context, applicationID, filename string, r io.Reader, size int64, contentType string) (string, error) {
	key := ObjectKey(applicationID, filename)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := b.client.PutObject(ctx, b.name, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, nil
}

// PresignedURL returns a time-limited download link for key.
func (b *Bucket) PresignedURL(ctx context.Context, key string) (string, error) {
	u, err := b.client.PresignedGetObject(ctx, b.name, key, b.expiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return u.String(), nil
}

// RemoveApplication deletes every object stored for an application.
func (b *Bucket) RemoveApplication(ctx context.Context, applicationID string) error {
	prefix := ObjectPrefix(applicationID)
	objects := make(chan minio.ObjectInfo)

	go forwardObjects(ctx, prefix, b.client.ListObjects(ctx, b.name, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}), objects)

	var firstErr error
	for res := range b.client.RemoveObjects(ctx, b.name, objects, minio.RemoveObjectsOptions{}) {
		if res.Err != nil && firstErr == nil {
			firstErr = fmt.Errorf("remove %s: %w", res.ObjectName, res.Err)
		}
	}
	return firstErr
}

// forwardObjects copies listed objects to out until the listing ends, fails
// or ctx is cancelled, then closes out.
func forwardObjects(ctx context.Context, prefix string, in <-chan minio.ObjectInfo, out chan<- minio.ObjectInfo) {
	defer close(out)
	for obj := range in {
		if obj.Err != nil {
			log.Printf("[storage] list %s: %v", prefix, obj.Err)
			return
		}
		select {
		case out <- obj:
		case <-ctx.Done():
			return
		}
	}
}

// RemoveObject deletes a single stored file.
func (b *Bucket) RemoveObject(ctx context.Context, key string) error {
	return b.client.RemoveObject(ctx, b.name, key, minio.RemoveObjectOptions{})
}

// ObjectPrefix is the folder holding one application's files.
func ObjectPrefix(applicationID string) string {
	return applicationPrefix + "/" + applicationID + "/"
}

// ObjectKey places a file under the application prefix, dropping any
// directory components from the client supplied name.
func ObjectKey(applicationID, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == ".." || name == "" {
		name = "attachment"
	}
	return ObjectPrefix(applicationID) + name
}
