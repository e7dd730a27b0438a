package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"hotornot/internal/config"
)

var ErrObjectNotFound = errors.New("object not found")

type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectStore reads image assets from an S3 compatible bucket.
type ObjectStore struct {
	client *minio.Client
	cfg    config.StorageConfig
	secure bool
	host   string
}

func NewObjectStore(cfg config.StorageConfig) (*ObjectStore, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("storage endpoint is not configured")
	}
	host, secure, err := splitEndpoint(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &ObjectStore{
		client: client,
		cfg:    cfg,
		secure: secure,
		host:   host,
	}, nil
}

func (s *ObjectStore) Bucket() string {
	return s.cfg.Bucket
}

func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", s.cfg.Bucket, err)
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", s.cfg.Bucket)
	}
	return nil
}

// List returns every object under prefix, keys relative to the bucket.
func (s *ObjectStore) List(ctx context.Context, prefix string) ([]Object, error) {
	var out []Object
	for info := range s.client.ListObjects(ctx, s.cfg.Bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if info.Err != nil {
			return nil, fmt.Errorf("list %s/%s: %w", s.cfg.Bucket, prefix, info.Err)
		}
		out = append(out, Object{Key: info.Key, Size: info.Size, LastModified: info.LastModified})
	}
	return out, nil
}

func (s *ObjectStore) Read(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.cfg.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

func (s *ObjectStore) PublicURL(key string) string {
	return PublicURL(s.cfg.PublicBaseURL, s.secure, s.host, s.cfg.Bucket, key)
}

// PublicURL joins key onto base, or onto the path-style bucket URL when no
// base is configured.
func PublicURL(base string, secure bool, host, bucket, key string) string {
	escaped := escapeKey(key)
	if base != "" {
		return strings.TrimRight(base, "/") + "/" + escaped
	}
	scheme := "http"
	if secure {
		scheme = "https"
	}
	return scheme + "://" + host + "/" + path.Join(bucket, escaped)
}

func escapeKey(key string) string {
	parts := strings.Split(strings.TrimLeft(key, "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

func splitEndpoint(endpoint string, useSSL bool) (string, bool, error) {
	if !strings.HasPrefix(endpoint, "http") {
		return endpoint, useSSL, nil
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("parse endpoint: %w", err)
	}
	return u.Host, u.Scheme == "https", nil
}
