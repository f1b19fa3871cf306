package audiostore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/nyayasetu/internal/domain/speech"
)

const expiresMetaKey = "Expires-At"

// R2Storage stores artifacts in Cloudflare R2 (or any S3 endpoint). Objects
// carry their expiry in user metadata; a bucket lifecycle rule should remove
// them for good.
type R2Storage struct {
	client *minio.Client
	bucket string
	prefix string
	logger *slog.Logger
}

// NewR2Storage constructs the storage adapter.
func NewR2Storage(endpoint, accessKey, secretKey, bucket, region, prefix string, logger *slog.Logger) (*R2Storage, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cleanEndpoint := sanitizeEndpoint(endpoint)
	useSSL := !strings.HasPrefix(strings.ToLower(strings.TrimSpace(endpoint)), "http://")
	client, err := minio.New(cleanEndpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       useSSL,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init r2 client: %w", err)
	}
	return &R2Storage{client: client, bucket: bucket, prefix: prefix, logger: logger.With("component", "audiostore.r2")}, nil
}

// EnsureBucket creates the bucket when it is missing.
func (s *R2Storage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err == nil && exists {
		return nil
	}
	err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
		return err
	}
	return nil
}

// Put uploads the artifact.
func (s *R2Storage) Put(ctx context.Context, artifact speech.Artifact) error {
	opts := minio.PutObjectOptions{
		ContentType:      artifact.ContentType,
		DisableMultipart: true,
	}
	if !artifact.ExpiresAt.IsZero() {
		opts.Expires = artifact.ExpiresAt
		opts.UserMetadata = map[string]string{expiresMetaKey: artifact.ExpiresAt.UTC().Format(time.RFC3339)}
	}
	_, err := s.client.PutObject(ctx, s.bucket, s.key(artifact.ID), bytes.NewReader(artifact.Data), int64(len(artifact.Data)), opts)
	return err
}

// Get downloads a live artifact.
func (s *R2Storage) Get(ctx context.Context, id string) (speech.Artifact, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key(id), minio.GetObjectOptions{})
	if err != nil {
		return speech.Artifact{}, err
	}
	defer obj.Close()
	info, err := obj.Stat()
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return speech.Artifact{}, speech.ErrArtifactNotFound
		}
		return speech.Artifact{}, err
	}
	expires := parseExpiry(info.UserMetadata[expiresMetaKey])
	if !expires.IsZero() && time.Now().After(expires) {
		return speech.Artifact{}, speech.ErrArtifactNotFound
	}
	data, err := io.ReadAll(obj)
	if err != nil {
		return speech.Artifact{}, err
	}
	return speech.Artifact{ID: id, ContentType: info.ContentType, Data: data, ExpiresAt: expires}, nil
}

func (s *R2Storage) key(id string) string {
	return s.prefix + id + ".mp3"
}

func parseExpiry(raw string) time.Time {
	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}
	}
	return ts
}

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if strings.Contains(raw, "/") {
		parts := strings.Split(raw, "/")
		raw = parts[0]
	}
	return raw
}

var _ speech.AudioStorage = (*R2Storage)(nil)
