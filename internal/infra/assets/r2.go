package assets

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	apperrors "github.com/yanqian/moonwatch/pkg/errors"
)

// R2Resolver hands out presigned GET URLs for objects in an S3 compatible
// bucket such as Cloudflare R2.
type R2Resolver struct {
	client *minio.Client
	bucket string
	ttl    time.Duration
	logger *slog.Logger
}

// NewR2Resolver constructs the resolver. Presigning is local, so no network
// call is made here.
func NewR2Resolver(endpoint, accessKey, secretKey, bucket, region string, ttl time.Duration, logger *slog.Logger) (*R2Resolver, error) {
	if logger == nil {
		logger = slog.Default()
	}
	client, err := minio.New(sanitizeEndpoint(endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       !strings.HasPrefix(strings.ToLower(strings.TrimSpace(endpoint)), "http://"),
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init r2 client: %w", err)
	}
	return &R2Resolver{client: client, bucket: bucket, ttl: ttl, logger: logger.With("component", "assets.r2")}, nil
}

// URL implements the resolver contract.
func (r *R2Resolver) URL(ctx context.Context, name string) (string, error) {
	key, err := cleanName(name)
	if err != nil {
		return "", err
	}
	u, err := r.client.PresignedGetObject(ctx, r.bucket, key, r.ttl, url.Values{})
	if err != nil {
		r.logger.Warn("presign asset failed", "key", key, "error", err)
		return "", apperrors.Wrap(apperrors.CodeAssetError, "failed to presign asset", err)
	}
	return u.String(), nil
}

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if i := strings.Index(raw, "/"); i >= 0 {
		raw = raw[:i]
	}
	return raw
}
