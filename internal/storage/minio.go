package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"skaplSite/internal/config"
)

// ResumeURLTTL is how long signed resume links stay valid. Seven days is the
// longest S3-compatible presign allows; expired links are regenerated from
// the stored object key by the admin listing.
const ResumeURLTTL = 7 * 24 * time.Hour

// Client wraps MinIO with the small surface the site needs: upload a resume,
// sign a download link, delete an object.
type Client struct {
	internalClient *minio.Client
	publicClient   *minio.Client
	bucketName     string
}

// NewClient initializes the MinIO clients from cfg and ensures the target bucket exists.
func NewClient(cfg config.MinIOConfig) (*Client, error) {
	bucketLookup := minio.BucketLookupAuto
	switch strings.ToLower(strings.TrimSpace(cfg.BucketLookup)) {
	case "", "auto":
		bucketLookup = minio.BucketLookupAuto
	case "dns":
		bucketLookup = minio.BucketLookupDNS
	case "path":
		bucketLookup = minio.BucketLookupPath
	default:
		return nil, fmt.Errorf("invalid minio bucket lookup %q", cfg.BucketLookup)
	}

	internalClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure:       cfg.UseSSL,
		Region:       cfg.Region,
		BucketLookup: bucketLookup,
	})
	if err != nil {
		return nil, fmt.Errorf("init internal minio client: %w", err)
	}

	parsedPublicEndpoint, err := url.Parse(cfg.PublicEndpoint)
	if err != nil {
		return nil, fmt.Errorf("parse minio public endpoint: %w", err)
	}

	publicHost := parsedPublicEndpoint.Host
	if publicHost == "" {
		return nil, fmt.Errorf("invalid minio public endpoint, host missing")
	}

	publicClient, err := minio.New(publicHost, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure:       parsedPublicEndpoint.Scheme == "https",
		Region:       cfg.Region,
		BucketLookup: bucketLookup,
	})
	if err != nil {
		return nil, fmt.Errorf("init public minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := internalClient.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if !cfg.AutoCreateBucket {
			return nil, fmt.Errorf("bucket %q does not exist (auto create disabled)", cfg.Bucket)
		}
		if err := internalClient.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("make bucket %q: %w", cfg.Bucket, err)
		}
	}

	return &Client{
		internalClient: internalClient,
		publicClient:   publicClient,
		bucketName:     cfg.Bucket,
	}, nil
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// ResumeObjectKey derives a collision-resistant object key from the applicant
// name, an upload timestamp and the original file extension, e.g.
// "resumes/Jane_Doe_1719475200000.pdf".
func ResumeObjectKey(applicantName, originalFilename string, uploadedAt time.Time) string {
	sanitized := strings.Trim(unsafeNameChars.ReplaceAllString(applicantName, "_"), "_")
	if sanitized == "" {
		sanitized = "applicant"
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(originalFilename), "."))
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("resumes/%s_%d.%s", sanitized, uploadedAt.UnixMilli(), ext)
}

// UploadResume stores the resume bytes under objectKey and returns a signed
// download URL valid for ResumeURLTTL.
func (c *Client) UploadResume(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) (string, error) {
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := c.internalClient.PutObject(ctx, c.bucketName, objectKey, reader, size, opts); err != nil {
		// The bucket existed at startup; losing it mid-flight is an operator
		// action worth calling out over a generic put failure.
		if IsNoSuchBucket(err) {
			return "", fmt.Errorf("bucket %q no longer exists: %w", c.bucketName, err)
		}
		return "", fmt.Errorf("put object %q: %w", objectKey, err)
	}
	return c.GeneratePresignedURL(ctx, objectKey, ResumeURLTTL)
}

// GeneratePresignedURL signs a time-limited download link for objectKey.
func (c *Client) GeneratePresignedURL(ctx context.Context, objectKey string, duration time.Duration) (string, error) {
	presignedURL, err := c.publicClient.PresignedGetObject(ctx, c.bucketName, objectKey, duration, nil)
	if err != nil {
		return "", fmt.Errorf("generate presigned url for %q: %w", objectKey, err)
	}
	return presignedURL.String(), nil
}

// DeleteObject removes objectKey. A missing object counts as success.
func (c *Client) DeleteObject(ctx context.Context, objectKey string) error {
	objectKey = strings.TrimSpace(objectKey)
	if objectKey == "" {
		return nil
	}
	if err := c.internalClient.RemoveObject(ctx, c.bucketName, objectKey, minio.RemoveObjectOptions{}); err != nil {
		if IsNoSuchKey(err) {
			return nil
		}
		return fmt.Errorf("remove object %q: %w", objectKey, err)
	}
	return nil
}
