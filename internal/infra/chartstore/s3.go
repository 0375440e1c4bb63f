package chartstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/soulsync/soulsync/internal/domain/kundali"
)

// chartDownloadLimit bounds how much of an upstream chart image is read.
const chartDownloadLimit = 8 << 20

// S3Store archives chart images in S3-compatible object storage. Upstream
// chart URLs expire, so a durable copy is kept per (name, date).
type S3Store struct {
	client     *minio.Client
	bucket     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewS3Store constructs the archive store.
func NewS3Store(endpoint, accessKey, secretKey, bucket, region string, logger *slog.Logger) (*S3Store, error) {
	cleanEndpoint := sanitizeEndpoint(endpoint)
	useSSL := strings.HasPrefix(strings.ToLower(endpoint), "https")
	client, err := minio.New(cleanEndpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       useSSL,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init chart archive client: %w", err)
	}
	return &S3Store{
		client:     client,
		bucket:     bucket,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger.With("component", "chartstore.s3"),
	}, nil
}

func (s *S3Store) ensureBucket(ctx context.Context) error {
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

// Archive downloads the chart image and stores it under charts/{name}/{date}.png.
func (s *S3Store) Archive(ctx context.Context, name, date, chartURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, chartURL, nil)
	if err != nil {
		return "", fmt.Errorf("build chart download request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download chart: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("download chart: status=%d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, chartDownloadLimit))
	if err != nil {
		return "", fmt.Errorf("read chart image: %w", err)
	}

	if err := s.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure chart bucket: %w", err)
	}

	key := objectKey(name, date)
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:      contentType,
		DisableMultipart: true,
	})
	if err != nil {
		return "", fmt.Errorf("store chart image: %w", err)
	}
	s.logger.Info("chart archived", "key", key, "bytes", len(data))
	return key, nil
}

func objectKey(name, date string) string {
	clean := strings.ToLower(strings.Join(strings.Fields(name), "-"))
	if clean == "" {
		clean = "unnamed"
	}
	return fmt.Sprintf("charts/%s/%s.png", clean, date)
}

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if idx := strings.Index(raw, "/"); idx >= 0 {
		raw = raw[:idx]
	}
	return raw
}

var _ kundali.ChartArchive = (*S3Store)(nil)
