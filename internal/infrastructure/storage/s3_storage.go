// Package storage provides object storage backends for rendered quote PDFs.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"github.com/gpoi/quoteservice/internal/domain/shared"
	infraconfig "github.com/gpoi/quoteservice/internal/infrastructure/config"
	"github.com/gpoi/quoteservice/internal/infrastructure/printing"
)

// Ensure S3Storage implements PDFStorage
var _ printing.PDFStorage = (*S3Storage)(nil)

const pdfContentType = "application/pdf"

// S3Storage keeps rendered PDFs in an S3-compatible bucket (AWS S3, MinIO, RustFS, etc.)
type S3Storage struct {
	client            *s3.Client
	presignClient     *s3.PresignClient
	bucket            string
	prefix            string
	overwrite         bool
	presign           bool
	baseURL           string
	presignExpiration time.Duration
	logger            *zap.Logger
}

// S3StorageOption is a functional option for configuring S3Storage
type S3StorageOption func(*S3Storage)

// WithLogger sets a custom logger for S3Storage
func WithLogger(logger *zap.Logger) S3StorageOption {
	return func(s *S3Storage) {
		s.logger = logger
	}
}

// WithPresignExpiration sets a custom presign expiration duration
func WithPresignExpiration(d time.Duration) S3StorageOption {
	return func(s *S3Storage) {
		s.presignExpiration = d
	}
}

// WithBaseURL sets the URL prefix returned by GetURL when presigning is off,
// typically <public_url>/files so downloads go through the service.
func WithBaseURL(baseURL string) S3StorageOption {
	return func(s *S3Storage) {
		s.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// NewS3Storage creates a new S3Storage from configuration.
func NewS3Storage(cfg *infraconfig.StorageConfig, opts ...S3StorageOption) (*S3Storage, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}

	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "http://localhost:9000"
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if cfg.UseSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid storage endpoint: %w", err)
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		o.BaseEndpoint = aws.String(endpoint)
	})

	storage := &S3Storage{
		client:            client,
		presignClient:     s3.NewPresignClient(client),
		bucket:            cfg.Bucket,
		prefix:            normalizePrefix(cfg.Prefix),
		overwrite:         cfg.Overwrite,
		presign:           cfg.Presign,
		baseURL:           "/files",
		presignExpiration: cfg.PresignExpiration,
		logger:            zap.NewNop(),
	}

	for _, opt := range opts {
		opt(storage)
	}

	if storage.presignExpiration == 0 {
		storage.presignExpiration = 15 * time.Minute
	}

	return storage, nil
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

// EnsureBucket creates the bucket if it doesn't exist.
// Call this during application startup to ensure the bucket is ready.
func (s *S3Storage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating storage bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		// Lost a creation race with another instance
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	s.logger.Info("Storage bucket created successfully", zap.String("bucket", s.bucket))
	return nil
}

// Store uploads the PDF under <prefix><sanitized-folio>.pdf.
// With overwrite disabled an existing object is a CONFLICT.
func (s *S3Storage) Store(ctx context.Context, req *printing.StoreRequest) (*printing.StoreResult, error) {
	if req == nil {
		return nil, printing.NewStorageError(printing.ErrCodeStorageFailed, "store request is nil", nil)
	}
	if strings.TrimSpace(req.Folio) == "" {
		return nil, printing.NewStorageError(printing.ErrCodeStorageFailed, "folio is required", nil)
	}
	if len(req.PDFData) == 0 {
		return nil, printing.NewStorageError(printing.ErrCodeStorageFailed, "PDF data is empty", nil)
	}

	fileName := printing.FileNameForFolio(req.Folio)
	key := s.key(fileName)

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(req.PDFData),
		ContentType:   aws.String(pdfContentType),
		ContentLength: aws.Int64(int64(len(req.PDFData))),
	}
	if !s.overwrite {
		// Conditional write: the bucket refuses the PUT when the key exists.
		input.IfNoneMatch = aws.String("*")
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		if !s.overwrite && isPreconditionFailed(err) {
			return nil, printing.NewStorageError(shared.CodeConflict, "a PDF named "+fileName+" already exists", err)
		}
		return nil, printing.NewStorageError(printing.ErrCodeStorageFailed, "failed to upload PDF", err)
	}

	pdfURL := s.GetURL(fileName)

	s.logger.Info("PDF stored",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int("size", len(req.PDFData)))

	return &printing.StoreResult{
		FileName: fileName,
		URL:      pdfURL,
		Size:     int64(len(req.PDFData)),
	}, nil
}

// Get streams a stored PDF from the bucket
func (s *S3Storage) Get(ctx context.Context, fileName string) (*printing.StoredPDF, error) {
	if !printing.ValidFileName(fileName) {
		return nil, printing.NewStorageError(shared.CodeNotFound, "PDF "+fileName+" not found", nil)
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(fileName)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, printing.NewStorageError(shared.CodeNotFound, "PDF "+fileName+" not found", err)
		}
		return nil, printing.NewStorageError(printing.ErrCodeStorageFailed, "failed to download PDF", err)
	}

	stored := &printing.StoredPDF{
		FileName: fileName,
		Body:     out.Body,
		Size:     aws.ToInt64(out.ContentLength),
	}
	if out.LastModified != nil {
		stored.ModTime = *out.LastModified
	}
	return stored, nil
}

// CleanupOlderThan deletes PDFs under the prefix last modified before now-age
func (s *S3Storage) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := time.Now().Add(-age)
	deleted := 0

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return deleted, printing.NewStorageError(printing.ErrCodeStorageFailed, "failed to list PDFs", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !strings.HasSuffix(key, ".pdf") || obj.LastModified == nil || !obj.LastModified.Before(cutoff) {
				continue
			}
			if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    aws.String(key),
			}); err != nil {
				s.logger.Warn("failed to delete old PDF", zap.String("key", key), zap.Error(err))
				continue
			}
			deleted++
			s.logger.Debug("deleted old PDF", zap.String("key", key))
		}
	}

	s.logger.Info("cleanup completed",
		zap.Int("deleted", deleted),
		zap.Duration("age", age))

	return deleted, nil
}

// GetURL returns the service download URL, or a presigned GET URL when
// presigning is enabled. A failed presign falls back to the service URL.
func (s *S3Storage) GetURL(fileName string) string {
	serviceURL := s.baseURL + "/" + url.PathEscape(fileName)
	if !s.presign {
		return serviceURL
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	presignReq, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket:                     aws.String(s.bucket),
		Key:                        aws.String(s.key(fileName)),
		ResponseContentType:        aws.String(pdfContentType),
		ResponseContentDisposition: aws.String("inline; filename=" + fileName),
	}, s3.WithPresignExpires(s.presignExpiration))
	if err != nil {
		s.logger.Warn("failed to presign PDF URL", zap.String("file", fileName), zap.Error(err))
		return serviceURL
	}
	return presignReq.URL
}

// GetBucket returns the bucket name
func (s *S3Storage) GetBucket() string {
	return s.bucket
}

func (s *S3Storage) key(fileName string) string {
	return s.prefix + fileName
}

// isPreconditionFailed reports a conditional write that lost to an existing
// object. Concurrent conditional writes may also answer 409.
func isPreconditionFailed(err error) bool {
	var respErr *awshttp.ResponseError
	if !errors.As(err, &respErr) {
		return false
	}
	switch respErr.HTTPStatusCode() {
	case http.StatusPreconditionFailed, http.StatusConflict:
		return true
	}
	return false
}

// isNotFound recognises missing objects across S3-compatible services,
// some of which only report the HTTP status
func isNotFound(err error) bool {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
		return true
	}
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound {
		return true
	}
	return strings.Contains(err.Error(), "NotFound") || strings.Contains(err.Error(), "NoSuchKey")
}
