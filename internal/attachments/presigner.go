// Package attachments hands out presigned S3 URLs so clients upload and
// download message files directly against the bucket.
package attachments

import (
	appconfig "alumnihub/backend/internal/config"
	"context"
	"errors"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ErrDisabled is returned when no bucket is configured.
var ErrDisabled = errors.New("attachments are not configured")

var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Upload is a presigned PUT the client performs itself.
type Upload struct {
	Key         string    `json:"fileKey"`
	URL         string    `json:"uploadUrl"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"fileType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type Presigner struct {
	client *s3.PresignClient
	bucket string
	expiry time.Duration
	now    func() time.Time
}

// NewPresigner builds the S3 presign client. A custom endpoint (MinIO)
// switches to path-style addressing.
func NewPresigner(ctx context.Context, cfg appconfig.S3Config) (*Presigner, error) {
	if !cfg.Enabled() {
		return nil, ErrDisabled
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Presigner{
		client: newS3PresignClient(client),
		bucket: cfg.Bucket,
		expiry: appconfig.PresignExpiry,
		now:    time.Now,
	}, nil
}

// StorageKey returns a fresh object key under prefix that keeps the file extension.
func StorageKey(prefix, fileName string, now time.Time) string {
	ext := strings.ToLower(path.Ext(path.Base(fileName)))
	return fmt.Sprintf("%s/%d/%02d/%s%s", strings.Trim(prefix, "/"), now.Year(), now.Month(), uuid.New(), ext)
}

// ContentType guesses the MIME type from the file name.
func ContentType(fileName string) string {
	if t := mime.TypeByExtension(strings.ToLower(path.Ext(fileName))); t != "" {
		return t
	}
	return "application/octet-stream"
}

func (p *Presigner) PutURL(ctx context.Context, prefix, fileName string) (*Upload, error) {
	now := p.now()
	key := StorageKey(prefix, fileName, now)
	contentType := ContentType(fileName)

	req, err := presignPutObject(p.client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(p.expiry))
	if err != nil {
		return nil, fmt.Errorf("presign put: %w", err)
	}

	return &Upload{
		Key:         key,
		URL:         req.URL,
		FileName:    path.Base(fileName),
		ContentType: contentType,
		ExpiresAt:   now.Add(p.expiry),
	}, nil
}

func (p *Presigner) GetURL(ctx context.Context, key string) (string, error) {
	req, err := presignGetObject(p.client, ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(p.expiry))
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}
	return req.URL, nil
}
