package attachments

import (
	appconfig "alumnihub/backend/internal/config"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testS3 = appconfig.S3Config{
	Bucket:    "alumni",
	Region:    "us-east-1",
	Endpoint:  "http://127.0.0.1:9000",
	AccessKey: "minioadmin",
	SecretKey: "minioadmin",
}

func restoreSeams(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPut := presignPutObject
	origGet := presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
		presignGetObject = origGet
	})
}

func TestNewPresigner_Disabled(t *testing.T) {
	_, err := NewPresigner(context.Background(), appconfig.S3Config{})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestNewPresigner_AppliesOptions(t *testing.T) {
	restoreSeams(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		var lo config.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		return aws.Config{Region: lo.Region}, nil
	}
	var applied s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&applied)
		}
		return s3.NewFromConfig(cfg, optFns...)
	}

	p, err := NewPresigner(context.Background(), testS3)

	require.NoError(t, err)
	assert.NotNil(t, p.client)
	require.NotNil(t, applied.BaseEndpoint)
	assert.Equal(t, testS3.Endpoint, *applied.BaseEndpoint)
	assert.True(t, applied.UsePathStyle)
}

func TestNewPresigner_LoadError(t *testing.T) {
	restoreSeams(t)
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	_, err := NewPresigner(context.Background(), testS3)

	assert.ErrorContains(t, err, "no config")
}

func TestPresigner_PutURL(t *testing.T) {
	restoreSeams(t)
	var got *s3.PutObjectInput
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		got = in
		return &v4.PresignedHTTPRequest{URL: "https://s3.local/" + *in.Key}, nil
	}
	now := time.Date(2024, 7, 9, 0, 0, 0, 0, time.UTC)
	p := &Presigner{bucket: "alumni", expiry: appconfig.PresignExpiry, now: func() time.Time { return now }}

	up, err := p.PutURL(context.Background(), "mentorships/req-1", "../../Report.PDF")

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alumni", *got.Bucket)
	assert.Equal(t, "application/pdf", *got.ContentType)
	assert.True(t, strings.HasPrefix(up.Key, "mentorships/req-1/2024/07/"), up.Key)
	assert.True(t, strings.HasSuffix(up.Key, ".pdf"), up.Key)
	assert.Equal(t, "Report.PDF", up.FileName)
	assert.Equal(t, "https://s3.local/"+up.Key, up.URL)
	assert.Equal(t, now.Add(appconfig.PresignExpiry), up.ExpiresAt)
}

func TestPresigner_GetURLError(t *testing.T) {
	restoreSeams(t)
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("boom")
	}
	p := &Presigner{bucket: "alumni", expiry: time.Minute, now: time.Now}

	_, err := p.GetURL(context.Background(), "k")

	assert.ErrorContains(t, err, "boom")
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", ContentType("a.PNG"))
	assert.Equal(t, "application/octet-stream", ContentType("README"))
}
