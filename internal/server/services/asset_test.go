package services

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/mindbalance/internal/common"
	"github.com/dmitrijs2005/mindbalance/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assetConfig() *config.Config {
	return &config.Config{
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "mood-photos",
		UploadPreset:   common.UploadPreset,
	}
}

// offlineAWSConfig avoids reading the developer's shared AWS files.
func offlineAWSConfig(t *testing.T) {
	t.Helper()
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		return aws.Config{
			Region:      lo.Region,
			Credentials: credentials.NewStaticCredentialsProvider("minioadmin", "minioadmin", ""),
		}, nil
	}
}

func TestStorageKey(t *testing.T) {
	at := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	k := StorageKey("u1", at)
	assert.True(t, strings.HasPrefix(k, "users/u1/2025/03/07/"), k)
	assert.NotEqual(t, k, StorageKey("u1", at))
}

func TestUploadURL_PresignedGet(t *testing.T) {
	offlineAWSConfig(t)
	s := NewAssetService(assetConfig())

	target, err := s.UploadURL(context.Background(), "u1", "mood_tracker", "image/jpeg")
	require.NoError(t, err)

	put, err := url.Parse(target.UploadURL)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", put.Host)
	assert.True(t, strings.HasPrefix(put.Path, "/mood-photos/users/u1/"), put.Path)
	assert.NotEmpty(t, put.Query().Get("X-Amz-Signature"))

	get, err := url.Parse(target.PublicURL)
	require.NoError(t, err)
	assert.Equal(t, "/mood-photos/"+target.Key, get.Path)
	assert.Equal(t, "604800", get.Query().Get("X-Amz-Expires"))
}

func TestUploadURL_PublicBase(t *testing.T) {
	offlineAWSConfig(t)
	cfg := assetConfig()
	cfg.S3PublicBaseURL = "https://cdn.example.com/"
	s := NewAssetService(cfg)

	target, err := s.UploadURL(context.Background(), "u1", "mood_tracker", "")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/"+target.Key, target.PublicURL)
}

func TestUploadURL_RejectsPresetAndType(t *testing.T) {
	s := NewAssetService(assetConfig())

	_, err := s.UploadURL(context.Background(), "u1", "other", "")
	assert.ErrorIs(t, err, common.ErrorIncorrectMetadata)

	_, err = s.UploadURL(context.Background(), "u1", "mood_tracker", "application/pdf")
	assert.ErrorIs(t, err, common.ErrorIncorrectMetadata)
}

func TestUploadURL_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	_, err := NewAssetService(assetConfig()).UploadURL(context.Background(), "u1", "mood_tracker", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no config")
}

func TestUploadURL_PresignErrors(t *testing.T) {
	offlineAWSConfig(t)
	origPut, origGet := presignPutObject, presignGetObject
	t.Cleanup(func() { presignPutObject, presignGetObject = origPut, origGet })

	presignPutObject = func(*s3.PresignClient, context.Context, *s3.PutObjectInput, ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("put boom")
	}
	_, err := NewAssetService(assetConfig()).UploadURL(context.Background(), "u1", "mood_tracker", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "put boom")

	presignPutObject = origPut
	presignGetObject = func(*s3.PresignClient, context.Context, *s3.GetObjectInput, ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("get boom")
	}
	_, err = NewAssetService(assetConfig()).UploadURL(context.Background(), "u1", "mood_tracker", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get boom")
}
