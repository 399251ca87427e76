package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/mindbalance/internal/common"
	"github.com/dmitrijs2005/mindbalance/internal/server/config"
	"github.com/google/uuid"
)

const (
	uploadURLValidity = 15 * time.Minute
	// S3 caps presigned URLs at seven days.
	photoURLValidity = 7 * 24 * time.Hour
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

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

	timeNow = time.Now
)

// UploadTarget tells the client where to PUT a photo and where it will be
// readable afterwards.
type UploadTarget struct {
	Key       string
	UploadURL string
	PublicURL string
}

// AssetService hands out presigned photo upload slots on S3-compatible
// storage.
type AssetService struct {
	config *config.Config
}

func NewAssetService(cfg *config.Config) *AssetService {
	return &AssetService{config: cfg}
}

// StorageKey returns a fresh object key under the user's prefix.
func StorageKey(userID string, at time.Time) string {
	return fmt.Sprintf("users/%s/%d/%02d/%02d/%s", userID, at.Year(), at.Month(), at.Day(), uuid.New())
}

func (s *AssetService) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})
	return newS3PresignClient(client), nil
}

// UploadURL validates preset and returns an upload slot for userID.
func (s *AssetService) UploadURL(ctx context.Context, userID, preset, contentType string) (*UploadTarget, error) {
	if preset != s.config.UploadPreset {
		return nil, common.ErrorIncorrectMetadata
	}
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return nil, common.ErrorIncorrectMetadata
	}

	pc, err := s.presignClient(ctx)
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	key := StorageKey(userID, timeNow())

	in := &s3.PutObjectInput{Bucket: &bucket, Key: &key}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	put, err := presignPutObject(pc, ctx, in, s3.WithPresignExpires(uploadURLValidity))
	if err != nil {
		return nil, fmt.Errorf("presign put: %w", err)
	}

	public, err := s.publicURL(ctx, pc, key)
	if err != nil {
		return nil, err
	}
	return &UploadTarget{Key: key, UploadURL: put.URL, PublicURL: public}, nil
}

func (s *AssetService) publicURL(ctx context.Context, pc *s3.PresignClient, key string) (string, error) {
	if base := strings.TrimRight(s.config.S3PublicBaseURL, "/"); base != "" {
		return base + "/" + key, nil
	}

	bucket := s.config.S3Bucket
	get, err := presignGetObject(pc, ctx, &s3.GetObjectInput{Bucket: &bucket, Key: &key}, s3.WithPresignExpires(photoURLValidity))
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}
	return get.URL, nil
}
