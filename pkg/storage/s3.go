package storage

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

// ArchiveConfig holds S3 settings for the creative audit archive.
type ArchiveConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

// Archive keeps an audit copy of every managed-storage creative in S3,
// tagged with its blake2b checksum and Walrus blob id. Archiving is best
// effort: failures are logged, never surfaced to the uploading user.
type Archive struct {
	uploader *manager.Uploader
	cfg      ArchiveConfig
	logger   *zap.Logger
}

// NewArchive creates the S3 archive client using credentials from config or
// the environment (AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY).
func NewArchive(ctx context.Context, cfg ArchiveConfig, logger *zap.Logger) (*Archive, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	accessKey := cfg.AccessKeyID
	secretKey := cfg.SecretAccessKey
	if accessKey == "" || secretKey == "" {
		accessKey = os.Getenv("AWS_ACCESS_KEY_ID")
		secretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	}
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey, secretKey, "",
		)))
	} else {
		logger.Warn("creative archive using default AWS credential chain")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg)
	return &Archive{
		uploader: manager.NewUploader(client),
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// Checksum returns the hex blake2b-256 digest of the creative bytes.
func Checksum(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Store writes one creative copy under key with checksum and blob id in the
// object metadata. Returns the object's S3 URL.
func (a *Archive) Store(ctx context.Context, key, contentType string, data []byte, blobID string) (string, error) {
	checksum := Checksum(data)
	_, err := a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"checksum-blake2b": checksum,
			"walrus-blob-id":   blobID,
		},
	})
	if err != nil {
		return "", fmt.Errorf("archive upload: %w", err)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.cfg.Bucket, a.cfg.Region, key), nil
}
