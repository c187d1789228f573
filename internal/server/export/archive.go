package export

import (
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	sc "github.com/dmitrijs2005/techreport/internal/server/config"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	uploadObject = func(ctx context.Context, client *s3.Client, in *s3.PutObjectInput) error {
		_, err := manager.NewUploader(client).Upload(ctx, in)
		return err
	}
)

// S3Archiver copies finished exports into an S3-compatible bucket.
type S3Archiver struct {
	config *sc.Config
	client *s3.Client
	now    func() time.Time
}

// NewS3Archiver builds a client for the configured endpoint with static
// credentials. Path-style addressing keeps MinIO happy.
func NewS3Archiver(ctx context.Context, cfg *sc.Config) (*S3Archiver, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Archiver{config: cfg, client: client, now: time.Now}, nil
}

// ArchiveKey returns a fresh object key under exports/YYYY/MM/DD/.
func ArchiveKey(t time.Time) string {
	return path.Join("exports", t.Format("2006/01/02"), uuid.NewString()+".xlsx")
}

// Archive uploads the file at filePath and returns its object key.
func (a *S3Archiver) Archive(ctx context.Context, filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open export: %w", err)
	}
	defer f.Close()

	key := ArchiveKey(a.now())
	err = uploadObject(ctx, a.client, &s3.PutObjectInput{
		Bucket:      aws.String(a.config.S3Bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, nil
}
