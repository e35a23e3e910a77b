package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	"hiring-compliance-backend/config"
)

// Provider stores generated compliance documents in object storage.
// Object keys are prefixed with the organization id so one bucket can
// serve every tenant.
type Provider interface {
	EnsureBucket(ctx context.Context) error
	Upload(ctx context.Context, orgID, storageKey string, data []byte, contentType string) error
	Download(ctx context.Context, orgID, storageKey string) ([]byte, error)
}

var Instance Provider

func NewInstance(s3client *minio.Client) {
	Instance = &impl{
		s3client:   s3client,
		bucketName: config.Conf.S3.BucketName,
	}
}

type impl struct {
	s3client   *minio.Client
	bucketName string
}

func (i impl) EnsureBucket(ctx context.Context) error {
	location := "us-east-1"
	exists, err := i.s3client.BucketExists(ctx, i.bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return i.s3client.MakeBucket(ctx, i.bucketName, minio.MakeBucketOptions{Region: location})
}

func (i impl) Upload(ctx context.Context, orgID, storageKey string, data []byte, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := i.s3client.PutObject(ctx, i.bucketName, i.objectName(orgID, storageKey),
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrap(err, "document upload failed")
	}
	return nil
}

func (i impl) Download(ctx context.Context, orgID, storageKey string) ([]byte, error) {
	object, err := i.s3client.GetObject(ctx, i.bucketName, i.objectName(orgID, storageKey), minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "document download failed")
	}
	defer object.Close()
	data, err := io.ReadAll(object)
	if err != nil {
		return nil, errors.Wrap(err, "document read failed")
	}
	return data, nil
}

func (i impl) objectName(orgID, storageKey string) string {
	return fmt.Sprintf("%s/%s", orgID, storageKey)
}
