package oss

import (
	"context"
	"fmt"

	"VidTube.com/cmd/model"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const location = "us-east-1" // MinIO默认区域

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type MinioStore struct {
	client *minio.Client
	bucket string
}

func NewMinioStore(ctx context.Context, cfg MinioConfig) (*MinioStore, error) {
	hlog.Infof("Initializing MinIO client with endpoint: %s, bucket: %s", cfg.Endpoint, cfg.Bucket)
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	// 检查存储桶是否存在，不存在则创建
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket error: %w", err)
	}
	if !exists {
		if err = client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: location}); err != nil {
			return nil, fmt.Errorf("create bucket error: %w", err)
		}
	}
	hlog.Info("Connect Minio Success")
	return &MinioStore{client: client, bucket: cfg.Bucket}, nil
}

func (s *MinioStore) Upload(ctx context.Context, localPath, contentType string) (*model.Blob, error) {
	name, err := objectName(uuid.NewString(), contentType)
	if err != nil {
		return nil, err
	}
	if _, err = s.client.FPutObject(ctx, s.bucket, name, localPath, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return nil, fmt.Errorf("upload %s: %w", localPath, err)
	}
	return &model.Blob{
		ID:  name,
		URL: fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, name),
	}, nil
}

func (s *MinioStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.client.RemoveObject(ctx, s.bucket, id, minio.RemoveObjectOptions{})
}
