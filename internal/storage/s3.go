package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"mindconnect/config"
)

const MaxImageSize = 5 << 20

var (
	ErrEmptyFile     = errors.New("пустые данные файла")
	ErrNotAnImage    = errors.New("файл не является изображением")
	ErrFileTooLarge  = errors.New("файл превышает допустимый размер")
	ErrForeignObject = errors.New("файл не принадлежит хранилищу")
)

type S3Storage struct {
	client  *minio.Client
	bucket  string
	baseURL string
	logger  *zap.Logger
}

func NewS3Storage(cfg config.S3Config, logger *zap.Logger) (*S3Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации клиента S3: %w", err)
	}

	exists, err := client.BucketExists(context.Background(), cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("ошибка проверки существования бакета: %w", err)
	}

	if !exists {
		err = client.MakeBucket(context.Background(), cfg.Bucket, minio.MakeBucketOptions{
			Region: cfg.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("ошибка создания бакета: %w", err)
		}
		logger.Info("создан бакет для изображений", zap.String("bucket", cfg.Bucket))
	}

	return &S3Storage{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: BaseURL(cfg),
		logger:  logger,
	}, nil
}

func (s *S3Storage) UploadImage(ctx context.Context, data []byte, filename, folder string) (string, error) {
	contentType, ext, err := DetectImage(data, filename)
	if err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("%s/%s%s", strings.Trim(folder, "/"), uuid.New().String(), ext)

	_, err = s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("ошибка загрузки файла в S3: %w", err)
	}

	return s.baseURL + "/" + objectName, nil
}

// DeleteImage ignores URLs that point outside the bucket, such as placeholder
// images set by hand.
func (s *S3Storage) DeleteImage(ctx context.Context, fileURL string) error {
	objectName, err := ObjectName(s.baseURL, fileURL)
	if err != nil {
		if errors.Is(err, ErrForeignObject) {
			return nil
		}
		return err
	}

	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("ошибка удаления файла из S3: %w", err)
	}

	return nil
}

// DetectImage sniffs the content type and picks a file extension.
func DetectImage(data []byte, filename string) (contentType, ext string, err error) {
	if len(data) == 0 {
		return "", "", ErrEmptyFile
	}
	if len(data) > MaxImageSize {
		return "", "", ErrFileTooLarge
	}

	contentType = http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", "", ErrNotAnImage
	}

	ext = strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		switch contentType {
		case "image/jpeg":
			ext = ".jpg"
		case "image/png":
			ext = ".png"
		case "image/gif":
			ext = ".gif"
		case "image/webp":
			ext = ".webp"
		default:
			ext = ".bin"
		}
	}

	return contentType, ext, nil
}

// BaseURL is the public prefix of every object: virtual-hosted AWS style when
// no endpoint override is set, path style for MinIO and other gateways.
func BaseURL(cfg config.S3Config) string {
	if cfg.Endpoint == "" || strings.HasSuffix(cfg.Endpoint, "amazonaws.com") {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
}

func ObjectName(baseURL, fileURL string) (string, error) {
	if fileURL == "" {
		return "", errors.New("пустой URL файла")
	}
	prefix := baseURL + "/"
	if !strings.HasPrefix(fileURL, prefix) || len(fileURL) == len(prefix) {
		return "", fmt.Errorf("%w: %s", ErrForeignObject, fileURL)
	}
	return strings.TrimPrefix(fileURL, prefix), nil
}
