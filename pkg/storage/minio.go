// Package storage 提供了与对象存储服务（如 MinIO）交互的功能。
package storage

import (
	"context"
	"net/url"
	"time"

	"minutes-qa-go/internal/config"
	"minutes-qa-go/pkg/log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioClient 是一个全局的 MinIO 客户端实例。
// 云端文档后端未配置时保持为 nil，选择逻辑据此回落到本地目录。
var MinioClient *minio.Client

// InitMinIO 初始化 MinIO 客户端。凭证不齐备时跳过，不视为错误。
func InitMinIO(cfg config.MinIOConfig) {
	if !cfg.CloudConfigured() {
		log.Info("MinIO 未配置，转写文稿将使用本地目录后端")
		return
	}

	var err error
	MinioClient, err = minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		log.Fatal("初始化 MinIO 客户端失败", err)
	}
	log.Infof("MinIO 客户端初始化成功, bucket: %s", cfg.BucketName)
}

// GetPresignedURL 为指定对象生成预签名下载链接。
func GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	presignedURL, err := MinioClient.PresignedGetObject(ctx, bucketName, objectName, expiry, url.Values{})
	if err != nil {
		log.Errorf("生成预签名 URL 失败: %s", err)
		return "", err
	}
	return presignedURL.String(), nil
}
