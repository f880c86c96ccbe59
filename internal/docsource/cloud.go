package docsource

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"minutes-qa-go/internal/config"
	"minutes-qa-go/pkg/log"
	"minutes-qa-go/pkg/storage"
	"minutes-qa-go/pkg/tika"

	"github.com/minio/minio-go/v7"
)

// 云端条目 id 的后端前缀，便于区分同名本地路径。
const cloudIDPrefix = "s3:"

// 预签名链接的有效期。
const linkExpiry = time.Hour

// cloudSource 是 S3 兼容对象存储后端，"文件夹"即公共前缀。
type cloudSource struct {
	cfg  config.MinIOConfig
	tika *tika.Client
}

// ListAll 以 (前缀, 深度) 工作队列逐层非递归列举对象。
// minio 客户端在迭代内部消化 continuation token，直到没有更多分页。
func (s *cloudSource) ListAll(ctx context.Context) ([]Entry, error) {
	root := s.cfg.RootPrefix
	if root != "" && !strings.HasSuffix(root, "/") {
		root += "/"
	}

	type workItem struct {
		prefix string
		depth  int
	}
	queue := []workItem{{root, 1}}
	var entries []Entry

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		objects := storage.MinioClient.ListObjects(ctx, s.cfg.BucketName, minio.ListObjectsOptions{
			Prefix:    item.prefix,
			Recursive: false,
		})
		for obj := range objects {
			if obj.Err != nil {
				return nil, fmt.Errorf("列举对象失败 (prefix=%s): %w", item.prefix, obj.Err)
			}
			// 非递归列举下，公共前缀以 "/" 结尾，视作文件夹下探
			if strings.HasSuffix(obj.Key, "/") {
				if item.depth < maxDepth {
					queue = append(queue, workItem{obj.Key, item.depth + 1})
				}
				continue
			}
			name := path.Base(obj.Key)
			if !isTranscript(name) {
				continue
			}
			link, err := storage.GetPresignedURL(ctx, s.cfg.BucketName, obj.Key, linkExpiry)
			if err != nil {
				log.Warnf("[docsource] 生成对象链接失败, key: %s, err: %v", obj.Key, err)
			}
			entries = append(entries, Entry{
				ID:       cloudIDPrefix + obj.Key,
				Name:     name,
				MimeType: mimeFor(name),
				Modified: obj.LastModified.UTC(),
				Link:     link,
			})
		}
	}
	return entries, nil
}

// Read 下载对象内容；富文档经 Tika 导出为纯文本，其余按原始文本读取。
func (s *cloudSource) Read(ctx context.Context, id string) (string, error) {
	key := strings.TrimPrefix(id, cloudIDPrefix)
	object, err := storage.MinioClient.GetObject(ctx, s.cfg.BucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("从对象存储下载失败: %w", err)
	}
	defer object.Close()

	name := path.Base(key)
	if IsRich(name) {
		return s.tika.ExtractText(ctx, object, name)
	}

	data, err := io.ReadAll(object)
	if err != nil {
		return "", fmt.Errorf("读取对象流失败: %w", err)
	}
	return string(data), nil
}
