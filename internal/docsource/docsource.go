// Package docsource 把"转写文稿存在云端对象存储还是本地目录"这一差异
// 隐藏在统一的 Source 能力之后：列出根下全部条目、按 id 读取内容。
package docsource

import (
	"context"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"minutes-qa-go/internal/apperrs"
	"minutes-qa-go/internal/config"
	"minutes-qa-go/pkg/storage"
	"minutes-qa-go/pkg/tika"
)

// 目录树最大下探深度（含根）。超出深度静默停止下探，不报错。
const maxDepth = 4

// Entry 是文档源列出的一个原始条目。
type Entry struct {
	ID       string    // 带后端前缀的不透明标识
	Name     string    // 原始文件名
	MimeType string    // 内容类型提示
	Modified time.Time // 后端报告的修改时间，零值表示未知
	Link     string    // 可解引用的定位符
}

// Source 是文档源的统一能力接口。
type Source interface {
	// ListAll 列出根下（含子目录，深度受限）的全部转写文稿条目。
	ListAll(ctx context.Context) ([]Entry, error)
	// Read 按 id 读取条目的纯文本内容。
	Read(ctx context.Context, id string) (string, error)
}

// Select 依据当前配置返回本次请求应使用的文档源。
// 选择是配置的纯函数，每个请求重新评估一次，不跨请求缓存（凭证可能变化）。
func Select(tikaClient *tika.Client) (Source, error) {
	if config.Conf.MinIO.CloudConfigured() {
		if storage.MinioClient == nil {
			return nil, &apperrs.BackendUnavailable{Reason: "minio client not initialized"}
		}
		return &cloudSource{
			cfg:  config.Conf.MinIO,
			tika: tikaClient,
		}, nil
	}
	if config.Conf.Transcript.LocalDir == "" {
		return nil, &apperrs.ConfigurationMissing{Name: "transcript.local_dir"}
	}
	return &localSource{
		root: config.Conf.Transcript.LocalDir,
		tika: tikaClient,
	}, nil
}

// 纯文本转写文稿后缀，可直接读取。
var plainExts = map[string]bool{
	".txt": true,
	".md":  true,
	".vtt": true,
	".srt": true,
}

// 富文档后缀，读取需经 Tika 导出为纯文本。
var richExts = map[string]bool{
	".pdf":  true,
	".docx": true,
	".doc":  true,
}

// IsRich 判断文件名是否属于需要 Tika 导出的富文档。
func IsRich(name string) bool {
	return richExts[strings.ToLower(filepath.Ext(name))]
}

// isTranscript 判断文件名是否属于可识别的转写文稿类型。
func isTranscript(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return plainExts[ext] || richExts[ext]
}

func mimeFor(name string) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); t != "" {
		return t
	}
	return "application/octet-stream"
}
