package docsource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"minutes-qa-go/internal/apperrs"
	"minutes-qa-go/pkg/log"
	"minutes-qa-go/pkg/tika"
)

// localSource 是本地文件系统后端，id 即文件路径。
type localSource struct {
	root string
	tika *tika.Client
}

// ListAll 以 (目录, 深度) 工作队列遍历根目录，深度上限与云端后端一致。
func (s *localSource) ListAll(ctx context.Context) ([]Entry, error) {
	info, err := os.Stat(s.root)
	if err != nil || !info.IsDir() {
		return nil, &apperrs.BackendUnavailable{Reason: fmt.Sprintf("transcript dir %q not found", s.root), Err: err}
	}

	type workItem struct {
		dir   string
		depth int
	}
	queue := []workItem{{s.root, 1}}
	var entries []Entry

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		dirEntries, err := os.ReadDir(item.dir)
		if err != nil {
			// 子目录读不了不终止整个遍历
			log.Warnf("[docsource] 读取目录失败, dir: %s, err: %v", item.dir, err)
			continue
		}
		for _, de := range dirEntries {
			full := filepath.Join(item.dir, de.Name())
			if de.IsDir() {
				if item.depth < maxDepth {
					queue = append(queue, workItem{full, item.depth + 1})
				}
				continue
			}
			if !isTranscript(de.Name()) {
				continue
			}
			entry := Entry{
				ID:       full,
				Name:     de.Name(),
				MimeType: mimeFor(de.Name()),
				Link:     "file://" + filepath.ToSlash(full),
			}
			if fi, err := de.Info(); err == nil {
				entry.Modified = fi.ModTime().UTC()
			}
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// Read 直接读取文件文本；富文档在配置了 Tika 时走导出，否则报错，
// 由检索端按"读不到即不命中"处理。
func (s *localSource) Read(ctx context.Context, id string) (string, error) {
	if IsRich(id) {
		f, err := os.Open(id)
		if err != nil {
			return "", fmt.Errorf("打开文件失败: %w", err)
		}
		defer f.Close()
		return s.tika.ExtractText(ctx, f, filepath.Base(id))
	}

	data, err := os.ReadFile(id)
	if err != nil {
		return "", fmt.Errorf("读取文件失败: %w", err)
	}
	return string(data), nil
}
