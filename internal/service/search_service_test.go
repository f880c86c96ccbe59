package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"minutes-qa-go/internal/config"
	"minutes-qa-go/internal/model"
	"minutes-qa-go/pkg/log"
)

func TestMain(m *testing.M) {
	log.Init("error", "console", "")
	os.Exit(m.Run())
}

// useLocalDir 把全局配置指向一个临时转写文稿目录（MinIO 未配置即走本地后端）。
func useLocalDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	old := config.Conf
	config.Conf = config.Config{Transcript: config.TranscriptConfig{LocalDir: root}}
	t.Cleanup(func() { config.Conf = old })
	return root
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFindTranscriptsContentMatchWithPreview(t *testing.T) {
	root := useLocalDir(t)
	mustWrite(t, filepath.Join(root, "2024-01-05 10.00.00 notes.txt"), "weekly   budget\nreview minutes")
	mustWrite(t, filepath.Join(root, "2024-02-01 09.00.00 other.txt"), "nothing relevant here")

	svc := NewSearchService(nil)
	results, err := svc.FindTranscripts(context.Background(), model.SearchQuery{Keywords: "budget"})
	if err != nil {
		t.Fatalf("FindTranscripts: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("期望 1 条结果, got %d", len(results))
	}
	r := results[0]
	if r.Name != "2024-01-05 10.00.00 notes.txt" {
		t.Errorf("命中了错误的文件: %s", r.Name)
	}
	if r.Preview == "" {
		t.Errorf("内容命中必须附带 preview")
	}
	if r.Preview != "weekly budget review minutes" {
		t.Errorf("preview 应为压缩空白后的摘录: %q", r.Preview)
	}
	if r.Modified != "2024-01-05T10:00:00Z" {
		t.Errorf("有效时间戳应来自文件名: %s", r.Modified)
	}
}

func TestFindTranscriptsFilenameMatchNoPreview(t *testing.T) {
	root := useLocalDir(t)
	mustWrite(t, filepath.Join(root, "budget 2024-03-01 10.00.00.txt"), "irrelevant body")

	svc := NewSearchService(nil)
	results, err := svc.FindTranscripts(context.Background(), model.SearchQuery{Keywords: "BUDGET"})
	if err != nil {
		t.Fatalf("FindTranscripts: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("期望 1 条结果, got %d", len(results))
	}
	if results[0].Preview != "" {
		t.Errorf("文件名命中不应附带 preview")
	}
}

func TestFindTranscriptsContentScanBudget(t *testing.T) {
	// 200 次内容扫描预算耗尽后，后续候选即使内容命中也不再匹配
	t.Run("耗尽预算后不再扫描", func(t *testing.T) {
		root := useLocalDir(t)
		for i := 0; i < contentCheckBudget; i++ {
			mustWrite(t, filepath.Join(root, fmt.Sprintf("f-%03d meeting.txt", i)), "nothing here")
		}
		// 'l' 在 'f' 之后，遍历顺序上排在全部占位文件之后
		mustWrite(t, filepath.Join(root, "last notes.txt"), "quarterly planning")

		svc := NewSearchService(nil)
		results, err := svc.FindTranscripts(context.Background(), model.SearchQuery{Keywords: "quarterly"})
		if err != nil {
			t.Fatalf("FindTranscripts: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("预算耗尽后命中文件不应被扫描到, got %v", results)
		}
	})

	t.Run("预算内的候选正常命中", func(t *testing.T) {
		root := useLocalDir(t)
		for i := 0; i < contentCheckBudget; i++ {
			mustWrite(t, filepath.Join(root, fmt.Sprintf("f-%03d meeting.txt", i)), "nothing here")
		}
		// 'a' 在 'f' 之前，先于占位文件被扫描
		mustWrite(t, filepath.Join(root, "a notes.txt"), "quarterly planning")

		svc := NewSearchService(nil)
		results, err := svc.FindTranscripts(context.Background(), model.SearchQuery{Keywords: "quarterly"})
		if err != nil {
			t.Fatalf("FindTranscripts: %v", err)
		}
		if len(results) != 1 || results[0].Name != "a notes.txt" {
			t.Errorf("预算内的内容命中应返回, got %v", results)
		}
	})
}

func TestFindTranscriptsPreviewClipped(t *testing.T) {
	root := useLocalDir(t)
	// 压缩空白后仍远超摘录上限
	content := "quarterly " + strings.Repeat("w ", 600)
	mustWrite(t, filepath.Join(root, "2024-01-05 10.00.00 long.txt"), content)

	svc := NewSearchService(nil)
	results, err := svc.FindTranscripts(context.Background(), model.SearchQuery{Keywords: "quarterly"})
	if err != nil {
		t.Fatalf("FindTranscripts: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("期望 1 条结果, got %d", len(results))
	}
	p := results[0].Preview
	if len(p) != maxPreviewLen {
		t.Errorf("preview 应裁剪到 %d 字符, got %d", maxPreviewLen, len(p))
	}
	if !strings.HasPrefix(p, "quarterly w w") {
		t.Errorf("preview 应为压缩空白后的前缀: %q", p)
	}
}

func TestFindTranscriptsSkipsRichWithoutTika(t *testing.T) {
	root := useLocalDir(t)
	mustWrite(t, filepath.Join(root, "plan.pdf"), "quarterly planning")
	mustWrite(t, filepath.Join(root, "plain.txt"), "quarterly planning")

	svc := NewSearchService(nil)
	results, err := svc.FindTranscripts(context.Background(), model.SearchQuery{Keywords: "quarterly"})
	if err != nil {
		t.Fatalf("FindTranscripts: %v", err)
	}
	if len(results) != 1 || results[0].Name != "plain.txt" {
		t.Errorf("未配置 Tika 时富文档不应参与内容扫描, got %v", results)
	}
}

func TestFindTranscriptsDateRangeEndInclusive(t *testing.T) {
	root := useLocalDir(t)
	mustWrite(t, filepath.Join(root, "2024-01-05 10.00.00 a.txt"), "x")
	mustWrite(t, filepath.Join(root, "2024-01-10 23.59.59 b.txt"), "x")
	mustWrite(t, filepath.Join(root, "2024-01-11 00.00.01 c.txt"), "x")

	svc := NewSearchService(nil)
	results, err := svc.FindTranscripts(context.Background(), model.SearchQuery{From: "2024-01-05", To: "2024-01-10"})
	if err != nil {
		t.Fatalf("FindTranscripts: %v", err)
	}
	names := map[string]bool{}
	for _, r := range results {
		names[r.Name] = true
	}
	if !names["2024-01-05 10.00.00 a.txt"] || !names["2024-01-10 23.59.59 b.txt"] {
		t.Errorf("to 当天整天应被包含: %v", names)
	}
	if names["2024-01-11 00.00.01 c.txt"] {
		t.Errorf("超出 to 次日零点的文件不应包含")
	}
}

func TestFindTranscriptsSortedAndLimited(t *testing.T) {
	root := useLocalDir(t)
	stamps := []string{"2024-01-01", "2024-03-01", "2024-02-01"}
	for _, d := range stamps {
		mustWrite(t, filepath.Join(root, d+" 08.00.00 m.txt"), "x")
	}

	svc := NewSearchService(nil)
	results, err := svc.FindTranscripts(context.Background(), model.SearchQuery{Limit: 2})
	if err != nil {
		t.Fatalf("FindTranscripts: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("limit=2 应截断结果, got %d", len(results))
	}
	if results[0].Modified < results[1].Modified {
		t.Errorf("结果必须按 modified 降序: %s < %s", results[0].Modified, results[1].Modified)
	}
}

func TestFindTranscriptsZeroResultIsSuccess(t *testing.T) {
	useLocalDir(t)
	svc := NewSearchService(nil)
	results, err := svc.FindTranscripts(context.Background(), model.SearchQuery{Keywords: "nope"})
	if err != nil {
		t.Fatalf("零结果不应是错误: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("应返回空切片, got %v", results)
	}
}

func TestClampLimit(t *testing.T) {
	cases := map[int]int{0: 10, -3: 10, 5: 5, 50: 50, 100: 50}
	for in, want := range cases {
		if got := clampLimit(in); got != want {
			t.Errorf("clampLimit(%d) = %d, want %d", in, got, want)
		}
	}
}
