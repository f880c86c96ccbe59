package docsource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"minutes-qa-go/internal/apperrs"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLocalListAll(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "alpha")
	writeFile(t, filepath.Join(root, "skip.bin"), "binary")
	writeFile(t, filepath.Join(root, "l2", "b.md"), "bravo")
	writeFile(t, filepath.Join(root, "l2", "l3", "l4", "c.vtt"), "charlie")
	// 深度 5，超出上限，不应出现在结果中
	writeFile(t, filepath.Join(root, "l2", "l3", "l4", "l5", "d.txt"), "delta")

	src := &localSource{root: root}
	entries, err := src.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}

	names := map[string]bool{}
	for _, e := range entries {
		names[e.Name] = true
		if e.ID == "" || e.Link == "" {
			t.Errorf("条目缺少 id/link: %+v", e)
		}
	}
	for _, want := range []string{"a.txt", "b.md", "c.vtt"} {
		if !names[want] {
			t.Errorf("缺少条目 %s", want)
		}
	}
	if names["skip.bin"] {
		t.Errorf("不应列出无法识别的后缀")
	}
	if names["d.txt"] {
		t.Errorf("深度超限的文件不应被列出")
	}
}

func TestLocalMissingRoot(t *testing.T) {
	src := &localSource{root: "/definitely/not/here"}
	_, err := src.ListAll(context.Background())
	var be *apperrs.BackendUnavailable
	if !errors.As(err, &be) {
		t.Fatalf("期望 BackendUnavailable, got %v", err)
	}
}

func TestLocalRead(t *testing.T) {
	root := t.TempDir()
	p := filepath.Join(root, "notes.txt")
	writeFile(t, p, "budget review")

	src := &localSource{root: root}
	got, err := src.Read(context.Background(), p)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != "budget review" {
		t.Errorf("Read: got %q", got)
	}

	if _, err := src.Read(context.Background(), filepath.Join(root, "missing.txt")); err == nil {
		t.Errorf("读取不存在的文件应报错")
	}
}

func TestIsTranscript(t *testing.T) {
	for _, name := range []string{"a.TXT", "b.md", "c.vtt", "d.srt", "e.pdf", "f.docx"} {
		if !isTranscript(name) {
			t.Errorf("%s 应被识别为转写文稿", name)
		}
	}
	for _, name := range []string{"a.bin", "b", "c.mp4"} {
		if isTranscript(name) {
			t.Errorf("%s 不应被识别", name)
		}
	}
}
