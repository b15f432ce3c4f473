package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"triz/internal/vector"
)

// recordingSearcher captures indexed documents.
type recordingSearcher struct {
	docs []vector.Document
}

func (r *recordingSearcher) Index(_ context.Context, docs []vector.Document) error {
	r.docs = append(r.docs, docs...)
	return nil
}

func (r *recordingSearcher) Search(context.Context, string, int) ([]vector.Match, error) {
	return nil, nil
}

func (r *recordingSearcher) Close() error { return nil }

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "case-a.md"), "Weight was cut by segmentation.")
	writeFile(t, filepath.Join(root, "sub", "case-b.txt"), "Speed raised without extra heat.")
	writeFile(t, filepath.Join(root, "image.png"), "\x89PNG")
	writeFile(t, filepath.Join(root, "empty.txt"), "   \n")

	rec := &recordingSearcher{}
	n, err := New(rec, nil).Dir(context.Background(), root)
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}
	if n != 2 {
		t.Fatalf("chunks = %d, want 2", n)
	}
	if len(rec.docs) != 2 {
		t.Fatalf("indexed = %d, want 2", len(rec.docs))
	}
	if rec.docs[0].Source != "case-a.md" {
		t.Errorf("first source = %s", rec.docs[0].Source)
	}
	if !strings.Contains(rec.docs[1].Content, "Speed raised") {
		t.Errorf("second content = %q", rec.docs[1].Content)
	}
}

func TestDir_ChunksLongFile(t *testing.T) {
	root := t.TempDir()
	long := strings.Repeat("A paragraph about stress and force in the clamp.\n\n", 200)
	writeFile(t, filepath.Join(root, "long.txt"), long)

	rec := &recordingSearcher{}
	n, err := New(rec, nil).Dir(context.Background(), root)
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}
	if n < 2 {
		t.Fatalf("chunks = %d, want >= 2", n)
	}
	for _, d := range rec.docs {
		if len([]rune(d.Content)) > maxChunkRunes+100 {
			t.Errorf("chunk %s over limit: %d runes", d.Source, len([]rune(d.Content)))
		}
		if !strings.Contains(d.Source, "long.txt#") {
			t.Errorf("chunk source missing part suffix: %s", d.Source)
		}
	}
}

func TestDir_MissingRoot(t *testing.T) {
	rec := &recordingSearcher{}
	if _, err := New(rec, nil).Dir(context.Background(), filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Dir on missing root succeeded")
	}
}

func TestSplitChunks(t *testing.T) {
	got := splitChunks("one\n\ntwo\n\n\n\nthree")
	if len(got) != 1 {
		t.Fatalf("chunks = %d, want 1 merged", len(got))
	}
	if got[0] != "one\n\ntwo\n\nthree" {
		t.Errorf("merged chunk = %q", got[0])
	}
	if got := splitChunks("   "); len(got) != 0 {
		t.Errorf("blank input chunks = %v", got)
	}
}
