package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"file-categorizer/internal/store"
)

// buildTree creates files (and any parent directories) under a temp
// root and returns the root path.
func buildTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", path, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return root
}

// collect walks root and returns categorized filenames sorted, plus the
// total number of callback invocations.
func collect(t *testing.T, opts Options, root string) (names []string, visited int) {
	t.Helper()

	s := New(opts)
	_, err := s.Walk(context.Background(), root, func(path string, record *store.FileRecord) error {
		visited++
		if record != nil {
			names = append(names, record.Filename)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}
	sort.Strings(names)
	return names, visited
}

func TestWalkCategorizesSupportedFiles(t *testing.T) {
	t.Parallel()

	root := buildTree(t, map[string]string{
		"photo.jpg":  "x",
		"logo.svg":   "x",
		"notes.txt":  "x",
		"sign.lbrn2": "x",
	})

	names, visited := collect(t, DefaultOptions(), root)

	want := []string{"logo.svg", "photo.jpg", "sign.lbrn2"}
	if len(names) != len(want) {
		t.Fatalf("categorized %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
	// notes.txt is visited with a nil record.
	if visited != 4 {
		t.Errorf("visited %d files, want 4", visited)
	}
}

func TestWalkSkipsHiddenByDefault(t *testing.T) {
	t.Parallel()

	root := buildTree(t, map[string]string{
		"visible.jpg":        "x",
		".hidden.png":        "x",
		"sub/.also-skip.gif": "x",
	})

	names, _ := collect(t, DefaultOptions(), root)
	if len(names) != 1 || names[0] != "visible.jpg" {
		t.Errorf("categorized %v, want only visible.jpg", names)
	}

	opts := DefaultOptions()
	opts.IncludeHidden = true
	names, _ = collect(t, opts, root)
	if len(names) != 3 {
		t.Errorf("with hidden included categorized %v, want 3 files", names)
	}
}

func TestWalkDescendsHiddenDirectories(t *testing.T) {
	t.Parallel()

	// The hidden filter applies to an entry's own name only; plainly
	// named files inside a dot directory are still scanned.
	root := buildTree(t, map[string]string{
		".archive/inner.jpg":        "x",
		".archive/.still-skip.png":  "x",
		".archive/deeper/keep.lbrn": "x",
	})

	names, _ := collect(t, DefaultOptions(), root)
	want := []string{"inner.jpg", "keep.lbrn"}
	if len(names) != len(want) || names[0] != want[0] || names[1] != want[1] {
		t.Errorf("categorized %v, want %v", names, want)
	}
}

func TestWalkNonRecursive(t *testing.T) {
	t.Parallel()

	root := buildTree(t, map[string]string{
		"top.jpg":        "x",
		"sub/nested.jpg": "x",
	})

	opts := DefaultOptions()
	opts.Recursive = false
	names, _ := collect(t, opts, root)

	if len(names) != 1 || names[0] != "top.jpg" {
		t.Errorf("categorized %v, want only top.jpg", names)
	}
}

func TestWalkMaxDepth(t *testing.T) {
	t.Parallel()

	root := buildTree(t, map[string]string{
		"d0.jpg":         "x",
		"a/d1.jpg":       "x",
		"a/b/d2.jpg":     "x",
		"a/b/c/d3.jpg":   "x",
		"a/b/c/e/d4.jpg": "x",
	})

	tests := []struct {
		name  string
		depth int
		want  int
	}{
		{name: "depth 0 root children only", depth: 0, want: 1},
		{name: "depth 1 inclusive", depth: 1, want: 2},
		{name: "depth 2 inclusive", depth: 2, want: 3},
		{name: "depth beyond tree", depth: 10, want: 5},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := DefaultOptions()
			depth := tt.depth
			opts.MaxDepth = &depth

			names, _ := collect(t, opts, root)
			if len(names) != tt.want {
				t.Errorf("depth %d categorized %v, want %d files", tt.depth, names, tt.want)
			}
		})
	}
}

func TestWalkMaxFileSize(t *testing.T) {
	t.Parallel()

	root := buildTree(t, map[string]string{
		"small.jpg": "x",
		"large.jpg": "this content is definitely larger than eight bytes",
	})

	opts := DefaultOptions()
	opts.MaxFileSize = 8
	names, visited := collect(t, opts, root)

	if len(names) != 1 || names[0] != "small.jpg" {
		t.Errorf("categorized %v, want only small.jpg", names)
	}
	// Oversized files are still visited, with a nil record.
	if visited != 2 {
		t.Errorf("visited %d files, want 2", visited)
	}
}

func TestWalkCancellation(t *testing.T) {
	t.Parallel()

	root := buildTree(t, map[string]string{
		"a.jpg": "x",
		"b.jpg": "x",
		"c.jpg": "x",
	})

	ctx, cancel := context.WithCancel(context.Background())
	s := New(DefaultOptions())

	seen := 0
	_, err := s.Walk(ctx, root, func(path string, record *store.FileRecord) error {
		seen++
		cancel()
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if seen != 1 {
		t.Errorf("callback ran %d times after cancellation, want 1", seen)
	}
}

func TestWalkCallbackErrorStops(t *testing.T) {
	t.Parallel()

	root := buildTree(t, map[string]string{"a.jpg": "x", "b.jpg": "x"})
	wantErr := errors.New("stop here")

	s := New(DefaultOptions())
	_, err := s.Walk(context.Background(), root, func(string, *store.FileRecord) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected callback error, got %v", err)
	}
}

func TestExtractRecordFields(t *testing.T) {
	t.Parallel()

	root := buildTree(t, map[string]string{"photo.jpeg": "some bytes"})
	path := filepath.Join(root, "photo.jpeg")

	s := New(DefaultOptions())
	record, err := s.Extract(path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if record == nil {
		t.Fatal("expected a record for photo.jpeg")
	}

	if record.ID == "" {
		t.Error("record ID should be set")
	}
	if !filepath.IsAbs(record.Path) {
		t.Errorf("record path %q should be absolute", record.Path)
	}
	if record.Filename != "photo.jpeg" {
		t.Errorf("filename = %q, want photo.jpeg", record.Filename)
	}
	if record.Category != "graphics" {
		t.Errorf("category = %q, want graphics", record.Category)
	}
	if record.Size != int64(len("some bytes")) {
		t.Errorf("size = %d, want %d", record.Size, len("some bytes"))
	}
	if !record.Exists {
		t.Error("record should be flagged as existing")
	}
}

func TestExtractOutOfScope(t *testing.T) {
	t.Parallel()

	root := buildTree(t, map[string]string{"readme.md": "x"})

	tests := []struct {
		name string
		path string
	}{
		{name: "unsupported extension", path: filepath.Join(root, "readme.md")},
		{name: "missing file", path: filepath.Join(root, "vanished.jpg")},
		{name: "directory", path: root},
	}

	s := New(DefaultOptions())
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			record, err := s.Extract(tt.path)
			if err != nil {
				t.Fatalf("Extract failed: %v", err)
			}
			if record != nil {
				t.Errorf("expected nil record, got %+v", record)
			}
		})
	}
}

func TestValidateRoot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "plain.jpg")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		root    string
		wantErr error
	}{
		{name: "valid directory", root: dir, wantErr: nil},
		{name: "missing path", root: filepath.Join(dir, "nope"), wantErr: ErrNotFound},
		{name: "file not directory", root: file, wantErr: ErrNotDirectory},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateRoot(tt.root)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateRoot(%q) = %v, want nil", tt.root, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateRoot(%q) = %v, want %v", tt.root, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRootPermission(t *testing.T) {
	t.Parallel()

	if os.Geteuid() == 0 {
		t.Skip("running as root, permission checks are bypassed")
	}

	dir := filepath.Join(t.TempDir(), "locked")
	if err := os.Mkdir(dir, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	if err := ValidateRoot(dir); !errors.Is(err, ErrPermission) {
		t.Errorf("ValidateRoot = %v, want %v", err, ErrPermission)
	}
}

func TestCount(t *testing.T) {
	t.Parallel()

	root := buildTree(t, map[string]string{
		"a.jpg":     "x",
		"b.svg":     "x",
		"notes.txt": "x",
		"sub/c.png": "x",
	})

	s := New(DefaultOptions())
	total, err := s.Count(context.Background(), root)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	// Count visits every candidate file, categorizable or not.
	if total != 4 {
		t.Errorf("Count = %d, want 4", total)
	}
}
