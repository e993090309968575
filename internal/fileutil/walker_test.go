package fileutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeTree(t *testing.T, root string, files []string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte("test content"), 0644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
	}
}

func collect(t *testing.T, root string, opts WalkOptions) []string {
	t.Helper()
	var got []string
	err := Walk(root, opts, func(path string, d fs.DirEntry) error {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		got = append(got, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	return got
}

func TestWalk(t *testing.T) {
	tmpDir := t.TempDir()

	// tmpDir/
	//   top.cs
	//   a/x.cs
	//   a/.git/y.cs
	//   a/bin/Debug/z.cs
	//   b.txt
	//   FilesAggregate/old.cs
	//   nested/deep/obj/w.cs
	//   nested/deep/v.js
	writeTree(t, tmpDir, []string{
		"top.cs",
		"a/x.cs",
		"a/.git/y.cs",
		"a/bin/Debug/z.cs",
		"b.txt",
		"FilesAggregate/old.cs",
		"nested/deep/obj/w.cs",
		"nested/deep/v.js",
	})

	tests := []struct {
		name string
		opts WalkOptions
		want []string
	}{
		{
			name: "no pruning visits everything",
			opts: WalkOptions{},
			want: []string{
				"FilesAggregate/old.cs", "a/.git/y.cs", "a/bin/Debug/z.cs", "a/x.cs",
				"b.txt", "nested/deep/obj/w.cs", "nested/deep/v.js", "top.cs",
			},
		},
		{
			name: "excluded names pruned at any depth",
			opts: WalkOptions{ExcludeDirs: []string{".git", "bin", "obj"}},
			want: []string{"FilesAggregate/old.cs", "a/x.cs", "b.txt", "nested/deep/v.js", "top.cs"},
		},
		{
			name: "skip paths pruned by location",
			opts: WalkOptions{
				ExcludeDirs: []string{".git"},
				SkipPaths:   []string{filepath.Join(tmpDir, "FilesAggregate")},
			},
			want: []string{"a/bin/Debug/z.cs", "a/x.cs", "b.txt", "nested/deep/obj/w.cs", "nested/deep/v.js", "top.cs"},
		},
		{
			name: "exclusion is case-sensitive",
			opts: WalkOptions{ExcludeDirs: []string{".GIT", "BIN", "OBJ", "filesaggregate"}},
			want: []string{
				"FilesAggregate/old.cs", "a/.git/y.cs", "a/bin/Debug/z.cs", "a/x.cs",
				"b.txt", "nested/deep/obj/w.cs", "nested/deep/v.js", "top.cs",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(t, tmpDir, tt.opts)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Walk() visited %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWalkRootErrors(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "file.cs")
	if err := os.WriteFile(filePath, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	noop := func(string, fs.DirEntry) error { return nil }

	if err := Walk(filepath.Join(tmpDir, "missing"), WalkOptions{}, noop); err == nil {
		t.Error("expected error for missing root")
	}
	if err := Walk(filePath, WalkOptions{}, noop); err == nil {
		t.Error("expected error when root is a file")
	}
}

func TestWalkCallbackErrorStopsWalk(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, []string{"a.cs", "b.cs", "c.cs"})

	stop := errors.New("stop")
	visited := 0
	err := Walk(tmpDir, WalkOptions{}, func(path string, d fs.DirEntry) error {
		visited++
		return stop
	})

	if !errors.Is(err, stop) {
		t.Fatalf("Walk() error = %v, want %v", err, stop)
	}
	if visited != 1 {
		t.Errorf("visited %d files after error, want 1", visited)
	}
}

func TestIsWithin(t *testing.T) {
	root := filepath.FromSlash("/work/root")

	tests := []struct {
		name   string
		parent string
		path   string
		want   bool
	}{
		{"direct child", root, filepath.Join(root, "a.cs"), true},
		{"nested child", root, filepath.Join(root, "x", "y", "a.cs"), true},
		{"same path", root, root, false},
		{"sibling with shared prefix", root, filepath.FromSlash("/work/root2/a.cs"), false},
		{"parent directory", root, filepath.FromSlash("/work"), false},
		{"unclean child", root, root + string(filepath.Separator) + "." + string(filepath.Separator) + "a.cs", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsWithin(tt.parent, tt.path); got != tt.want {
				t.Errorf("IsWithin(%q, %q) = %v, want %v", tt.parent, tt.path, got, tt.want)
			}
		})
	}
}
