package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	tests := map[string]func(base string) string{
		"new directory":      func(base string) string { return filepath.Join(base, "newdir") },
		"nested directories": func(base string) string { return filepath.Join(base, "a", "b", "c") },
		"existing directory": func(base string) string { return base },
	}

	for name, pathFn := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			dir := pathFn(t.TempDir())

			if err := EnsureDir(dir); err != nil {
				t.Fatalf("EnsureDir() error: %v", err)
			}
			info, err := os.Stat(dir)
			if err != nil {
				t.Fatalf("stat after EnsureDir: %v", err)
			}
			if !info.IsDir() {
				t.Error("expected directory, got file")
			}
		})
	}

	t.Run("fails when a file is in the way", func(t *testing.T) {
		t.Parallel()
		base := t.TempDir()
		blocker := filepath.Join(base, "blocker")
		if err := os.WriteFile(blocker, nil, 0o600); err != nil {
			t.Fatal(err)
		}

		if err := EnsureDir(filepath.Join(blocker, "child")); err == nil {
			t.Fatal("expected error when parent is a regular file")
		}
	})
}

func TestEnsureDirForFile(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	file := filepath.Join(base, "x", "y", "descriptor.json")

	if err := EnsureDirForFile(file); err != nil {
		t.Fatalf("EnsureDirForFile() error: %v", err)
	}
	if _, err := os.Stat(filepath.Dir(file)); err != nil {
		t.Fatalf("parent directory missing: %v", err)
	}
	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Errorf("file itself must not be created, stat err = %v", err)
	}
}

func TestTouch(t *testing.T) {
	t.Parallel()

	t.Run("creates empty file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "f")

		if err := Touch(path); err != nil {
			t.Fatalf("Touch() error: %v", err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if info.Size() != 0 {
			t.Errorf("size = %d, want 0", info.Size())
		}
	})

	t.Run("does not truncate", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "f")
		if err := os.WriteFile(path, []byte("content"), 0o600); err != nil {
			t.Fatal(err)
		}

		if err := Touch(path); err != nil {
			t.Fatalf("Touch() error: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "content" {
			t.Errorf("content = %q, want %q", data, "content")
		}
	})
}

func TestRegularFileExists(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	file := filepath.Join(base, "key.pem")
	if err := os.WriteFile(file, []byte("k"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := map[string]struct {
		path string
		want bool
	}{
		"regular file": {path: file, want: true},
		"missing":      {path: filepath.Join(base, "absent"), want: false},
		"directory":    {path: base, want: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := RegularFileExists(tc.path)
			if err != nil {
				t.Fatalf("RegularFileExists() error: %v", err)
			}
			if got != tc.want {
				t.Errorf("RegularFileExists(%q) = %v, want %v", tc.path, got, tc.want)
			}
		})
	}
}
