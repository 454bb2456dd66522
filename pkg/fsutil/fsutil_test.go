package fsutil_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yaklabco/rtn/pkg/fsutil"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	t.Run("reads content and metadata", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "notes.txt")
		writeFile(t, path, "A\n\tB")

		got, info, err := fsutil.ReadFile(context.Background(), path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if string(got) != "A\n\tB" {
			t.Errorf("content = %q", got)
		}
		if info.Size != 4 || info.Path != path {
			t.Errorf("info = %+v", info)
		}
		if info.Hash == ([32]byte{}) {
			t.Error("hash is zero")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(context.Background(), filepath.Join(t.TempDir(), "absent"))
		if !errors.Is(err, fsutil.ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(context.Background(), t.TempDir())
		if !errors.Is(err, fsutil.ErrIsDirectory) {
			t.Fatalf("error = %v, want ErrIsDirectory", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err := fsutil.ReadFile(ctx, "whatever")
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("error = %v, want context.Canceled", err)
		}
	})
}

func TestCheckModified(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("unchanged", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "notes.txt")
		writeFile(t, path, "A")
		_, info, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			t.Fatal(err)
		}

		modified, err := fsutil.CheckModified(ctx, info)
		if err != nil || modified {
			t.Fatalf("CheckModified() = %v, %v", modified, err)
		}
	})

	t.Run("content changed with same size and time", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "notes.txt")
		writeFile(t, path, "A")
		_, info, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			t.Fatal(err)
		}

		writeFile(t, path, "B")
		if err := os.Chtimes(path, time.Now(), info.ModTime); err != nil {
			t.Fatal(err)
		}

		modified, err := fsutil.CheckModified(ctx, info)
		if err != nil || !modified {
			t.Fatalf("CheckModified() = %v, %v", modified, err)
		}
	})

	t.Run("deleted", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "notes.txt")
		writeFile(t, path, "A")
		_, info, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			t.Fatal(err)
		}
		if err := os.Remove(path); err != nil {
			t.Fatal(err)
		}

		modified, err := fsutil.CheckModified(ctx, info)
		if err != nil || !modified {
			t.Fatalf("CheckModified() = %v, %v", modified, err)
		}
	})

	t.Run("nil info", func(t *testing.T) {
		t.Parallel()

		if _, err := fsutil.CheckModified(ctx, nil); !errors.Is(err, fsutil.ErrNilFileInfo) {
			t.Fatalf("error = %v", err)
		}
	})
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out.rtn")

	if err := fsutil.WriteAtomic(context.Background(), path, []byte("{}"), 0); err != nil {
		t.Fatalf("WriteAtomic() error = %v", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if stat.Mode().Perm() != fsutil.DefaultFileMode {
		t.Errorf("mode = %o", stat.Mode().Perm())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestWriteAtomic_MissingDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "absent", "out.txt")
	if err := fsutil.WriteAtomic(context.Background(), path, []byte("x"), 0); err == nil {
		t.Fatal("expected error")
	}
}

func TestWriteAtomicIfChanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notes.txt")

	written, err := fsutil.WriteAtomicIfChanged(ctx, path, []byte("A"), 0)
	if err != nil || !written {
		t.Fatalf("first write = %v, %v", written, err)
	}

	written, err = fsutil.WriteAtomicIfChanged(ctx, path, []byte("A"), 0)
	if err != nil || written {
		t.Fatalf("same content = %v, %v", written, err)
	}

	written, err = fsutil.WriteAtomicIfChanged(ctx, path, []byte("A\n\tB"), 0)
	if err != nil || !written {
		t.Fatalf("new content = %v, %v", written, err)
	}
}

func TestBackups(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notes.txt")
	writeFile(t, path, "original")

	created, err := fsutil.CreateBackup(ctx, path)
	if err != nil || !created {
		t.Fatalf("CreateBackup() = %v, %v", created, err)
	}

	writeFile(t, path, "changed")
	created, err = fsutil.CreateBackup(ctx, path)
	if err != nil || created {
		t.Fatalf("second CreateBackup() = %v, %v", created, err)
	}

	restored, err := fsutil.RestoreBackup(ctx, path)
	if err != nil || !restored {
		t.Fatalf("RestoreBackup() = %v, %v", restored, err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "original" {
		t.Errorf("restored content = %q", got)
	}

	removed, err := fsutil.RemoveBackup(path)
	if err != nil || !removed {
		t.Fatalf("RemoveBackup() = %v, %v", removed, err)
	}
	removed, err = fsutil.RemoveBackup(path)
	if err != nil || removed {
		t.Fatalf("second RemoveBackup() = %v, %v", removed, err)
	}
}

func TestCreateBackup_MissingOriginal(t *testing.T) {
	t.Parallel()

	created, err := fsutil.CreateBackup(context.Background(), filepath.Join(t.TempDir(), "absent"))
	if err != nil || created {
		t.Fatalf("CreateBackup() = %v, %v", created, err)
	}
}

func FuzzWriteAtomic(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("A\n\tB\n"))
	f.Add([]byte("\x00\xff"))

	f.Fuzz(func(t *testing.T, content []byte) {
		path := filepath.Join(t.TempDir(), "fuzz.txt")
		if err := fsutil.WriteAtomic(context.Background(), path, content, 0o600); err != nil {
			t.Fatalf("WriteAtomic() error = %v", err)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, content) {
			t.Fatalf("round trip mismatch")
		}
	})
}
