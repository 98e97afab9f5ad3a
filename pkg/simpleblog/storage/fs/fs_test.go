package fs

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestFSBackend_BasicOps(t *testing.T) {
	tmp := t.TempDir()
	backend, err := New(Config{BaseDir: tmp})
	if err != nil {
		t.Fatalf("new fs backend: %v", err)
	}

	ctx := context.Background()
	key := "1700000000000000000-foto.png"

	data := []byte("fake image bytes")
	if err := backend.Upload(ctx, key, bytes.NewReader(data)); err != nil {
		t.Fatalf("upload: %v", err)
	}

	meta, err := backend.GetObjectMeta(ctx, key)
	if err != nil {
		t.Fatalf("get meta: %v", err)
	}
	if meta.Size != int64(len(data)) {
		t.Fatalf("expected size %d, got %d", len(data), meta.Size)
	}

	rc, err := backend.Download(ctx, key)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	got, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(got) != string(data) {
		t.Fatalf("download mismatch: %q", string(got))
	}

	if err := backend.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmp, key)); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, stat err=%v", err)
	}
}

func TestFSBackend_NoOverwrite(t *testing.T) {
	tmp := t.TempDir()
	backend, err := New(Config{BaseDir: tmp})
	if err != nil {
		t.Fatalf("new fs backend: %v", err)
	}

	ctx := context.Background()
	key := "1700000000000000000-foto.png"

	if err := backend.Upload(ctx, key, bytes.NewReader([]byte("first"))); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if err := backend.Upload(ctx, key, bytes.NewReader([]byte("second"))); err == nil {
		t.Fatal("expected error uploading over an existing key")
	}

	rc, err := backend.Download(ctx, key)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	got, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(got) != "first" {
		t.Fatalf("existing blob was clobbered: %q", string(got))
	}
}

func TestFSBackend_MissingObject(t *testing.T) {
	tmp := t.TempDir()
	backend, err := New(Config{BaseDir: tmp})
	if err != nil {
		t.Fatalf("new fs backend: %v", err)
	}

	ctx := context.Background()

	if _, err := backend.Download(ctx, "missing"); err == nil {
		t.Fatal("expected error downloading missing object")
	}
	if _, err := backend.GetObjectMeta(ctx, "missing"); err == nil {
		t.Fatal("expected error statting missing object")
	}
	if err := backend.Delete(ctx, "missing"); err == nil {
		t.Fatal("expected error deleting missing object")
	}
}

func TestFSBackend_RequiresBaseDir(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for empty base dir")
	}
}
