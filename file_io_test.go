package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestHostFileBackend_OpenForReadRoundTrips(t *testing.T) {
	tmpDir := t.TempDir()
	content := []byte("Hello, WBOX!")
	if err := os.WriteFile(filepath.Join(tmpDir, "test.txt"), content, 0644); err != nil {
		t.Fatal(err)
	}

	fb := newHostFileBackend(tmpDir)
	f, status := fb.open("test.txt", false)
	if status != STATUS_SUCCESS {
		t.Fatalf("expected STATUS_SUCCESS, got %s", status)
	}
	defer f.Close()

	got := make([]byte, len(content))
	if _, err := f.Read(got); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("expected %q, got %q", content, got)
	}
}

func TestHostFileBackend_OpenForWriteCreatesFile(t *testing.T) {
	tmpDir := t.TempDir()
	fb := newHostFileBackend(tmpDir)

	f, status := fb.open("out.txt", true)
	if status != STATUS_SUCCESS {
		t.Fatalf("expected STATUS_SUCCESS, got %s", status)
	}
	content := []byte("written from a guest")
	if _, err := f.Write(content); err != nil {
		t.Fatal(err)
	}
	f.Close()

	got, err := os.ReadFile(filepath.Join(tmpDir, "out.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("expected %q, got %q", content, got)
	}
}

func TestHostFileBackend_ReadMissingFile(t *testing.T) {
	fb := newHostFileBackend(t.TempDir())
	if _, status := fb.open("missing.txt", false); status != STATUS_IO_DEVICE_ERROR {
		t.Errorf("expected STATUS_IO_DEVICE_ERROR, got %s", status)
	}
}

func TestHostFileBackend_RejectsPathTraversal(t *testing.T) {
	fb := newHostFileBackend(t.TempDir())
	badPaths := []string{
		"../test.txt",
		"/etc/passwd",
		"subdir/../../test.txt",
	}
	for _, path := range badPaths {
		if _, status := fb.open(path, false); status != STATUS_INVALID_PARAMETER {
			t.Errorf("path %q: expected STATUS_INVALID_PARAMETER, got %s", path, status)
		}
	}
}

func TestHostFileBackend_ReadEmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "empty.txt"), []byte{}, 0644); err != nil {
		t.Fatal(err)
	}
	fb := newHostFileBackend(tmpDir)
	f, status := fb.open("empty.txt", false)
	if status != STATUS_SUCCESS {
		t.Fatalf("expected STATUS_SUCCESS, got %s", status)
	}
	defer f.Close()

	buf := make([]byte, 16)
	n, _ := f.Read(buf)
	if n != 0 {
		t.Errorf("expected 0 bytes read, got %d", n)
	}
}

func TestReadGuestFileName(t *testing.T) {
	mem := newFlatGuestMemory()
	name := "config.ini"
	for i, b := range append([]byte(name), 0) {
		mem.WriteU8(uint32(0x1000+i), b)
	}
	got := readGuestFileName(mem, 0x1000)
	if got != name {
		t.Errorf("expected %q, got %q", name, got)
	}
}
