// file_io.go - host file backing for the NtCreateFile/Read/WriteFile handlers
//
// Grounded on _examples/IntuitionAmiga-IntuitionEngine/file_io.go: the path
// sandboxing (sanitizePath) and guest-memory filename read are carried over
// nearly unchanged, since a guest-requested filename must be confined to a
// host directory either way; what changes is the caller - NT syscall
// handlers instead of an MMIO register device.
//
// License: GPLv3 or later

package main

import (
	"os"
	"path/filepath"
	"strings"
)

// hostFileBackend confines guest file operations to a single host directory.
type hostFileBackend struct {
	baseDir string
}

func newHostFileBackend(baseDir string) *hostFileBackend {
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		absBase = baseDir
	}
	return &hostFileBackend{baseDir: absBase}
}

// sanitizePath rejects absolute paths and ".." components and confines the
// result to baseDir.
func (f *hostFileBackend) sanitizePath(path string) (string, bool) {
	if filepath.IsAbs(path) || strings.Contains(path, "..") {
		return "", false
	}
	fullPath := filepath.Join(f.baseDir, path)
	rel, err := filepath.Rel(f.baseDir, fullPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return fullPath, true
}

func (f *hostFileBackend) open(guestPath string, write bool) (*os.File, NTSTATUS) {
	fullPath, ok := f.sanitizePath(guestPath)
	if !ok {
		return nil, STATUS_INVALID_PARAMETER
	}
	flags := os.O_RDONLY
	if write {
		flags = os.O_RDWR | os.O_CREATE
	}
	file, err := os.OpenFile(fullPath, flags, 0644)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, STATUS_IO_DEVICE_ERROR
		}
		return nil, STATUS_IO_DEVICE_ERROR
	}
	return file, STATUS_SUCCESS
}

func readGuestFileName(mem guestMemory, addr uint32) string {
	n := guestStrLen(mem, addr, 255)
	b := make([]byte, n)
	for i := 0; i < n; i++ {
		b[i] = byte(mem.ReadU8(addr + uint32(i)))
	}
	return string(b)
}
