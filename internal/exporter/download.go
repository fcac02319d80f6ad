package exporter

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirDownloader saves archives into a directory.
type DirDownloader struct {
	Dir string
}

// Download writes data to Dir/filename atomically and returns the path.
func (d DirDownloader) Download(filename string, data []byte) (string, error) {
	if filename == "" || filename != filepath.Base(filename) {
		return "", fmt.Errorf("invalid archive filename %q", filename)
	}
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, filename)
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to rename temp file: %w", err)
	}
	return path, nil
}
