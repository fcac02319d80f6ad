package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"time"
)

// WriteZip packages the archive files into w, in layout order. Entries
// carry modTime so identical archives produce identical bytes.
func (a *Archive) WriteZip(w io.Writer, modTime time.Time) error {
	zw := zip.NewWriter(w)
	for _, f := range a.Files {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Path,
			Method:   zip.Deflate,
			Modified: modTime,
		})
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", f.Path, err)
		}
		if _, err := fw.Write(f.Data); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.Path, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish zip: %w", err)
	}
	return nil
}

// Zip returns the packaged archive as bytes.
func (a *Archive) Zip(modTime time.Time) ([]byte, error) {
	var buf bytes.Buffer
	if err := a.WriteZip(&buf, modTime); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadEntry returns the contents of entry name from the zip file at path.
func ReadEntry(path, name string) ([]byte, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s: %w", name, os.ErrNotExist)
}
