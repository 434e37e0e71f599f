// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// maxExtractBytes is the upper bound on the total extracted size (2 GB).
// Prevents decompression bombs from a compromised download source.
const maxExtractBytes = 2 << 30

// extractZip unpacks the archive at archivePath into destDir. Release
// archives contain the installation root as their top-level directory, so
// extracting into the parent recreates the root at its original path.
// Entry paths are validated against directory traversal.
func extractZip(archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer func() { _ = r.Close() }() // read-only archive handle

	var written int64
	for _, entry := range r.File {
		target, err := sanitizeEntryPath(destDir, entry.Name)
		if err != nil {
			return err
		}

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("creating directory %s: %w", entry.Name, err)
			}
			continue
		}

		n, err := extractEntry(entry, target, maxExtractBytes-written)
		if err != nil {
			return err
		}
		written += n
		if written > maxExtractBytes {
			return fmt.Errorf("archive exceeds extraction size limit")
		}
	}

	return nil
}

// extractEntry writes one regular file entry to target, returning the
// number of bytes written.
func extractEntry(entry *zip.File, target string, limit int64) (n int64, err error) {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, fmt.Errorf("creating parent of %s: %w", entry.Name, err)
	}

	src, err := entry.Open()
	if err != nil {
		return 0, fmt.Errorf("opening archive entry %s: %w", entry.Name, err)
	}
	defer func() { _ = src.Close() }() // read-only entry reader

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, entry.Mode().Perm())
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", entry.Name, err)
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	n, err = io.Copy(dst, io.LimitReader(src, limit+1))
	if err != nil {
		return n, fmt.Errorf("extracting %s: %w", entry.Name, err)
	}

	return n, nil
}

// sanitizeEntryPath resolves an archive entry name below destDir and
// rejects entries that would escape it (zip-slip).
func sanitizeEntryPath(destDir, name string) (string, error) {
	target := filepath.Join(destDir, filepath.FromSlash(name))
	if target != destDir && !strings.HasPrefix(target, destDir+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry %q escapes extraction directory", name)
	}
	return target, nil
}
