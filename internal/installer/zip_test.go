// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtractZip_NestedLayout(t *testing.T) {
	dest := t.TempDir()
	archive := buildZipArchive(t, map[string]string{
		"BlendLux/version.txt":        "v2.1",
		"BlendLux/bin/blendlux":       "binary",
		"BlendLux/nodes/matte.golden": "matte",
	})

	archivePath := filepath.Join(t.TempDir(), "release.zip")
	if err := os.WriteFile(archivePath, archive, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := extractZip(archivePath, dest); err != nil {
		t.Fatalf("extractZip() error = %v", err)
	}

	got := readTree(t, dest)
	for _, name := range []string{"BlendLux/version.txt", "BlendLux/bin/blendlux", "BlendLux/nodes/matte.golden"} {
		if _, ok := got[name]; !ok {
			t.Errorf("missing extracted file %s (got %v)", name, got)
		}
	}
}

func TestExtractZip_RejectsTraversal(t *testing.T) {
	dest := t.TempDir()
	archive := buildZipArchive(t, map[string]string{
		"../evil.txt": "outside",
	})

	archivePath := filepath.Join(t.TempDir(), "release.zip")
	if err := os.WriteFile(archivePath, archive, 0o644); err != nil {
		t.Fatal(err)
	}

	err := extractZip(archivePath, dest)
	if err == nil || !strings.Contains(err.Error(), "escapes extraction directory") {
		t.Fatalf("extractZip() error = %v, want traversal rejection", err)
	}

	if pathExists(filepath.Join(filepath.Dir(dest), "evil.txt")) {
		t.Error("traversal entry was written outside the extraction directory")
	}
}

func TestExtractZip_NotAnArchive(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "release.zip")
	if err := os.WriteFile(archivePath, []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := extractZip(archivePath, t.TempDir()); err == nil {
		t.Fatal("extractZip() succeeded on a non-zip file")
	}
}
