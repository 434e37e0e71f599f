// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"fmt"
	"os"
	"path/filepath"
)

var (
	// Test seams for os.Executable and filepath.EvalSymlinks.
	osExecutable = os.Executable
	evalSymlinks = filepath.EvalSymlinks
)

// InstallationPaths locates the installation root, the parent directory the
// release archive is extracted into, and the backup directory the root is
// renamed to during the swap. Derive it at execution time, not earlier:
// the backup name depends on the filesystem state at that moment.
type InstallationPaths struct {
	RootDir   string
	ParentDir string
	BackupDir string
}

// DerivePaths computes the installation paths for the given root directory.
// The backup directory is "<root>_backup" with a "b" appended as long as a
// directory of that name already exists, so a leftover backup from an
// earlier failed run never collides.
func DerivePaths(rootDir string) (InstallationPaths, error) {
	root, err := filepath.Abs(rootDir)
	if err != nil {
		return InstallationPaths{}, fmt.Errorf("resolving installation root: %w", err)
	}

	backup := root + "_backup"
	for pathExists(backup) {
		backup += "b"
	}

	return InstallationPaths{
		RootDir:   root,
		ParentDir: filepath.Dir(root),
		BackupDir: backup,
	}, nil
}

// DefaultInstallRoot returns the installation root the running plugin
// binary belongs to. The binary is shipped at <root>/bin/<exe>, so the
// root is two levels above the symlink-resolved executable path.
func DefaultInstallRoot() (string, error) {
	p, err := osExecutable()
	if err != nil {
		return "", fmt.Errorf("determining executable path: %w", err)
	}

	resolved, err := evalSymlinks(p)
	if err != nil {
		return "", fmt.Errorf("resolving symlinks for %s: %w", p, err)
	}

	return filepath.Dir(filepath.Dir(resolved)), nil
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
