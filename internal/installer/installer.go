// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/blendlux/blendlux/internal/release"
)

// downloadTimeout bounds the whole archive download.
const downloadTimeout = 60 * time.Second

// ErrAlreadyInstalled is returned when the selected version equals the
// currently installed one. No filesystem changes are made. The message
// wording is part of the operator contract.
var ErrAlreadyInstalled = errors.New("This is the currently installed version")

const (
	// OutcomeNone is the zero outcome, returned alongside every error.
	OutcomeNone Outcome = iota
	// OutcomeSuccessRestartRequired means the new version is on disk and
	// the host application must be restarted to pick it up. The original
	// addon abused an error-severity report to force a visible popup;
	// here success-with-action is its own variant.
	OutcomeSuccessRestartRequired
)

type (
	// Outcome is the terminal state of a successful install.
	Outcome int

	// DownloadError is returned when streaming the selected release
	// archive to disk fails. The installation has not been touched yet,
	// so retrying is safe.
	DownloadError struct {
		Cause error
	}

	// ExtractionError is returned when unpacking the downloaded archive
	// fails after the backup rename. The rollback has already run when
	// the caller sees this error: the previous installation is back in
	// place and the backup directory is gone.
	ExtractionError struct {
		Cause error
	}

	// Installer downloads a selected release and swaps it in over the
	// current installation.
	Installer struct {
		httpClient *http.Client
		logger     *log.Logger
	}

	// Option configures an Installer during construction.
	Option func(*Installer)
)

// Message returns the user-visible message for the outcome. The restart
// message wording is part of the operator contract.
func (o Outcome) Message() string {
	if o == OutcomeSuccessRestartRequired {
		return "Restart Blender!"
	}
	return ""
}

// Error formats the download failure with its underlying cause, per the
// operator contract.
func (e *DownloadError) Error() string {
	return fmt.Sprintf("Could not download: %v", e.Cause)
}

// Unwrap returns the underlying download failure.
func (e *DownloadError) Unwrap() error { return e.Cause }

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("could not extract update: %v (previous installation restored)", e.Cause)
}

// Unwrap returns the underlying extraction failure.
func (e *ExtractionError) Unwrap() error { return e.Cause }

// WithHTTPClient sets a custom HTTP client for archive downloads, useful
// for tests or proxy configurations.
func WithHTTPClient(c *http.Client) Option {
	return func(ins *Installer) {
		ins.httpClient = c
	}
}

// WithLogger sets the logger used for install progress.
func WithLogger(l *log.Logger) Option {
	return func(ins *Installer) {
		ins.logger = l
	}
}

// New creates an Installer. The default HTTP client carries the fixed 60s
// download timeout.
func New(opts ...Option) *Installer {
	ins := &Installer{
		httpClient: &http.Client{Timeout: downloadTimeout},
	}
	for _, opt := range opts {
		opt(ins)
	}
	if ins.logger == nil {
		ins.logger = log.Default()
	}
	return ins
}

// Install downloads the selected release and replaces the installation at
// paths.RootDir with it.
//
// The flow is linear with one rollback branch:
//  1. Guard: selecting the installed version fails with
//     ErrAlreadyInstalled before any filesystem change.
//  2. Download into a temp directory that is removed on every exit path.
//     Failure here returns a *DownloadError; the installation is untouched.
//  3. Backup: rename the root to paths.BackupDir. Point of no return.
//  4. Extract the archive into the parent directory, which recreates the
//     root from the archive contents. On success the backup is deleted.
//     On failure a partially written root is deleted, the backup is
//     renamed back, and a *ExtractionError is returned: the pre-update
//     installation is restored exactly.
func (ins *Installer) Install(ctx context.Context, selected release.Release, currentVersion string, paths InstallationPaths) (Outcome, error) {
	if selected.VersionString == currentVersion {
		return OutcomeNone, ErrAlreadyInstalled
	}

	ins.logger.Info("changing version",
		"from", currentVersion, "to", selected.VersionString, "root", paths.RootDir)

	tempDir, err := os.MkdirTemp("", "blendlux-update-*")
	if err != nil {
		return OutcomeNone, fmt.Errorf("creating temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	archivePath := filepath.Join(tempDir, "release.zip")

	ins.logger.Info("downloading", "url", selected.DownloadURL)
	if err := ins.downloadTo(ctx, selected.DownloadURL, archivePath); err != nil {
		return OutcomeNone, &DownloadError{Cause: err}
	}
	ins.logger.Info("download finished")

	ins.logger.Info("backing up current installation", "backup", paths.BackupDir)
	if err := os.Rename(paths.RootDir, paths.BackupDir); err != nil {
		return OutcomeNone, fmt.Errorf("backing up installation: %w", err)
	}

	ins.logger.Info("extracting", "dest", paths.ParentDir)
	if err := extractZip(archivePath, paths.ParentDir); err != nil {
		ins.rollback(paths)
		return OutcomeNone, &ExtractionError{Cause: err}
	}

	ins.logger.Info("cleaning up backup")
	if err := os.RemoveAll(paths.BackupDir); err != nil {
		// The new version is installed; a stale backup dir is an
		// annoyance, not a failure.
		ins.logger.Warn("could not remove backup directory", "backup", paths.BackupDir, "err", err)
	}

	ins.logger.Info("done", "version", selected.VersionString)

	return OutcomeSuccessRestartRequired, nil
}

// rollback restores the pre-update installation after a failed extraction:
// any partially written root is removed, then the backup is renamed back
// into place.
func (ins *Installer) rollback(paths InstallationPaths) {
	ins.logger.Warn("extraction failed, restoring backup", "backup", paths.BackupDir)

	if pathExists(paths.RootDir) {
		if err := os.RemoveAll(paths.RootDir); err != nil {
			ins.logger.Error("could not remove partial installation", "root", paths.RootDir, "err", err)
			return
		}
	}
	if err := os.Rename(paths.BackupDir, paths.RootDir); err != nil {
		ins.logger.Error("could not restore backup", "backup", paths.BackupDir, "err", err)
	}
}

// downloadTo streams the release archive at url into the file at dest.
func (ins *Installer) downloadTo(ctx context.Context, url, dest string) (err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating download request: %w", err)
	}

	resp, err := ins.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating archive file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("writing archive: %w", err)
	}

	return nil
}
