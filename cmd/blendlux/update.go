// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/blendlux/blendlux/internal/hostenv"
	"github.com/blendlux/blendlux/internal/installer"
	"github.com/blendlux/blendlux/internal/release"
	"github.com/blendlux/blendlux/internal/selector"
)

// updateParams bundles the dependencies and flags for the update command,
// so the core logic in runUpdate can be tested without a real Cobra
// command or live feed requests.
type updateParams struct {
	stdout io.Writer
	stderr io.Writer

	client    *release.FeedClient
	installer *installer.Installer
	platform  hostenv.Descriptor

	currentVersion string
	installRoot    string
	target         string // target version (empty = interactive selection)

	// selectItem presents the version choice; replaced in tests.
	selectItem func([]selector.Item) (selector.Item, bool, error)
}

// newUpdateCommand creates `blendlux update`, which replaces the current
// installation with a selected release build, keeping a backup until the
// new version is fully extracted.
func newUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Download a different BlendLux version and replace this installation",
		Long: `Download a different BlendLux version and replace this installation.

Without flags, update fetches the release feed and presents the versions
that have a build for this platform and backend. The current installation
is renamed to a backup directory before the new build is extracted; on
any extraction failure the backup is restored unchanged.`,
		Example: `  # Pick a version interactively
  blendlux update

  # Install a specific version
  blendlux update --version v2.1

  # The installation was built with the accelerated backend
  blendlux update --accelerated`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			target, _ := cmd.Flags().GetString("version")
			installRoot, _ := cmd.Flags().GetString("install-root")

			accelerated := cfg.Backend.Accelerated
			if cmd.Flags().Changed("accelerated") {
				accelerated, _ = cmd.Flags().GetBool("accelerated")
			}

			if installRoot == "" {
				installRoot = cfg.Install.Root
			}
			if installRoot == "" {
				root, err := installer.DefaultInstallRoot()
				if err != nil {
					return fmt.Errorf("locating installation root: %w", err)
				}
				installRoot = root
			}

			logger := log.Default()

			client := release.NewFeedClient(
				release.WithFeedURL(cfg.Feed.URL),
				release.WithUserAgent("blendlux/"+Version),
				release.WithLogger(logger),
			)
			ins := installer.New(
				installer.WithHTTPClient(&http.Client{Timeout: cfg.Feed.Timeout}),
				installer.WithLogger(logger),
			)

			p := updateParams{
				stdout:         cmd.OutOrStdout(),
				stderr:         cmd.ErrOrStderr(),
				client:         client,
				installer:      ins,
				platform:       hostenv.Detect(accelerated),
				currentVersion: Version,
				installRoot:    installRoot,
				target:         target,
				selectItem:     selector.Prompt,
			}

			if err := runUpdate(cmd.Context(), p); err != nil {
				fmt.Fprintln(p.stderr, err.Error())
				return &ExitError{Code: classifyUpdateExitCode(err), Err: err}
			}

			return nil
		},
	}

	cmd.Flags().String("version", "", "install this version instead of prompting")
	cmd.Flags().String("install-root", "", "installation root directory (default: derived from the running binary)")
	cmd.Flags().Bool("accelerated", false, "the installation uses the accelerated renderer backend")

	return cmd
}

// runUpdate is the core update logic, separated from Cobra for
// testability. All user-facing output goes through p.stdout and p.stderr.
//
// Flow:
//  1. Fetch the release feed and build the catalog for this platform.
//  2. Present the selectable versions (or resolve the --version flag).
//  3. Derive the installation paths from the current filesystem state.
//  4. Install: download, backup, extract, cleanup or rollback.
func runUpdate(ctx context.Context, p updateParams) error {
	catalog, err := p.client.FetchReleases(ctx, p.platform)
	if err != nil {
		return err
	}

	items := selector.Items(catalog, p.currentVersion)
	if len(items) == 0 {
		fmt.Fprintln(p.stdout, "No installable releases found for this platform.")
		return nil
	}

	var chosen selector.Item
	if p.target != "" {
		found := false
		for _, item := range items {
			if item.Version == p.target {
				chosen = item
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("version %q has no build for this platform in the release feed", p.target)
		}
	} else {
		item, ok, selErr := p.selectItem(items)
		if selErr != nil {
			return fmt.Errorf("selecting version: %w", selErr)
		}
		if !ok {
			fmt.Fprintln(p.stdout, "Update cancelled.")
			return nil
		}
		chosen = item
	}

	selected, ok := catalog.Get(chosen.Version)
	if !ok {
		return fmt.Errorf("version %q disappeared from the catalog", chosen.Version)
	}

	paths, err := installer.DerivePaths(p.installRoot)
	if err != nil {
		return err
	}

	outcome, err := p.installer.Install(ctx, selected, p.currentVersion, paths)
	if err != nil {
		return err
	}

	if outcome == installer.OutcomeSuccessRestartRequired {
		fmt.Fprintf(p.stdout, "Changed to version %s.\n", selected.VersionString)
		fmt.Fprintln(p.stdout, WarningStyle.Render(outcome.Message()))
	}

	return nil
}

// classifyUpdateExitCode maps an update error to the process exit code.
// User-correctable conditions use exit code 1; unexpected or transient
// failures use exit code 2.
func classifyUpdateExitCode(err error) int {
	var unsupported *hostenv.UnsupportedSystemError
	switch {
	case errors.Is(err, installer.ErrAlreadyInstalled):
		return 1
	case errors.As(err, &unsupported):
		return 1
	default:
		return 2
	}
}
