// SPDX-License-Identifier: MPL-2.0

package main

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/blendlux/blendlux/internal/hostenv"
	"github.com/blendlux/blendlux/internal/installer"
	"github.com/blendlux/blendlux/internal/release"
	"github.com/blendlux/blendlux/internal/selector"
)

type (
	feedRelease struct {
		Name       string      `json:"name"`
		Prerelease bool        `json:"prerelease"`
		Assets     []feedAsset `json:"assets"`
	}

	feedAsset struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	}
)

// updateServer serves the release feed under /releases and archive files
// under their /dl/ paths. The feed is assigned after construction so
// asset URLs can point back at the server itself.
type updateServer struct {
	*httptest.Server
	feed     []feedRelease
	archives map[string][]byte
}

func newUpdateServer(t *testing.T) *updateServer {
	t.Helper()

	us := &updateServer{archives: make(map[string][]byte)}
	us.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/releases") {
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(us.feed); err != nil {
				t.Errorf("encoding feed: %v", err)
			}
			return
		}
		if data, ok := us.archives[r.URL.Path]; ok {
			if _, err := w.Write(data); err != nil {
				t.Errorf("writing archive: %v", err)
			}
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(us.Close)

	return us
}

// addRelease registers one feed entry whose single asset is served by the
// test server itself.
func (us *updateServer) addRelease(version, assetName string, archive []byte) {
	path := "/dl/" + assetName
	us.archives[path] = archive
	us.feed = append(us.feed, feedRelease{
		Name: "BlendLux " + version,
		Assets: []feedAsset{{
			Name:               assetName,
			BrowserDownloadURL: us.URL + path,
		}},
	})
}

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating zip entry: %v", err)
		}
		if _, err := io.WriteString(w, content); err != nil {
			t.Fatalf("writing zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}

	return buf.Bytes()
}

// newTestParams wires updateParams against the given server, with an
// installed v2.0 tree in a fresh temp parent directory.
func newTestParams(t *testing.T, srv *updateServer) (updateParams, string, *bytes.Buffer) {
	t.Helper()

	parent := t.TempDir()
	root := filepath.Join(parent, "BlendLux")
	if err := os.MkdirAll(filepath.Join(root, "bin"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "version.txt"), []byte("v2.0"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	logger := log.New(io.Discard)

	p := updateParams{
		stdout: &stdout,
		stderr: io.Discard,
		client: release.NewFeedClient(
			release.WithFeedURL(srv.URL+"/releases"),
			release.WithLogger(logger),
		),
		installer:      installer.New(installer.WithLogger(logger)),
		platform:       hostenv.DetectFrom("linux", false),
		currentVersion: "v2.0",
		installRoot:    root,
		selectItem: func(items []selector.Item) (selector.Item, bool, error) {
			return selector.Item{}, false, nil
		},
	}

	return p, root, &stdout
}

func TestRunUpdate_InstallsTargetVersion(t *testing.T) {
	srv := newUpdateServer(t)
	srv.addRelease("v2.1", "BlendLux-v2.1-linux64.zip", buildZip(t, map[string]string{
		"BlendLux/version.txt": "v2.1",
	}))

	p, root, stdout := newTestParams(t, srv)
	p.target = "v2.1"

	if err := runUpdate(context.Background(), p); err != nil {
		t.Fatalf("runUpdate() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "version.txt"))
	if err != nil {
		t.Fatalf("reading installed version: %v", err)
	}
	if string(data) != "v2.1" {
		t.Errorf("installed version = %q, want v2.1", data)
	}
	if !strings.Contains(stdout.String(), "Restart Blender!") {
		t.Errorf("stdout = %q, want restart message", stdout.String())
	}
}

func TestRunUpdate_InteractiveSelection(t *testing.T) {
	srv := newUpdateServer(t)
	srv.addRelease("v2.1", "BlendLux-v2.1-linux64.zip", buildZip(t, map[string]string{
		"BlendLux/version.txt": "v2.1",
	}))

	p, root, _ := newTestParams(t, srv)
	p.selectItem = func(items []selector.Item) (selector.Item, bool, error) {
		if len(items) != 1 {
			t.Fatalf("prompt got %d items, want 1", len(items))
		}
		return items[0], true, nil
	}

	if err := runUpdate(context.Background(), p); err != nil {
		t.Fatalf("runUpdate() error = %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(root, "version.txt"))
	if string(data) != "v2.1" {
		t.Errorf("installed version = %q, want v2.1", data)
	}
}

func TestRunUpdate_CancelledSelection(t *testing.T) {
	srv := newUpdateServer(t)
	srv.addRelease("v2.1", "BlendLux-v2.1-linux64.zip", nil)

	p, root, stdout := newTestParams(t, srv)

	if err := runUpdate(context.Background(), p); err != nil {
		t.Fatalf("runUpdate() error = %v", err)
	}
	if !strings.Contains(stdout.String(), "Update cancelled.") {
		t.Errorf("stdout = %q, want cancellation notice", stdout.String())
	}
	if data, _ := os.ReadFile(filepath.Join(root, "version.txt")); string(data) != "v2.0" {
		t.Error("cancelled update still touched the installation")
	}
}

func TestRunUpdate_NoInstallableReleases(t *testing.T) {
	srv := newUpdateServer(t)
	srv.addRelease("v2.1", "BlendLux-v2.1-win64.zip", nil)

	p, _, stdout := newTestParams(t, srv)

	if err := runUpdate(context.Background(), p); err != nil {
		t.Fatalf("runUpdate() error = %v", err)
	}
	if !strings.Contains(stdout.String(), "No installable releases found") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRunUpdate_TargetWithoutBuild(t *testing.T) {
	srv := newUpdateServer(t)
	srv.addRelease("v2.1", "BlendLux-v2.1-linux64.zip", nil)

	p, _, _ := newTestParams(t, srv)
	p.target = "v9.9"

	err := runUpdate(context.Background(), p)
	if err == nil || !strings.Contains(err.Error(), `"v9.9"`) {
		t.Fatalf("runUpdate() error = %v, want unknown-version failure", err)
	}
}

func TestRunUpdate_AlreadyInstalled(t *testing.T) {
	srv := newUpdateServer(t)
	srv.addRelease("v2.0", "BlendLux-v2.0-linux64.zip", nil)

	p, _, _ := newTestParams(t, srv)
	p.target = "v2.0"

	err := runUpdate(context.Background(), p)
	if !errors.Is(err, installer.ErrAlreadyInstalled) {
		t.Fatalf("runUpdate() error = %v, want ErrAlreadyInstalled", err)
	}
	if err.Error() != "This is the currently installed version" {
		t.Errorf("error message = %q", err.Error())
	}
	if classifyUpdateExitCode(err) != 1 {
		t.Errorf("exit code = %d, want 1", classifyUpdateExitCode(err))
	}
}

func TestRunUpdate_FeedErrors(t *testing.T) {
	t.Run("response not ok", func(t *testing.T) {
		notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		t.Cleanup(notFound.Close)

		p, _, _ := newTestParams(t, newUpdateServer(t))
		p.client = release.NewFeedClient(
			release.WithFeedURL(notFound.URL),
			release.WithLogger(log.New(io.Discard)),
		)

		err := runUpdate(context.Background(), p)
		if !errors.Is(err, release.ErrResponseNotOK) {
			t.Fatalf("runUpdate() error = %v, want ErrResponseNotOK", err)
		}
		if err.Error() != "Response not ok" {
			t.Errorf("error message = %q", err.Error())
		}
	})

	t.Run("unsupported system", func(t *testing.T) {
		p, _, _ := newTestParams(t, newUpdateServer(t))
		p.platform = hostenv.DetectFrom("darwin", false)

		err := runUpdate(context.Background(), p)
		if err == nil || err.Error() != "Unsupported system: darwin" {
			t.Fatalf("runUpdate() error = %v, want unsupported-system failure", err)
		}
		if classifyUpdateExitCode(err) != 1 {
			t.Errorf("exit code = %d, want 1", classifyUpdateExitCode(err))
		}
	})
}
