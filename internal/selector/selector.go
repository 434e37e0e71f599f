// SPDX-License-Identifier: MPL-2.0

// Package selector turns a release catalog into the ordered list of
// selectable versions presented to the user, annotated with installed and
// unstable markers.
package selector

import (
	"github.com/blendlux/blendlux/internal/release"
)

const (
	// AnnotationInstalled marks the currently installed version. It takes
	// priority over every other annotation.
	AnnotationInstalled = "installed"
	// AnnotationUnstable marks alpha/beta versions.
	AnnotationUnstable = "unstable"
)

// Item is one selectable version.
type Item struct {
	Version    string
	Annotation string // "installed", "unstable" or empty
	Installed  bool
	Prerelease bool
}

// Items builds the selectable list from the catalog. Order follows the
// catalog (remote feed order, typically newest-first) and is never
// re-sorted. Annotations are mutually exclusive: installed wins over
// unstable, everything else gets none.
func Items(catalog *release.Catalog, currentVersion string) []Item {
	releases := catalog.Releases()
	items := make([]Item, 0, len(releases))

	for _, r := range releases {
		item := Item{
			Version:    r.VersionString,
			Installed:  r.VersionString == currentVersion,
			Prerelease: r.Prerelease,
		}
		switch {
		case item.Installed:
			item.Annotation = AnnotationInstalled
		case item.Prerelease:
			item.Annotation = AnnotationUnstable
		}
		items = append(items, item)
	}

	return items
}
