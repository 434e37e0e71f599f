// SPDX-License-Identifier: MPL-2.0

package release

type (
	// Release is one installable version from the remote feed. It is
	// immutable after construction and only ends up in a Catalog when an
	// asset matched the current platform, so DownloadURL is never empty
	// for catalog entries.
	Release struct {
		// VersionString is the feed release name with the product prefix
		// stripped, e.g. "v2.1alpha3".
		VersionString string
		// Prerelease marks unstable (alpha/beta) versions.
		Prerelease bool
		// DownloadURL is the matched asset's direct download URL.
		DownloadURL string
	}

	// Catalog is an ordered mapping from version string to Release.
	// Insertion order equals feed order (typically newest-first) and is
	// never re-sorted. A Catalog is owned by its caller and rebuilt fresh
	// for every update invocation; nothing is cached across invocations.
	Catalog struct {
		order   []string
		entries map[string]Release
	}
)

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]Release)}
}

// Add inserts a release under its version string. Re-adding an existing
// version overwrites the entry but keeps its original position.
func (c *Catalog) Add(r Release) {
	if _, ok := c.entries[r.VersionString]; !ok {
		c.order = append(c.order, r.VersionString)
	}
	c.entries[r.VersionString] = r
}

// Get returns the release for the given version string.
func (c *Catalog) Get(version string) (Release, bool) {
	r, ok := c.entries[version]
	return r, ok
}

// Releases returns all releases in insertion order.
func (c *Catalog) Releases() []Release {
	out := make([]Release, 0, len(c.order))
	for _, v := range c.order {
		out = append(out, c.entries[v])
	}
	return out
}

// Len returns the number of releases in the catalog.
func (c *Catalog) Len() int {
	return len(c.order)
}
