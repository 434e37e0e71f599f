// SPDX-License-Identifier: MPL-2.0

package release

import "strings"

const (
	// assetPrefix and assetSuffix bound the portion of an asset name that
	// carries version, system and backend information, e.g.
	// "BlendLux-v2.1-linux64-opencl.zip".
	assetPrefix = "BlendLux-"
	assetSuffix = ".zip"
)

// Asset is a single downloadable archive attached to a feed release, one
// per platform/backend combination.
type Asset struct {
	// Name follows the convention BlendLux-<version>-<system>[-<backend>].zip.
	Name string
	// BrowserDownloadURL is the direct download URL.
	BrowserDownloadURL string
}

// MatchAsset selects the download URL of the first asset built for the
// given system segment and accelerated-backend flag. Asset names are split
// on "-" after stripping the product prefix and ".zip" suffix: two segments
// mean a non-accelerated build, three mean an accelerated build (the third
// segment is a backend tag that is not otherwise inspected). Any other
// segment count is a legacy naming scheme and the asset is silently
// skipped. The first match wins; remaining assets are not scanned.
//
// A release where no asset matches yields ok == false and must not be
// presented as selectable.
func MatchAsset(assets []Asset, system string, accelerated bool) (url string, ok bool) {
	for _, asset := range assets {
		middle := strings.TrimSuffix(strings.TrimPrefix(asset.Name, assetPrefix), assetSuffix)
		parts := strings.Split(middle, "-")

		var assetSystem string
		var assetAccelerated bool
		switch len(parts) {
		case 2:
			assetSystem = parts[1]
		case 3:
			assetSystem = parts[1]
			assetAccelerated = true
		default:
			// Old releases used a different naming scheme; those builds
			// are not supported.
			continue
		}

		if assetSystem == system && assetAccelerated == accelerated {
			return asset.BrowserDownloadURL, true
		}
	}
	return "", false
}
