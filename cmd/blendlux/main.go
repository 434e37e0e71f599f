// SPDX-License-Identifier: MPL-2.0

// Command blendlux is the BlendLux plugin companion. It manages the
// addon installation on disk, most importantly switching the installed
// version via the release feed.
package main

func main() {
	Execute()
}
