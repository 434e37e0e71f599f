// SPDX-License-Identifier: MPL-2.0

// Package material maps material node inputs to renderer property strings.
// It is a thin declarative layer: socket values, linked/unlinked state,
// common inputs and color management all come from host collaborators
// behind small interfaces, and the output is a flat property bag the
// renderer consumes. Rendering itself, node-graph UI definitions and
// color-management logic live outside this package.
package material
