// SPDX-License-Identifier: MPL-2.0

package material

type (
	// ExportContext carries the state one export pass shares between
	// nodes. Sockets that resolve to textures append their own
	// properties to Props and return a NodeRef.
	ExportContext struct {
		Props *Props
	}

	// Socket is the host's node-graph input. A linked socket exports
	// whatever feeds it (usually a NodeRef); an unlinked one exports its
	// default value (Float or Color).
	Socket interface {
		Export(ctx *ExportContext) (Value, error)
		IsLinked() bool
	}

	// CommonInputs exports the inputs every material node shares (bump,
	// emission, opacity and the like) into the node's definitions. The
	// host supplies the implementation.
	CommonInputs interface {
		ExportCommon(ctx *ExportContext, defs *Definitions) error
	}

	// ColorSpace wraps a raw color value with the active color-management
	// parameters. Color management itself is the host's concern; nodes
	// only apply the wrapping to unlinked color inputs.
	ColorSpace interface {
		Wrap(c Color) Value
	}
)
