// SPDX-License-Identifier: MPL-2.0

package material

import (
	"errors"
	"fmt"
)

// Matte is the (rough) matte material node. A sigma of zero exports as
// pure Lambertian "matte"; any other sigma switches the type to
// "roughmatte" and exports the sigma value alongside.
type Matte struct {
	// DiffuseColor is the kd input socket.
	DiffuseColor Socket
	// Sigma is the surface roughness socket, 0 for pure Lambertian
	// reflection.
	Sigma Socket
	// Common exports the inputs shared by all material nodes. Optional.
	Common CommonInputs
	// ColorSpace wraps unlinked color defaults with the active
	// color-management parameters. Optional.
	ColorSpace ColorSpace
}

// Export writes the node's properties into ctx.Props under the given
// material name and returns that name.
func (m *Matte) Export(ctx *ExportContext, name string) (string, error) {
	if m.DiffuseColor == nil || m.Sigma == nil {
		return "", errors.New("matte node is missing input sockets")
	}

	sigma, err := m.Sigma.Export(ctx)
	if err != nil {
		return "", fmt.Errorf("exporting sigma: %w", err)
	}

	kd, err := m.DiffuseColor.Export(ctx)
	if err != nil {
		return "", fmt.Errorf("exporting diffuse color: %w", err)
	}

	matType := "roughmatte"
	if s, ok := sigma.(Float); ok && s == 0 {
		matType = "matte"
	}

	defs := NewDefinitions()
	defs.Set("type", String(matType))
	defs.Set("kd", kd)
	if matType == "roughmatte" {
		defs.Set("sigma", sigma)
	}

	// Unlinked color defaults carry the scene's color-management
	// parameters; linked inputs already went through their own export.
	if !m.DiffuseColor.IsLinked() && m.ColorSpace != nil {
		if c, ok := kd.(Color); ok {
			defs.Set("kd", m.ColorSpace.Wrap(c))
		}
	}

	if m.Common != nil {
		if err := m.Common.ExportCommon(ctx, defs); err != nil {
			return "", fmt.Errorf("exporting common inputs: %w", err)
		}
	}

	return CreateProps(ctx.Props, defs, name), nil
}
