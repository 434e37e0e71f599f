// SPDX-License-Identifier: MPL-2.0

// Package hostenv describes the environment the BlendLux installation runs
// in: the operating system family and whether the installed build carries
// the accelerated (GPU-capable) renderer backend. Release assets are
// published per platform/backend combination, so both values are needed to
// pick the right download.
package hostenv

import "runtime"

const (
	// FamilyUnsupported covers every operating system BlendLux has no
	// release builds for.
	FamilyUnsupported Family = iota
	// FamilyLinux maps to the "linux64" asset system segment.
	FamilyLinux
	// FamilyWindows maps to the "win64" asset system segment.
	FamilyWindows
)

type (
	// Family is the operating system family of the host.
	Family int

	// Descriptor captures the platform/backend combination of the current
	// installation. It is derived once per update invocation and read-only
	// afterwards.
	Descriptor struct {
		// Family is the detected OS family.
		Family Family
		// Accelerated reports whether the installed build includes the
		// accelerated renderer backend. The original addon asked the
		// embedded renderer; the Go plugin records the installed variant
		// in its configuration instead.
		Accelerated bool

		// goos is kept for the "Unsupported system" message.
		goos string
	}

	// UnsupportedSystemError is returned when the host OS has no release
	// builds. Its message wording is part of the operator contract.
	UnsupportedSystemError struct {
		System string
	}
)

// Error returns the contract-exact message shown to the user.
func (e *UnsupportedSystemError) Error() string {
	return "Unsupported system: " + e.System
}

// String returns a human-readable name for the OS family.
func (f Family) String() string {
	switch f {
	case FamilyLinux:
		return "linux"
	case FamilyWindows:
		return "windows"
	}
	return "unsupported"
}

// Detect builds a Descriptor for the running process. The accelerated flag
// comes from the caller because it is a property of the installed build,
// not of the OS.
func Detect(accelerated bool) Descriptor {
	return DetectFrom(runtime.GOOS, accelerated)
}

// DetectFrom is Detect for an explicit GOOS value, used by tests and by
// callers that already resolved the platform.
func DetectFrom(goos string, accelerated bool) Descriptor {
	d := Descriptor{Accelerated: accelerated, goos: goos}
	switch goos {
	case "linux":
		d.Family = FamilyLinux
	case "windows":
		d.Family = FamilyWindows
	default:
		d.Family = FamilyUnsupported
	}
	return d
}

// SystemID returns the asset system segment for the descriptor ("linux64"
// or "win64"). Any other host OS fails the whole fetch with an
// UnsupportedSystemError.
func (d Descriptor) SystemID() (string, error) {
	switch d.Family {
	case FamilyLinux:
		return "linux64", nil
	case FamilyWindows:
		return "win64", nil
	}
	return "", &UnsupportedSystemError{System: d.goos}
}
