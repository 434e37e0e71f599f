// SPDX-License-Identifier: MPL-2.0

package hostenv

import (
	"errors"
	"testing"
)

func TestDetectFrom(t *testing.T) {
	tests := []struct {
		name        string
		goos        string
		accelerated bool
		wantFamily  Family
	}{
		{name: "linux", goos: "linux", wantFamily: FamilyLinux},
		{name: "linux accelerated", goos: "linux", accelerated: true, wantFamily: FamilyLinux},
		{name: "windows", goos: "windows", wantFamily: FamilyWindows},
		{name: "darwin is unsupported", goos: "darwin", wantFamily: FamilyUnsupported},
		{name: "freebsd is unsupported", goos: "freebsd", wantFamily: FamilyUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DetectFrom(tt.goos, tt.accelerated)
			if d.Family != tt.wantFamily {
				t.Errorf("DetectFrom(%q).Family = %v, want %v", tt.goos, d.Family, tt.wantFamily)
			}
			if d.Accelerated != tt.accelerated {
				t.Errorf("DetectFrom(%q).Accelerated = %v, want %v", tt.goos, d.Accelerated, tt.accelerated)
			}
		})
	}
}

func TestSystemID(t *testing.T) {
	tests := []struct {
		goos    string
		want    string
		wantErr bool
	}{
		{goos: "linux", want: "linux64"},
		{goos: "windows", want: "win64"},
		{goos: "darwin", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			got, err := DetectFrom(tt.goos, false).SystemID()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("SystemID() = %q, want error", got)
				}
				var use *UnsupportedSystemError
				if !errors.As(err, &use) {
					t.Fatalf("SystemID() error = %T, want *UnsupportedSystemError", err)
				}
				if want := "Unsupported system: " + tt.goos; err.Error() != want {
					t.Errorf("error message = %q, want %q", err.Error(), want)
				}
				return
			}
			if err != nil {
				t.Fatalf("SystemID() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("SystemID() = %q, want %q", got, tt.want)
			}
		})
	}
}
