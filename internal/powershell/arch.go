package powershell

import (
	"fmt"
	"strings"
)

// Architecture is the architecture a caller wants PowerShell to run under.
type Architecture int

const (
	// ArchUnspecified leaves the redirection state alone.
	ArchUnspecified Architecture = iota
	ArchI386
	ArchX86_64
)

func (a Architecture) String() string {
	switch a {
	case ArchUnspecified:
		return "unspecified"
	case ArchI386:
		return "i386"
	case ArchX86_64:
		return "x86_64"
	default:
		return fmt.Sprintf("Architecture(%d)", int(a))
	}
}

// ParseArchitecture parses an architecture name. The empty string maps to
// ArchUnspecified.
func ParseArchitecture(s string) (Architecture, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unspecified", "default":
		return ArchUnspecified, nil
	case "i386", "x86", "386", "32":
		return ArchI386, nil
	case "x86_64", "amd64", "x64", "64":
		return ArchX86_64, nil
	default:
		return ArchUnspecified, fmt.Errorf("unknown architecture %q", s)
	}
}

func (a Architecture) mode() Mode {
	switch a {
	case ArchI386:
		return ModeForced32
	case ArchX86_64:
		return ModeForced64
	default:
		return ModeNative
	}
}

// Mode is the process-wide state of the redirection layer.
type Mode int

const (
	ModeNative Mode = iota
	ModeForced32
	ModeForced64
)

func (m Mode) String() string {
	switch m {
	case ModeNative:
		return "native"
	case ModeForced32:
		return "forced-32-bit"
	case ModeForced64:
		return "forced-64-bit"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}
