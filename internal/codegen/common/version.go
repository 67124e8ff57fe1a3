package common

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Version is set via ldflags at build time: -ldflags "-X github.com/hades-lang/cstub/internal/codegen/common.Version=x.y.z"
var Version = ""

// GetVersion returns the version set at build time via ldflags, falling back
// to the module version recorded by `go install`. Development builds report
// "0.0.1-dev".
func GetVersion() (string, error) {
	v := Version
	if v == "" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	if v == "" {
		return "0.0.1-dev", nil
	}

	version := strings.TrimPrefix(v, "v")
	baseVersion := strings.SplitN(version, "-", 2)[0]
	if !strings.Contains(baseVersion, ".") {
		return "", fmt.Errorf("invalid version format: %s (expected x.y.z)", v)
	}

	return version, nil
}
