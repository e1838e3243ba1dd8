package toolchain

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"sync"

	"github.com/poppolopoppo/multiarch/internal/base"
)

var LogToolchain = base.NewLogCategory("Toolchain")

// goTool is the lazily-resolved path to the `go` binary, the Go-native
// analogue of the original's cached `RUSTC` static: located once per
// process and reused by every Compiler Driver invocation.
var (
	goToolOnce sync.Once
	goToolPath string
	goToolErr  error
)

// GoTool locates the `go` binary, preferring GOROOT/bin/go when GOROOT is
// set (the build that invoked this driver is the most trustworthy source of
// truth for which toolchain to drive), falling back to $PATH otherwise.
func GoTool() (string, error) {
	goToolOnce.Do(func() {
		if root := os.Getenv("GOROOT"); root != "" {
			candidate := root + string(os.PathSeparator) + "bin" + string(os.PathSeparator) + "go"
			if _, err := os.Stat(candidate); err == nil {
				goToolPath = candidate
				return
			}
		}
		path, err := exec.LookPath("go")
		if err != nil {
			goToolErr = fmt.Errorf("toolchain: could not locate go binary: %w", err)
			return
		}
		goToolPath = path
	})
	return goToolPath, goToolErr
}

var versionPattern = regexp.MustCompile(`go(\d+)\.(\d+)(?:\.(\d+))?`)

// GoVersion reports the {major, minor} version pair of the resolved go
// binary, as reported by `go version`.
func GoVersion(ctx context.Context) (major, minor int, err error) {
	tool, err := GoTool()
	if err != nil {
		return 0, 0, err
	}
	out, err := exec.CommandContext(ctx, tool, "version").Output()
	if err != nil {
		return 0, 0, fmt.Errorf("toolchain: go version: %w", err)
	}
	m := versionPattern.FindSubmatch(out)
	if m == nil {
		return 0, 0, fmt.Errorf("toolchain: could not parse go version output %q", out)
	}
	major, _ = strconv.Atoi(string(m[1]))
	minor, _ = strconv.Atoi(string(m[2]))
	return major, minor, nil
}

// MinimumMajor/MinimumMinor are the lowest (major, minor) this driver supports: GOAMD64
// levels above v1 require 1.18+, and the GOARM64 setting this driver relies
// on requires 1.21+. This is the Go-native equivalent of the original's
// "rustc must be a nightly toolchain" gate: a version floor the driver
// refuses to build below, checked once at startup.
const (
	MinimumMajor = 1
	MinimumMinor = 21
)

// CheckMinimumVersion fails fast if the resolved go binary is older than
// MinimumMajor.MinimumMinor, instead of letting an obscure GOARM64-unrecognized error
// surface from deep inside a variant build.
func CheckMinimumVersion(ctx context.Context) error {
	major, minor, err := GoVersion(ctx)
	if err != nil {
		return err
	}
	if major < MinimumMajor || (major == MinimumMajor && minor < MinimumMinor) {
		return fmt.Errorf("toolchain: go%d.%d.x is below the minimum supported go%d.%d (GOARM64 variant levels are unavailable below this)",
			major, minor, MinimumMajor, MinimumMinor)
	}
	base.LogVerbose(LogToolchain, "go toolchain go%d.%d accepted", major, minor)
	return nil
}
