package variant

import (
	"fmt"
	"runtime"
	"strings"
)

// CpuModel names a concrete CPU the Policy Resolver can expand into a
// FeatureSet by querying the toolchain, e.g. "x86-64-v3" or "apple-m1".
type CpuModel string

// Triple stands in for the original's LLVM target triple. Go has no triple
// concept of its own; a GOOS/GOARCH pair (plus an optional ABI suffix, e.g.
// "arm-linux-gnueabihf" style hard/soft-float tags on arm) carries the same
// information the Policy Resolver and Compiler Driver need: which
// architecture key to index per-arch policy with, and which env vars
// (GOOS/GOARCH/GOARM/...) to set on the compiler subprocess.
type Triple struct {
	Arch string // Go's GOARCH, e.g. "amd64", "arm64"
	OS   string // Go's GOOS, e.g. "linux", "darwin", "windows"
	ABI  string // optional, e.g. "" or "softfloat"
}

func HostTriple() Triple {
	return Triple{Arch: runtime.GOARCH, OS: runtime.GOOS}
}

// ParseTriple accepts the Go-native "<arch>-<os>[-<abi>]" spelling, e.g.
// "amd64-linux" or "arm64-darwin", the GOARCH/GOOS analogue of the original
// "x86_64-unknown-linux-gnu" LLVM triples.
func ParseTriple(s string) (Triple, error) {
	parts := strings.Split(s, "-")
	if len(parts) < 2 {
		return Triple{}, fmt.Errorf("variant: invalid target triple %q, expected <arch>-<os>[-<abi>]", s)
	}
	t := Triple{Arch: parts[0], OS: parts[1]}
	if len(parts) > 2 {
		t.ABI = strings.Join(parts[2:], "-")
	}
	return t, nil
}

func (t Triple) String() string {
	if t.ABI != "" {
		return fmt.Sprintf("%s-%s-%s", t.Arch, t.OS, t.ABI)
	}
	return fmt.Sprintf("%s-%s", t.Arch, t.OS)
}

// Architecture is the key used to look up per-architecture policy, the
// Go-native equivalent of target_lexicon::Architecture.
func (t Triple) Architecture() string { return t.Arch }
