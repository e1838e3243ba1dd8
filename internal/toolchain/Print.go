package toolchain

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/poppolopoppo/multiarch/internal/variant"
)

// TargetList is the Go-native analogue of `rustc --print target-list`: the
// fixed set of GOOS/GOARCH pairs `go tool dist list` knows how to produce.
// Supplemented from original_source/ (the original exposes this as a
// diagnostics-only query surface, out of the core build path but worth
// keeping for `multiarch --print target-list` parity).
func TargetList(ctx context.Context) ([]variant.Triple, error) {
	tool, err := GoTool()
	if err != nil {
		return nil, err
	}
	out, err := exec.CommandContext(ctx, tool, "tool", "dist", "list").Output()
	if err != nil {
		return nil, fmt.Errorf("toolchain: go tool dist list: %w", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	triples := make([]variant.Triple, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "/", 2)
		if len(parts) != 2 {
			continue
		}
		triples = append(triples, variant.Triple{OS: parts[0], Arch: parts[1]})
	}
	return triples, nil
}

// TargetCPUModels is the Go-native analogue of `rustc --print target-cpus`
// for a given triple: the named CpuModels this driver knows how to expand
// via CpuFeaturesForModel.
func TargetCPUModels(triple variant.Triple) ([]variant.CpuModel, error) {
	var table map[variant.CpuModel][]variant.FeatureToken
	switch triple.Architecture() {
	case "amd64":
		table = x86_64Levels
	case "arm64":
		table = arm64Levels
	default:
		return nil, fmt.Errorf("toolchain: no known CPU models for architecture %q", triple.Architecture())
	}
	models := make([]variant.CpuModel, 0, len(table))
	for model := range table {
		models = append(models, model)
	}
	return models, nil
}

// TargetCPUFeatures is the Go-native analogue of
// `rustc --print target-cpu-features`: the feature tokens a given CpuModel
// expands to on a given triple, exposed for the `--print` diagnostics
// subcommand.
func TargetCPUFeatures(triple variant.Triple, model variant.CpuModel) (variant.FeatureSet, error) {
	return CpuFeaturesForModel(triple, model)
}
