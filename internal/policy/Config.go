// Package policy implements the Variant Policy Resolver: it merges
// package-metadata, CLI overrides, and toolchain CPU-model expansion into
// the canonically ordered set of FeatureSets the Compiler Driver must build.
package policy

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/poppolopoppo/multiarch/internal/base"
	"github.com/poppolopoppo/multiarch/internal/variant"
	"gopkg.in/yaml.v3"
)

var LogPolicy = base.NewLogCategory("Policy")

// ArchPolicy is one architecture's entry in the multiarch.yaml stanza: the
// CPU models to expand plus any explicit capability sets to build alongside
// them (spec §4.1's `{ cpus: set<CpuModel>, feature_lists: set<FeatureSet> }`).
type ArchPolicy struct {
	Cpus         []variant.CpuModel     `yaml:"cpus"`
	FeatureLists [][]variant.FeatureToken `yaml:"feature_lists"`
}

// Config is the Go-module-adjacent stand-in for Cargo.toml's custom
// `[package.metadata.multiarch]` table: Go modules have no per-package
// custom-metadata facility, so this is carried in a sibling
// "multiarch.yaml" file, read the same way a go.mod-adjacent config file is
// resolved elsewhere in this toolchain (a single ReadFile next to the
// module root, no search path).
type Config struct {
	Architectures map[string]ArchPolicy `yaml:"architectures"`
}

// LoadConfig reads multiarch.yaml from dir (typically the directory holding
// go.mod). A missing file is not an error: it yields an empty Config, since
// every field it would carry can be supplied instead via CLI overrides.
func LoadConfig(dir string) (Config, error) {
	path := filepath.Join(dir, "multiarch.yaml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{Architectures: map[string]ArchPolicy{}}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("policy: reading %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("policy: parsing %s: %w", path, err)
	}
	if cfg.Architectures == nil {
		cfg.Architectures = map[string]ArchPolicy{}
	}
	return cfg, nil
}
