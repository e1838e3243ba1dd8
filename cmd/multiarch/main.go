// Command multiarch drives the full cargo-multiarch-equivalent pipeline:
// policy resolution, per-variant compilation, deduplication, patch/pack
// generation, launcher synthesis, and the diagnostic --print query surface.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/poppolopoppo/multiarch/internal/base"
	"github.com/poppolopoppo/multiarch/internal/compiler"
	"github.com/poppolopoppo/multiarch/internal/dedup"
	"github.com/poppolopoppo/multiarch/internal/launcher"
	"github.com/poppolopoppo/multiarch/internal/pack"
	"github.com/poppolopoppo/multiarch/internal/policy"
	"github.com/poppolopoppo/multiarch/internal/toolchain"
	"github.com/poppolopoppo/multiarch/internal/variant"
	"github.com/spf13/cobra"
)

var LogMain = base.NewLogCategory("Multiarch")

type rootFlags struct {
	target      string
	cpus        []string
	cpuFeatures []string
	outDir      string
	profile     string
	print       string
	targetCPU   string
	verbose     bool
}

func main() {
	var flags rootFlags

	root := &cobra.Command{
		Use:   "multiarch [flags] [-- compiler-args]",
		Short: "build and pack CPU-feature-variant fat binaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.verbose {
				base.SetLogLevel(base.LOG_VERBOSE)
			}
			extraFlags := args
			if dash := cmd.ArgsLenAtDash(); dash >= 0 {
				extraFlags = args[dash:]
			}
			return run(cmd.Context(), flags, extraFlags)
		},
	}

	root.Flags().StringVar(&flags.target, "target", "", "target triple (<arch>-<os>[-<abi>]); defaults to host")
	root.Flags().StringSliceVar(&flags.cpus, "cpus", nil, "comma-separated CPU model names; overrides metadata")
	root.Flags().StringSliceVarP(&flags.cpuFeatures, "cpufeatures", "c", nil, "comma-separated feature tokens, one FeatureSet; overrides metadata")
	root.Flags().StringVarP(&flags.outDir, "out-dir", "o", "", "copy the final fat binary here")
	root.Flags().StringVar(&flags.profile, "profile", "release", "build profile")
	root.Flags().StringVarP(&flags.print, "print", "p", "", "print target-list, target-cpus, or target-cpu-features instead of building")
	root.Flags().StringVar(&flags.targetCPU, "target-cpu", "", "CPU model for the target-cpu-features query")
	root.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "verbose logging")

	if err := root.Execute(); err != nil {
		base.LogError(LogMain, "%v", err)
		os.Exit(1)
	}
}

func resolveTriple(flags rootFlags) (variant.Triple, error) {
	if flags.target == "" {
		return variant.HostTriple(), nil
	}
	return variant.ParseTriple(flags.target)
}

func run(ctx context.Context, flags rootFlags, extraFlags []string) error {
	triple, err := resolveTriple(flags)
	if err != nil {
		return err
	}

	if flags.print != "" {
		return runPrint(ctx, flags, triple)
	}

	pkgDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("multiarch: %w", err)
	}

	cfg, err := policy.LoadConfig(pkgDir)
	if err != nil {
		return err
	}

	overrides := policy.Overrides{}
	for _, c := range flags.cpus {
		overrides.Cpus = append(overrides.Cpus, variant.CpuModel(c))
	}
	for _, f := range flags.cpuFeatures {
		overrides.FeatureList = append(overrides.FeatureList, variant.FeatureToken(f))
	}

	featureSets, err := policy.Resolve(cfg, overrides, triple)
	if err != nil {
		return err
	}

	scratchDir := filepath.Join(pkgDir, "cargo-multiarch")
	if err := os.MkdirAll(scratchDir, 0o755); err != nil {
		return fmt.Errorf("multiarch: creating scratch dir: %w", err)
	}

	// Invariant 3/4: exactly one fallback, the empty FeatureSet, must be
	// present among the variants built, even if policy never names it
	// explicitly -- the dispatcher has nothing to fall back to otherwise.
	hasFallback := false
	for _, fs := range featureSets {
		if fs.Empty() {
			hasFallback = true
			break
		}
	}
	if !hasFallback {
		featureSets = append([]variant.FeatureSet{variant.NewFeatureSet()}, featureSets...)
	}

	if len(featureSets) == 1 {
		base.LogInfo(LogMain, "1 variant configured, no dispatcher needed")
	}

	var built []variant.BuiltVariant
	for _, fs := range featureSets {
		spec := variant.VariantSpec{Target: triple, Features: fs}
		profile := compiler.ProfileRelease
		if flags.profile == "dev" {
			profile = compiler.ProfileDev
		}
		b, err := compiler.Compile(ctx, pkgDir, scratchDir, spec, profile, extraFlags, compiler.PackageFeatures{All: true})
		if err != nil {
			return fmt.Errorf("multiarch: %w", err)
		}
		built = append(built, b)
	}

	if len(built) == 1 {
		return finalizeSingleVariant(built[0], flags.outDir)
	}

	manifest := dedup.BuildManifest(built)
	manifestPath := filepath.Join(scratchDir, "manifest.json")
	if err := variant.WriteManifestFile(manifestPath, manifest); err != nil {
		return fmt.Errorf("multiarch: %w", err)
	}
	os.Setenv("MULTIARCH_ARTIFACTS", manifestPath)

	image, err := pack.BuildFatBinImage(manifest)
	if err != nil {
		return fmt.Errorf("multiarch: %w", err)
	}

	tracePath := filepath.Join(scratchDir, "pack-trace.log.lz4")
	if err := pack.WriteDebugTrace(tracePath, manifest, image); err != nil {
		base.LogWarning(LogMain, "could not write pack debug trace: %v", err)
	}

	originalBasename := manifest.Bins[0].OriginalBasename
	if originalBasename == "" {
		originalBasename = filepath.Base(pkgDir)
	}
	finalPath, err := launcher.Generate(ctx, filepath.Join(scratchDir, "launcher"), image, originalBasename)
	if err != nil {
		return fmt.Errorf("multiarch: %w", err)
	}

	return deliver(finalPath, flags.outDir)
}

// finalizeSingleVariant delivers the lone built variant under its original
// basename rather than its scratch name (e.g. "bin-default"), mirroring
// handle_single_arch's rename to original_filename: there is no dispatcher
// to hide the scratch naming scheme behind, so the artifact the user asked
// to build must leave with the name they expect.
func finalizeSingleVariant(b variant.BuiltVariant, outDir string) error {
	base.LogClaim(LogMain, "single variant built, skipping dispatcher packaging: %s", b.Path)
	return deliverAs(b.Path, b.OriginalBasename, outDir)
}

func deliver(path, outDir string) error {
	return deliverAs(path, filepath.Base(path), outDir)
}

func deliverAs(path, basename, outDir string) error {
	if outDir == "" {
		return nil
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("multiarch: creating out-dir: %w", err)
	}
	if basename == "" {
		basename = filepath.Base(path)
	}
	dest := filepath.Join(outDir, basename)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("multiarch: reading %s: %w", path, err)
	}
	if err := os.WriteFile(dest, data, 0o755); err != nil {
		return fmt.Errorf("multiarch: writing %s: %w", dest, err)
	}
	base.LogClaim(LogMain, "delivered %s", dest)
	return nil
}

func runPrint(ctx context.Context, flags rootFlags, triple variant.Triple) error {
	switch flags.print {
	case "target-list":
		triples, err := toolchain.TargetList(ctx)
		if err != nil {
			return err
		}
		for _, t := range triples {
			fmt.Println(t)
		}
	case "target-cpus":
		models, err := toolchain.TargetCPUModels(triple)
		if err != nil {
			return err
		}
		for _, m := range models {
			fmt.Println(m)
		}
	case "target-cpu-features":
		if flags.targetCPU == "" {
			return fmt.Errorf("multiarch: --target-cpu is required for --print target-cpu-features")
		}
		fs, err := toolchain.TargetCPUFeatures(triple, variant.CpuModel(flags.targetCPU))
		if err != nil {
			return err
		}
		fmt.Println(fs)
	default:
		return fmt.Errorf("multiarch: unknown --print query %q (expected target-list, target-cpus, or target-cpu-features)", flags.print)
	}
	return nil
}
