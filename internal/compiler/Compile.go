// Package compiler implements the Compiler Driver: it turns a single
// VariantSpec into a built, hashed, scratch-path executable by invoking the
// Go toolchain as a subprocess, the way compile_multiarch.rs drives rustc.
package compiler

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/poppolopoppo/multiarch/internal/base"
	"github.com/poppolopoppo/multiarch/internal/toolchain"
	"github.com/poppolopoppo/multiarch/internal/variant"
)

var LogCompiler = base.NewLogCategory("Compiler")

// PackageFeatures is the Go-native analogue of Cargo's package-feature
// selection descriptor (spec §4.2): "all", "none", or an explicit list of
// Go build tags to pass through -tags.
type PackageFeatures struct {
	All  bool
	None bool
	Tags []string
}

func (p PackageFeatures) buildTags() string {
	if p.All || p.None || len(p.Tags) == 0 {
		return ""
	}
	out := p.Tags[0]
	for _, t := range p.Tags[1:] {
		out += "," + t
	}
	return out
}

// Profile names a build profile the way spec §4.2 does: "release" or "dev".
// Release adds `-s -w` to the linker flags to strip symbols; dev does not.
// Neither changes compiler optimization flags.
type Profile string

const (
	ProfileRelease Profile = "release"
	ProfileDev     Profile = "dev"
)

// FailureKind taxonomizes why Compile failed, per spec §4.2/§7: the caller
// needs to distinguish "the compiler itself errored" from "we could not
// locate what it built" from "hashing the result failed".
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureToolchain
	FailureBuild
	FailureArtifactNotFound
	FailureHash
)

type CompileError struct {
	Kind FailureKind
	Err  error
}

func (e *CompileError) Error() string { return e.Err.Error() }
func (e *CompileError) Unwrap() error { return e.Err }

func fail(kind FailureKind, format string, args ...interface{}) *CompileError {
	return &CompileError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// buildEvent mirrors the subset of `go build -json`'s BuildEvent stream this
// driver needs: the ImportPath and the Output/Action fields that let it
// locate the produced executable, the direct analogue of scanning Cargo's
// `--message-format=json` compiler-artifact messages.
type buildEvent struct {
	ImportPath string `json:"ImportPath"`
	Action     string `json:"Action"`
	Output     string `json:"Output"`
}

// Compile drives the Go toolchain to build pkgDir for spec, copies the
// produced executable to a stable scratch path, and hashes it. Mirrors
// spec §4.2's `compile(variant_spec, profile, extra_flags, package_features)
// -> BuiltVariant` operation step for step.
func Compile(ctx context.Context, pkgDir, scratchDir string, spec variant.VariantSpec, profile Profile, extraFlags []string, pkgFeatures PackageFeatures) (variant.BuiltVariant, error) {
	if err := toolchain.CheckMinimumVersion(ctx); err != nil {
		return variant.BuiltVariant{}, fail(FailureToolchain, "compiler: %w", err)
	}
	tool, err := toolchain.GoTool()
	if err != nil {
		return variant.BuiltVariant{}, fail(FailureToolchain, "compiler: %w", err)
	}

	env := toolchain.NewEnvironment().
		ForTriple(spec.Target).
		ForFeatures(spec.Target, spec.Features).
		MergeGoFlags(extraFlags...)

	// -trimpath and a cleared build ID are applied unconditionally, the Go
	// analogue of the original's Microsoft-toolchain-only `/Brepro` flag:
	// byte-equality deduplication (internal/dedup) only works if two
	// variant builds of identical source produce identical bytes, so
	// reproducibility is not optional here the way the original gates it
	// to one linker.
	ldflags := "-buildid="
	if profile == ProfileRelease {
		ldflags += " -s -w"
	}
	args := []string{"build", "-json", "-trimpath", "-ldflags=" + ldflags}
	if tags := pkgFeatures.buildTags(); tags != "" {
		args = append(args, "-tags", tags)
	}
	args = append(args, ".")

	base.LogInfo(LogCompiler, "building %s %v (%s)", spec.Target, spec.Features, env)

	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Dir = pkgDir
	cmd.Env = env.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if runErr != nil {
		base.LogError(LogCompiler, "go build failed: %s", stderr.String())
		return variant.BuiltVariant{}, fail(FailureBuild, "compiler: go build %s %v: %w", spec.Target, spec.Features, runErr)
	}

	producedPath, err := locateArtifact(&stdout)
	if err != nil {
		return variant.BuiltVariant{}, fail(FailureArtifactNotFound, "compiler: %w", err)
	}
	if producedPath == "" {
		producedPath = filepath.Join(pkgDir, filepath.Base(pkgDir))
	}

	scratchBasename := spec.Features.ScratchBasename()
	scratchPath := filepath.Join(scratchDir, scratchBasename)
	if err := copyFile(producedPath, scratchPath); err != nil {
		return variant.BuiltVariant{}, fail(FailureArtifactNotFound, "compiler: copying artifact to scratch path: %w", err)
	}

	digest, err := hashFile(scratchPath)
	if err != nil {
		return variant.BuiltVariant{}, fail(FailureHash, "compiler: hashing %s: %w", scratchPath, err)
	}

	base.LogClaim(LogCompiler, "built %s -> %s (%s)", spec.Features, scratchPath, digest.ShortString())

	return variant.BuiltVariant{
		Spec:             spec,
		Path:             scratchPath,
		Digest:           [32]byte(digest),
		OriginalBasename: filepath.Base(producedPath),
	}, nil
}

// locateArtifact scans the -json BuildEvent stream for the final build
// action's Output field, the structured equivalent of parsing `go build -v`
// text output.
func locateArtifact(stdout *bytes.Buffer) (string, error) {
	scanner := bufio.NewScanner(stdout)
	var lastOutput string
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var ev buildEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			continue
		}
		if ev.Output != "" {
			lastOutput = ev.Output
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scanning build event stream: %w", err)
	}
	return lastOutput, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o755)
	if err != nil {
		return err
	}
	defer out.Close()

	buf := make([]byte, 64*1024)
	for {
		n, rerr := in.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				break
			}
			return rerr
		}
	}
	return nil
}

func hashFile(path string) (base.Fingerprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return base.Fingerprint{}, err
	}
	defer f.Close()
	return base.ReaderFingerprint(f)
}
