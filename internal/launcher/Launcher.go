// Package launcher implements the Launcher Package Generator: it
// synthesizes a scratch Go module embedding a FatBinImage and builds it
// into the final fat binary, the way gen_fatbin_pkg.rs/FatbinCrate::generate
// synthesizes and builds a scratch Cargo package.
package launcher

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/poppolopoppo/multiarch/internal/base"
	"github.com/poppolopoppo/multiarch/internal/pack"
	"github.com/poppolopoppo/multiarch/internal/toolchain"
	"github.com/poppolopoppo/multiarch/internal/variant"
)

var LogLauncher = base.NewLogCategory("Launcher")

const mainTemplate = `// Code generated by multiarch pack; DO NOT EDIT.

package main

import "github.com/poppolopoppo/multiarch/internal/dispatch"

func main() {
	dispatch.Run(embeddedFatBin)
}
`

const goModTemplate = `module multiarch-launcher-scratch

go %d.%d
`

// Generate synthesizes scratchDir as a standalone Go module (go.mod +
// main.go + generated fatbin source), builds it with the size/strip flags
// spec §4.5 calls for (the Go analogue of
// lto=true,strip=symbols,opt-level=z,codegen-units=1,panic=abort), and
// renames the result to originalBasename.
func Generate(ctx context.Context, scratchDir string, image variant.FatBinImage, originalBasename string) (string, error) {
	if err := os.MkdirAll(scratchDir, 0o755); err != nil {
		return "", fmt.Errorf("launcher: creating scratch dir: %w", err)
	}

	major, minor, err := toolchain.GoVersion(ctx)
	if err != nil {
		return "", fmt.Errorf("launcher: %w", err)
	}
	if err := os.WriteFile(filepath.Join(scratchDir, "go.mod"), []byte(fmt.Sprintf(goModTemplate, major, minor)), 0o644); err != nil {
		return "", fmt.Errorf("launcher: writing go.mod: %w", err)
	}

	if err := os.WriteFile(filepath.Join(scratchDir, "main.go"), []byte(mainTemplate), 0o644); err != nil {
		return "", fmt.Errorf("launcher: writing main.go: %w", err)
	}

	generated, err := pack.GenerateSourceBytes("main", image)
	if err != nil {
		return "", fmt.Errorf("launcher: generating fatbin source: %w", err)
	}
	if err := os.WriteFile(filepath.Join(scratchDir, "fatbin_generated.go"), generated, 0o644); err != nil {
		return "", fmt.Errorf("launcher: writing fatbin source: %w", err)
	}

	base.LogInfo(LogLauncher, "building launcher in %s", scratchDir)

	tool, err := toolchain.GoTool()
	if err != nil {
		return "", err
	}

	env := toolchain.NewEnvironment().Strip("GOEXPERIMENT")
	cmd := exec.CommandContext(ctx, tool, "build",
		"-trimpath",
		`-ldflags=-s -w`,
		"-gcflags=all=-l",
		"-o", originalBasename,
		".",
	)
	cmd.Dir = scratchDir
	cmd.Env = env.Environ()
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("launcher: building scratch module: %w: %s", err, out)
	}

	finalPath := filepath.Join(scratchDir, originalBasename)
	base.LogClaim(LogLauncher, "fat binary ready: %s", finalPath)
	return finalPath, nil
}
