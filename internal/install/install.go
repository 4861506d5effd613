package install

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/stackup-dev/stackup/internal/logging"
)

// PackageManager names a Node.js package manager.
type PackageManager string

const (
	NPM  PackageManager = "npm"
	PNPM PackageManager = "pnpm"
	Yarn PackageManager = "yarn"
	Bun  PackageManager = "bun"
)

// PackageManagers lists the supported package managers.
var PackageManagers = []PackageManager{NPM, PNPM, Yarn, Bun}

// ParsePackageManager converts a name into a PackageManager.
func ParsePackageManager(s string) (PackageManager, error) {
	for _, pm := range PackageManagers {
		if string(pm) == strings.ToLower(strings.TrimSpace(s)) {
			return pm, nil
		}
	}
	return "", fmt.Errorf("unknown package manager %q (want npm, pnpm, yarn or bun)", s)
}

// RunCommand returns the shell command that runs a package.json script.
func (pm PackageManager) RunCommand(script string) string {
	if pm == NPM {
		return "npm run " + script
	}
	return string(pm) + " run " + script
}

// Runner installs dependencies with one package manager.
type Runner struct {
	PackageManager PackageManager

	// Stdout and Stderr receive the package manager output. Nil discards.
	Stdout io.Writer
	Stderr io.Writer

	Logger *slog.Logger

	lookPath func(string) (string, error)
}

// NewRunner creates a Runner for pm.
func NewRunner(pm PackageManager, logger *slog.Logger) *Runner {
	return &Runner{PackageManager: pm, Logger: logger}
}

// Install runs "<pm> install" in dir. A missing package.json is a no-op. A
// package manager that is not on PATH yields a warning instead of an error.
func (r *Runner) Install(ctx context.Context, dir string) (string, error) {
	logger := logging.OrDiscard(r.Logger)

	if _, err := os.Stat(filepath.Join(dir, "package.json")); err != nil {
		return "", nil
	}

	pm := r.PackageManager
	if pm == "" {
		pm = NPM
	}
	lookPath := r.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	bin, err := lookPath(string(pm))
	if err != nil {
		return fmt.Sprintf("%s not found; skipping dependency installation (run `%s install` in %s)", pm, pm, dir), nil
	}

	cmd := exec.CommandContext(ctx, bin, "install")
	cmd.Dir = dir
	cmd.Stdout = writerOrDiscard(r.Stdout)
	cmd.Stderr = writerOrDiscard(r.Stderr)

	logger.Info("installing dependencies", "package_manager", pm, "dir", dir)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s install in %s: %w", pm, dir, err)
	}
	return "", nil
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
