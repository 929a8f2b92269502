package platform

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/datallboy/toolfetch/internal/domain"
)

// OptionalBinaries are looked up in PATH when no explicit path is configured
var OptionalBinaries = map[string]string{
	"aria2c": "download engine driven by the helper scripts",
}

// Helpers resolves the external helper invocation for a source.
type Helpers struct {
	ScriptDir  string
	Aria2cPath string
}

// Resolve returns the absolute path of the executable for source.
// It does not check that the file exists; a missing helper surfaces as a launch failure.
func (h Helpers) Resolve(source domain.Source) (string, error) {
	if source.Executable == "" {
		return "", fmt.Errorf("source %s has no helper executable", source.ID)
	}
	p := filepath.Join(h.ScriptDir, source.Executable)
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve helper %s: %w", p, err)
	}
	return abs, nil
}

// Arguments builds the helper argument list: [aria2c] <url> [token]
func (h Helpers) Arguments(url, token string) []string {
	args := make([]string, 0, 3)
	if h.Aria2cPath != "" {
		args = append(args, h.Aria2cPath)
	}
	args = append(args, url)
	if token != "" {
		args = append(args, token)
	}
	return args
}

// ValidateDependencies checks every catalog helper exists and is executable.
// Missing optional binaries only produce warnings.
func (h Helpers) ValidateDependencies() (warnings []string, err error) {
	seen := make(map[string]bool)
	var errs []error

	for _, src := range domain.Sources() {
		path, rerr := h.Resolve(src)
		if rerr != nil {
			errs = append(errs, rerr)
			continue
		}
		if seen[path] {
			continue
		}
		seen[path] = true

		info, serr := os.Stat(path)
		if serr != nil {
			errs = append(errs, fmt.Errorf("required helper '%s' not found: %w", path, serr))
			continue
		}
		if info.IsDir() || info.Mode().Perm()&0o111 == 0 {
			errs = append(errs, fmt.Errorf("required helper '%s' is not executable", path))
		}
	}

	if h.Aria2cPath != "" {
		if _, serr := os.Stat(h.Aria2cPath); serr != nil {
			errs = append(errs, fmt.Errorf("configured aria2c '%s' not found: %w", h.Aria2cPath, serr))
		}
	} else {
		for bin, purpose := range OptionalBinaries {
			if _, lerr := exec.LookPath(bin); lerr != nil {
				warnings = append(warnings, fmt.Sprintf("%s (%s) not found in PATH", bin, purpose))
			}
		}
	}

	return warnings, errors.Join(errs...)
}
