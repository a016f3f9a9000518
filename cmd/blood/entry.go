package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/FANNYMU/blood-language/pkg/driver"
	"github.com/FANNYMU/blood-language/pkg/interpreter"
)

const envMaxCallDepth = "BLOOD_MAX_CALL_DEPTH"

func runEntry(args []string, mode executionMode, stdout, stderr io.Writer) int {
	dumpAST := false
	var positional []string
	for _, arg := range args {
		switch {
		case arg == "--ast" && mode == modeCheck:
			dumpAST = true
		case strings.HasPrefix(arg, "-"):
			fmt.Fprintf(stderr, "%s: unknown flag %s\n", modeCommandLabel(mode), arg)
			return 1
		default:
			positional = append(positional, arg)
		}
	}
	if len(positional) > 1 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(positional[1:], " "))
		return 1
	}

	manifestWarned := false
	manifest, err := loadManifestFrom(".")
	if err != nil {
		switch {
		case errors.Is(err, driver.ErrManifestNotFound):
			manifest = nil
		case len(positional) == 1 && looksLikePathCandidate(positional[0]):
			fmt.Fprintf(stderr, "warning: unable to load manifest (%v); falling back to direct file execution\n", err)
			manifest = nil
			manifestWarned = true
		default:
			fmt.Fprintf(stderr, "failed to load manifest: %v\n", err)
			return 1
		}
	}

	if len(positional) == 0 {
		if manifest == nil {
			fmt.Fprintf(stderr, "%s requires a manifest target or source file (%s not found)\n", modeCommandLabel(mode), driver.ManifestFileName)
			return 1
		}
		target, err := manifest.DefaultTarget()
		if err != nil {
			fmt.Fprintf(stderr, "manifest error: %v\n", err)
			return 1
		}
		entryPath, err := manifest.ResolveTargetMain(target)
		if err != nil {
			fmt.Fprintf(stderr, "failed to resolve target entrypoint: %v\n", err)
			return 1
		}
		return executeEntry(entryPath, manifest, mode, dumpAST, stdout, stderr)
	}

	candidate := positional[0]
	if manifest != nil {
		if target, ok := manifest.FindTarget(candidate); ok && !looksLikePathCandidate(candidate) {
			entryPath, err := manifest.ResolveTargetMain(target)
			if err != nil {
				fmt.Fprintf(stderr, "failed to resolve target %q: %v\n", target.OriginalName, err)
				return 1
			}
			return executeEntry(entryPath, manifest, mode, dumpAST, stdout, stderr)
		}
	}

	// Treat the argument as a script path; settings come from the manifest
	// nearest to the script. A broken manifest never blocks running a file.
	scriptManifest, err := loadManifestFrom(candidate)
	switch {
	case err == nil:
		manifest = scriptManifest
	case errors.Is(err, driver.ErrManifestNotFound), errors.Is(err, os.ErrNotExist):
		manifest = nil
	default:
		if !manifestWarned {
			fmt.Fprintf(stderr, "warning: unable to load manifest for %s (%v); running without manifest settings\n", candidate, err)
		}
		manifest = nil
	}
	return executeEntry(candidate, manifest, mode, dumpAST, stdout, stderr)
}

func executeEntry(entry string, manifest *driver.Manifest, mode executionMode, dumpAST bool, stdout, stderr io.Writer) int {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		fmt.Fprintf(stderr, "%s requires a source file\n", modeCommandLabel(mode))
		return 1
	}

	loader, err := driver.NewLoader(1)
	if err != nil {
		fmt.Fprintf(stderr, "failed to initialize loader: %v\n", err)
		return 1
	}

	if mode == modeCheck {
		program, err := loader.Load(entry)
		if err != nil {
			fmt.Fprintln(stderr, driver.DescribeError(err))
			return 1
		}
		if dumpAST {
			encoded, err := json.MarshalIndent(program.AST, "", "  ")
			if err != nil {
				fmt.Fprintf(stderr, "encode ast: %v\n", err)
				return 1
			}
			fmt.Fprintln(stdout, string(encoded))
			return 0
		}
		fmt.Fprintln(stdout, "check: ok")
		return 0
	}

	maxDepth, err := resolveMaxCallDepth(manifest)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	out := bufio.NewWriter(stdout)
	runErr := loader.Run(entry, interpreter.Options{Stdout: out, MaxCallDepth: maxDepth})
	if err := out.Flush(); err != nil && runErr == nil {
		runErr = fmt.Errorf("flush output: %w", err)
	}
	if runErr != nil {
		fmt.Fprintln(stderr, driver.DescribeError(runErr))
		return 1
	}
	return 0
}

// resolveMaxCallDepth applies the environment override over the manifest
// setting. Zero leaves the interpreter default in place.
func resolveMaxCallDepth(manifest *driver.Manifest) (int, error) {
	if raw := strings.TrimSpace(os.Getenv(envMaxCallDepth)); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			return 0, fmt.Errorf("invalid %s %q: must be a positive integer", envMaxCallDepth, raw)
		}
		return value, nil
	}
	if manifest != nil {
		return manifest.Settings.MaxCallDepth, nil
	}
	return 0, nil
}

func loadManifestFrom(start string) (*driver.Manifest, error) {
	if start == "" {
		start = "."
	}
	absStart, err := filepath.Abs(start)
	if err != nil {
		return nil, fmt.Errorf("resolve manifest search path %q: %w", start, err)
	}
	manifestPath, err := driver.FindManifest(absStart)
	if err != nil {
		return nil, err
	}
	return driver.LoadManifest(manifestPath)
}

func looksLikePathCandidate(arg string) bool {
	if arg == "" {
		return false
	}
	if strings.ContainsRune(arg, os.PathSeparator) || strings.ContainsRune(arg, '/') {
		return true
	}
	return filepath.Ext(arg) == driver.SourceExtension
}
