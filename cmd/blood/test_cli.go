package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/FANNYMU/blood-language/pkg/driver"
	"github.com/FANNYMU/blood-language/pkg/interpreter"
)

type testConfig struct {
	targets  []string
	repeat   int
	failFast bool
}

// testScript is a script prepared once and then run as many times as
// --repeat asks.
type testScript struct {
	path        string
	expectation *driver.Expectation
	options     interpreter.Options
	setupErr    error
}

func runTest(args []string, stdout, stderr io.Writer) int {
	config, err := parseTestArguments(args)
	if err != nil {
		fmt.Fprintf(stderr, "blood test: %v\n", err)
		return 1
	}

	paths, err := collectTestScripts(config.targets)
	if err != nil {
		fmt.Fprintf(stderr, "blood test: %v\n", err)
		return 1
	}
	if len(paths) == 0 {
		fmt.Fprintln(stdout, "blood test: no scripts with expectations found")
		return 0
	}

	// Every script stays cached, so repeated runs reuse the parsed program.
	loader, err := driver.NewLoader(len(paths))
	if err != nil {
		fmt.Fprintf(stderr, "blood test: %v\n", err)
		return 1
	}

	scripts := make([]testScript, 0, len(paths))
	for _, path := range paths {
		scripts = append(scripts, prepareTestScript(path))
	}

	passed, failed := 0, 0
rounds:
	for round := 1; round <= config.repeat; round++ {
		for _, script := range scripts {
			failures := runTestScript(loader, script)
			label := displayPath(script.path)
			if config.repeat > 1 {
				label = fmt.Sprintf("%s (run %d/%d)", label, round, config.repeat)
			}
			if len(failures) == 0 {
				passed++
				fmt.Fprintf(stdout, "PASS %s\n", label)
				continue
			}
			failed++
			fmt.Fprintf(stdout, "FAIL %s\n", label)
			for _, failure := range failures {
				fmt.Fprintf(stdout, "  - %s\n", failure)
			}
			if config.failFast {
				break rounds
			}
		}
	}

	fmt.Fprintf(stdout, "\n%d passed, %d failed\n", passed, failed)
	if failed > 0 {
		return 1
	}
	return 0
}

func parseTestArguments(args []string) (testConfig, error) {
	config := testConfig{repeat: 1}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--fail-fast":
			config.failFast = true
		case "--repeat":
			if i+1 >= len(args) {
				return testConfig{}, fmt.Errorf("%s requires a value", arg)
			}
			i++
			count, err := strconv.Atoi(args[i])
			if err != nil || count < 1 {
				return testConfig{}, fmt.Errorf("%s expects a positive integer, got %q", arg, args[i])
			}
			config.repeat = count
		default:
			if strings.HasPrefix(arg, "-") {
				return testConfig{}, fmt.Errorf("unknown flag %s", arg)
			}
			config.targets = append(config.targets, arg)
		}
	}
	return config, nil
}

// prepareTestScript loads the expectation and the settings of the nearest
// manifest. A failure here fails every run of the script.
func prepareTestScript(path string) testScript {
	script := testScript{path: path}
	expectation, err := driver.LoadExpectation(driver.ExpectationPath(path))
	if err != nil {
		script.setupErr = err
		return script
	}
	script.expectation = expectation

	manifest, err := loadManifestFrom(path)
	if err != nil && !errors.Is(err, driver.ErrManifestNotFound) {
		script.setupErr = fmt.Errorf("manifest: %w", err)
		return script
	}
	maxDepth, err := resolveMaxCallDepth(manifest)
	if err != nil {
		script.setupErr = err
		return script
	}
	script.options = interpreter.Options{MaxCallDepth: maxDepth}
	return script
}

func runTestScript(loader *driver.Loader, script testScript) []string {
	if script.setupErr != nil {
		return []string{script.setupErr.Error()}
	}
	var out bytes.Buffer
	opts := script.options
	opts.Stdout = &out
	runErr := loader.Run(script.path, opts)
	return script.expectation.Check(out.String(), runErr)
}

// collectTestScripts expands targets into the sorted set of scripts that have
// an expectation file. Explicit script arguments are always included so a
// missing expectation is reported as a failure.
func collectTestScripts(targets []string) ([]string, error) {
	if len(targets) == 0 {
		targets = []string{"."}
	}
	found := make(map[string]struct{})
	for _, target := range targets {
		abs, err := filepath.Abs(target)
		if err != nil {
			return nil, fmt.Errorf("unable to resolve %s: %w", target, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("unable to access %s: %w", abs, err)
		}
		if info.IsDir() {
			if err := walkTestScripts(abs, found); err != nil {
				return nil, err
			}
			continue
		}
		if filepath.Ext(abs) != driver.SourceExtension {
			return nil, fmt.Errorf("unsupported test target: %s", abs)
		}
		found[abs] = struct{}{}
	}
	scripts := maps.Keys(found)
	slices.Sort(scripts)
	return scripts, nil
}

func walkTestScripts(root string, found map[string]struct{}) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || filepath.Ext(path) != driver.SourceExtension {
			return nil
		}
		if _, err := os.Stat(driver.ExpectationPath(path)); err == nil {
			found[filepath.Clean(path)] = struct{}{}
		}
		return nil
	})
}

func displayPath(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
