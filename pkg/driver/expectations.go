package driver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ExpectationSuffix names the file holding a script's expected outcome:
// hello.bd is checked against hello.expect.yml.
const ExpectationSuffix = ".expect.yml"

// Expectation describes how a script run should end. Stdout, when set, must
// match exactly. Error, when set, must be a substring of the failure message;
// when empty the run must succeed.
type Expectation struct {
	Stdout *string `yaml:"stdout"`
	Error  string  `yaml:"error"`
}

// ExpectationPath returns the expectation file paired with a script.
func ExpectationPath(scriptPath string) string {
	return strings.TrimSuffix(scriptPath, SourceExtension) + ExpectationSuffix
}

// LoadExpectation reads an expectation file.
func LoadExpectation(path string) (*Expectation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("expectation: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var exp Expectation
	if err := dec.Decode(&exp); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("expectation: %s is empty", path)
		}
		return nil, fmt.Errorf("expectation: parse %s: %w", path, err)
	}
	if exp.Stdout == nil && exp.Error == "" {
		return nil, fmt.Errorf("expectation: %s must set stdout or error", path)
	}
	return &exp, nil
}

// Check compares a finished run with the expectation and returns one line per
// mismatch.
func (e *Expectation) Check(stdout string, runErr error) []string {
	var failures []string
	if e.Stdout != nil && stdout != *e.Stdout {
		failures = append(failures, fmt.Sprintf("stdout mismatch: want %q, got %q", *e.Stdout, stdout))
	}
	switch {
	case e.Error == "" && runErr != nil:
		failures = append(failures, fmt.Sprintf("unexpected error: %s", DescribeError(runErr)))
	case e.Error != "" && runErr == nil:
		failures = append(failures, fmt.Sprintf("expected error containing %q, run succeeded", e.Error))
	case e.Error != "" && !strings.Contains(DescribeError(runErr), e.Error):
		failures = append(failures, fmt.Sprintf("error %q does not contain %q", DescribeError(runErr), e.Error))
	}
	return failures
}
