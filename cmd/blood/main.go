package main

import (
	"fmt"
	"io"
	"os"
)

const cliToolVersion = "blood 0.1.0"

type executionMode int

const (
	modeRun executionMode = iota
	modeCheck
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage(stdout)
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(stdout, cliToolVersion)
		return 0
	case "run":
		return runEntry(args[1:], modeRun, stdout, stderr)
	case "check":
		return runEntry(args[1:], modeCheck, stdout, stderr)
	case "test":
		return runTest(args[1:], stdout, stderr)
	default:
		return runEntry(args, modeRun, stdout, stderr)
	}
}
