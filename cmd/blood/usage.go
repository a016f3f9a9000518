package main

import (
	"fmt"
	"io"
)

func modeCommandLabel(mode executionMode) string {
	switch mode {
	case modeCheck:
		return "blood check"
	default:
		return "blood run"
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  blood <file.bd>")
	fmt.Fprintln(w, "  blood run [target]")
	fmt.Fprintln(w, "  blood run <file.bd>")
	fmt.Fprintln(w, "  blood check [--ast] [target]")
	fmt.Fprintln(w, "  blood check [--ast] <file.bd>")
	fmt.Fprintln(w, "  blood test [--repeat N] [--fail-fast] [paths]")
	fmt.Fprintln(w, "  blood --version")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintf(w, "  %s  maximum call depth (overrides blood.yml settings)\n", envMaxCallDepth)
}
