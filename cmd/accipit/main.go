// Command accipit interprets a single Accipit IR source file, starting
// execution at its `@main` function.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/stormckey/accipit/internal/interp"
	"github.com/stormckey/accipit/internal/parser"
)

const (
	exitOK       = 0
	exitRuntime  = 1
	exitSyntax   = 2
	exitUsage    = 3
)

func main() {
	var debug bool
	flag.BoolVar(&debug, "debug", false, "print per-step evaluation traces to stderr")
	flag.BoolVar(&debug, "d", false, "shorthand for --debug")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: accipit <file> [-d | --debug]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(exitUsage)
	}
	path := flag.Arg(0)
	// Flags may also follow the file, as in the usage line.
	flag.CommandLine.Parse(flag.Args()[1:])
	if flag.NArg() != 0 {
		flag.Usage()
		os.Exit(exitUsage)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "accipit: %s\n", err)
		os.Exit(exitUsage)
	}

	prog, err := parser.Parse(path, src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "accipit: syntax error: %s\n", err)
		os.Exit(exitSyntax)
	}

	opts := interp.DefaultOptions()
	opts.Debug = debug
	if debug {
		fmt.Fprintf(os.Stderr, "accipit: debug mode on, parsed program:\n%s\n", prog)
	}

	code, err := interp.Run(prog, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "accipit: %s\n", err)
		os.Exit(exitRuntime)
	}

	summary := fmt.Sprintf("%d", int32(code))
	if code == 0 {
		fmt.Fprintf(os.Stderr, "Exit with code \033[1;32m%s\033[0m.\n", summary)
	} else {
		fmt.Fprintf(os.Stderr, "Exit with code \033[1;31m%s\033[0m.\n", summary)
	}
	os.Exit(int(code))
}
