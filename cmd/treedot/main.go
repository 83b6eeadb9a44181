// Package main implements the treedot debug binary: it compiles a rule
// file into a decision tree and renders it as a Graphviz graph.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/thiagofelicissimo/lambdapi/pkg/logger"
	"github.com/thiagofelicissimo/lambdapi/pkg/notation"
	"github.com/thiagofelicissimo/lambdapi/pkg/tree"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "compile":
		compile(os.Args[2:])
	case "version":
		fmt.Printf("treedot version %s\n", version)
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`treedot - Compile rewrite rules to a decision tree and export it

Usage:
    treedot compile <rules-file> [-o output.dot]  Compile and write dot
    treedot version                               Show version
    treedot help                                  Show this help message

Options:
    -o <file>  Output dot file (default: rules file with .dot extension)
    -v         Verbose output`)
}

func compile(args []string) {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	out := fs.String("o", "", "output dot file")
	verbose := fs.Bool("v", false, "verbose output")

	var file string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		file = args[0]
		args = args[1:]
	}
	_ = fs.Parse(args)

	if file == "" {
		fmt.Fprintln(os.Stderr, "error: no input file")
		os.Exit(1)
	}

	if *verbose {
		logger.InitDev()
	} else {
		_ = logger.Init(logger.DefaultConfig())
	}

	source, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	rs, err := notation.Parse(string(source))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	logger.LogRuleSet(rs.Head, len(rs.Rules))

	t := tree.Compile(rs.Rules)
	logger.LogTreeBuilt(rs.Head, tree.Capacity(t))

	path := *out
	if path == "" {
		path = strings.TrimSuffix(file, ".rules") + ".dot"
	}
	if err := tree.WriteDot(path, t); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", path)
}
