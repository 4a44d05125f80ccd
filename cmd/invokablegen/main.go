package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"

	"github.com/zhulik/invokable/internal/gen"
)

var (
	success = color.New(color.FgGreen, color.Bold)
	warning = color.New(color.FgYellow, color.Bold)
	failure = color.New(color.FgRed, color.Bold)
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("invokablegen", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var (
		clean   = flags.Bool("clean", false, "Delete generated "+gen.GeneratedFile+" files instead of generating them")
		dryRun  = flags.Bool("dry-run", false, "Print generated files to stdout instead of writing them")
		verbose = flags.Bool("verbose", false, "Enable debug logging")
	)

	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: invokablegen [options] <directory-paths...>\n\n")
		fmt.Fprintf(stderr, "Scans Go packages for //invokable:annotate directives on methods and generates %s.\n\n", gen.GeneratedFile)
		fmt.Fprintf(stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  invokablegen ./...           # Scan everything recursively\n")
		fmt.Fprintf(stderr, "  invokablegen -clean ./...    # Delete all generated files\n")
	}

	if err := flags.Parse(args); err != nil {
		return 2
	}

	dirs := flags.Args()
	if len(dirs) == 0 {
		failure.Fprint(stderr, "✗ ")
		fmt.Fprintln(stderr, "at least one directory path is required")
		flags.Usage()

		return 2
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}

	generator := &gen.Generator{
		DryRun: *dryRun,
		Out:    stdout,
		Logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
	}

	expanded, err := gen.ExpandDirs(dirs)
	if err != nil {
		failure.Fprint(stderr, "✗ ")
		fmt.Fprintln(stderr, err)

		return 1
	}

	if *clean {
		return cleanDirs(generator, expanded, stderr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return generateDirs(ctx, generator, expanded, stderr)
}

func generateDirs(ctx context.Context, generator *gen.Generator, dirs []string, stderr io.Writer) int {
	results, err := generator.GenerateAll(ctx, dirs)

	for _, result := range results {
		if result == nil || !result.Written {
			continue
		}

		success.Fprint(stderr, "✓ ")
		fmt.Fprintf(stderr, "%s: %d annotations\n", result.File, len(result.Package.Annotations))
	}

	if err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			failure.Fprint(stderr, "✗ ")
			fmt.Fprintln(stderr, line)
		}

		return 1
	}

	return 0
}

func cleanDirs(generator *gen.Generator, dirs []string, stderr io.Writer) int {
	code := 0

	for _, dir := range dirs {
		removed, err := generator.Clean(dir)
		if err != nil {
			failure.Fprint(stderr, "✗ ")
			fmt.Fprintf(stderr, "%s: %v\n", dir, err)
			code = 1

			continue
		}

		if removed {
			warning.Fprint(stderr, "- ")
			fmt.Fprintln(stderr, dir+"/"+gen.GeneratedFile)
		}
	}

	return code
}
