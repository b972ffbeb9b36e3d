package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/hupe1980/fatfs"
	"github.com/hupe1980/fatfs/internal/fs"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr, fs.Default); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		os.Exit(1)
	}
}

// usageError marks bad invocations, which exit with status 2.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func (e *usageError) ExitCode() int { return 2 }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// app carries what every command needs. Host-side files go through fsys.
type app struct {
	fsys   fs.FileSystem
	stdout io.Writer
	stderr io.Writer
	opts   []fatfs.Option
}

const (
	usageFormat = "format IMAGE"
	usagePack   = "pack HOSTDIR IMAGE"
	usageUnpack = "unpack IMAGE HOSTDIR"
	usageLs     = "ls [-l] IMAGE [PATH]"
	usageExport = "export [--codec zstd|lz4|none] IMAGE ARCHIVE"
	usageImport = "import ARCHIVE IMAGE"
)

type command struct {
	name  string
	usage string
	run   func(a *app, args []string) error
}

var commands = []command{
	{"format", usageFormat, (*app).format},
	{"pack", usagePack, (*app).pack},
	{"unpack", usageUnpack, (*app).unpack},
	{"ls", usageLs, (*app).ls},
	{"export", usageExport, (*app).export},
	{"import", usageImport, (*app).importArchive},
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func run(args []string, stdout, stderr io.Writer, fsys fs.FileSystem) error {
	var verbose bool

	flagSet := pflag.NewFlagSet("fatdisk", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.SetInterspersed(false)
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
	flagSet.Usage = func() { printUsage(stderr, flagSet) }

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return usagef("%v", err)
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		printUsage(stderr, flagSet)
		return usagef("missing command")
	}
	cmd, ok := lookup(rest[0])
	if !ok {
		printUsage(stderr, flagSet)
		return usagef("unknown command %q", rest[0])
	}

	a := &app{fsys: fsys, stdout: stdout, stderr: stderr}
	if verbose {
		a.opts = append(a.opts, fatfs.WithLogger(fatfs.NewLogger(
			slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}
	return cmd.run(a, rest[1:])
}

func printUsage(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `fatdisk manages fatfs disk images.

Usage:
  fatdisk [-v] <command> [flags] args

Commands:
`)
	for _, c := range commands {
		fmt.Fprintf(w, "  %s\n", c.usage)
	}
	fmt.Fprintf(w, "\nFlags:\n")
	flagSet.PrintDefaults()
}

// parse parses the flags of a subcommand and checks its argument count.
func parse(flagSet *pflag.FlagSet, args []string, usage string, minArgs, maxArgs int) ([]string, error) {
	if err := flagSet.Parse(args); err != nil {
		return nil, usagef("%s: %v", flagSet.Name(), err)
	}
	rest := flagSet.Args()
	if len(rest) < minArgs || len(rest) > maxArgs {
		return nil, usagef("usage: fatdisk %s", usage)
	}
	return rest, nil
}

func newFlagSet(a *app, name string) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.SetOutput(a.stderr)
	return flagSet
}
