// Command kvs is a command-line front end for the embeddable key-value
// store in pkg/kvs: get/set/rm/compact against a segment directory on
// disk.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cmsd2/kvs/pkg/errors"
	"github.com/cmsd2/kvs/pkg/kvs"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("kvs", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("p", ".", "path to the store's data directory")
	showVersion := fs.Bool("V", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	if *showVersion {
		fmt.Println(version)
		return 0
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fmt.Fprintln(os.Stderr, "expected a subcommand: get, set, rm, compact")
		return 1
	}

	store, err := kvs.Open(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer store.Close()

	switch rest[0] {
	case "get":
		return runGet(store, rest[1:])
	case "set":
		return runSet(store, rest[1:])
	case "rm":
		return runRemove(store, rest[1:])
	case "compact":
		return runCompact(store, rest[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand: %s\n", rest[0])
		return 1
	}
}

func runGet(store *kvs.Store, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: kvs get <key>")
		return 1
	}

	value, ok, err := store.Get(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if !ok {
		fmt.Println("Key not found")
		return 0
	}

	fmt.Println(value)
	return 0
}

func runSet(store *kvs.Store, args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: kvs set <key> <value>")
		return 1
	}

	if err := store.Set(args[0], args[1]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runRemove(store *kvs.Store, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: kvs rm <key>")
		return 1
	}

	err := store.Remove(args[0])
	if err != nil {
		if errors.IsNotFound(err) {
			fmt.Fprintln(os.Stderr, "Key not found")
			return 1
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runCompact(store *kvs.Store, args []string) int {
	if len(args) != 0 {
		fmt.Fprintln(os.Stderr, "usage: kvs compact")
		return 1
	}

	if err := store.Compact(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
