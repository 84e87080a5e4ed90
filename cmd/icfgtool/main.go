package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "build":
		err = cmdBuild(os.Args[2:])
	case "query":
		err = cmdQuery(os.Args[2:])
	case "help", "-h", "--help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `icfgtool — interprocedural call-graph construction

Usage:
  icfgtool build --in <file.jsonl>... --entry <name>... [flags]
  icfgtool query --in <file.jsonl>... --entry <name>... --callers-of <name>

Flags:
  --in <path>           Path to a JSONL module (repeatable)
  --entry <name>         Entry point function name (repeatable; "__ALL__" means every definition)
  --algorithm <name>     NORESOLVE, CHA, RTA, DTA, VTA, or OTF (default CHA)
  --pointsto <name>      CFLSteens or CFLAnders (default CFLSteens); validated only, OTF always uses the built-in points-to map
  --soundness <name>     Soundy, Sound, or Unsound (default Soundy)
  --include-globals      Seed the worklist from a synthetic globals-ctor model
  --out-json <path>      Write the adjacency JSON to this path
  --out-dot <path>       Write the labeled multigraph DOT to this path
  --out-overview-dot <path>  Write the deduplicated overview DOT to this path
  --callers-of <name>    (query) print the callers of the named function
`)
}
