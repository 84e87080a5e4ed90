package main

import (
	"flag"
	"fmt"
	"strings"

	"icfg/internal/callgraph"
	"icfg/internal/globalctor"
	"icfg/internal/ir"
)

// stringList implements flag.Value for a repeatable -flag value -flag value2 option.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// commonFlags is the entry-point/algorithm/pointsto/soundness/globals
// surface shared by every subcommand that builds a call graph.
type commonFlags struct {
	in             stringList
	entries        stringList
	algorithm      string
	pointsto       string
	soundness      string
	includeGlobals bool
}

func registerCommonFlags(fs *flag.FlagSet) *commonFlags {
	cf := &commonFlags{}
	fs.Var(&cf.in, "in", "path to a JSONL module (repeatable)")
	fs.Var(&cf.entries, "entry", "entry point function name (repeatable)")
	fs.StringVar(&cf.algorithm, "algorithm", "CHA", "NORESOLVE, CHA, RTA, DTA, VTA, or OTF")
	fs.StringVar(&cf.pointsto, "pointsto", "CFLSteens", "CFLSteens or CFLAnders")
	fs.StringVar(&cf.soundness, "soundness", "Soundy", "Soundy, Sound, or Unsound")
	fs.BoolVar(&cf.includeGlobals, "include-globals", false, "seed the worklist with a synthetic globals-ctor model")
	return cf
}

// toConfig validates the flag values and produces a callgraph.Config.
// Reported errors are single-line, matching spec.md §7's configuration
// error contract.
func (cf *commonFlags) toConfig() (callgraph.Config, error) {
	if len(cf.in) == 0 {
		return callgraph.Config{}, fmt.Errorf("--in is required")
	}
	if len(cf.entries) == 0 {
		return callgraph.Config{}, fmt.Errorf("at least one --entry is required")
	}

	algo, err := callgraph.ParseCallGraphAnalysisType(cf.algorithm)
	if err != nil {
		return callgraph.Config{}, err
	}
	pta, err := callgraph.ParsePointsToAnalysisType(cf.pointsto)
	if err != nil {
		return callgraph.Config{}, err
	}
	sound, err := callgraph.ParseSoundness(cf.soundness)
	if err != nil {
		return callgraph.Config{}, err
	}

	cfg := callgraph.Config{
		EntryPoints:    []string(cf.entries),
		Algorithm:      algo,
		PointsTo:       pta,
		Soundness:      sound,
		IncludeGlobals: cf.includeGlobals,
	}
	if cf.includeGlobals {
		cfg.GlobalCtorBuilder = globalctor.Build
	}
	return cfg, nil
}

func (cf *commonFlags) loadDB() (*ir.DB, error) {
	return ir.LoadDB([]string(cf.in))
}
