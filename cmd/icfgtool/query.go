package main

import (
	"flag"
	"fmt"
	"os"

	"icfg/internal/icfg"
)

func cmdQuery(args []string) error {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	cf := registerCommonFlags(fs)
	callersOf := fs.String("callers-of", "", "print the callers of the named function")
	calleesAt := fs.Int("callees-at", -1, "print the callees of the call-like instruction at this index within --callers-of's function")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *callersOf == "" {
		return fmt.Errorf("--callers-of is required")
	}

	cfg, err := cf.toConfig()
	if err != nil {
		return err
	}

	db, err := cf.loadDB()
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	res, err := icfg.Build(db, cfg, nil, nil)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	f := res.ICFG.Function(*callersOf)
	if f == nil {
		return fmt.Errorf("no such function: %q", *callersOf)
	}

	if *calleesAt >= 0 {
		if *calleesAt >= len(f.Insts) {
			return fmt.Errorf("instruction index %d out of range for %q (%d instructions)", *calleesAt, f.Name, len(f.Insts))
		}
		for _, callee := range res.ICFG.GetCalleesOfCallAt(f.Insts[*calleesAt]) {
			fmt.Println(callee.Name)
		}
		return nil
	}

	for _, site := range res.ICFG.GetCallersOf(f) {
		fmt.Printf("%s[%d]: %s\n", site.Fn.Name, site.Idx, site.String())
	}
	return nil
}
