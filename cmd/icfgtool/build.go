package main

import (
	"flag"
	"fmt"
	"os"

	"icfg/internal/icfg"
)

func cmdBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	cf := registerCommonFlags(fs)
	outJSON := fs.String("out-json", "", "write the adjacency JSON to this path")
	outDOT := fs.String("out-dot", "", "write the labeled multigraph DOT to this path")
	outOverview := fs.String("out-overview-dot", "", "write the deduplicated overview DOT to this path")

	if err := fs.Parse(args); err != nil {
		return err
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
	fmt.Fprintf(os.Stderr, "call graph: %d vertices, %d edges\n", res.Stats.Vertices, res.Stats.Edges)

	if *outJSON != "" {
		data, err := res.ICFG.JSON()
		if err != nil {
			return fmt.Errorf("marshal json: %w", err)
		}
		if err := os.WriteFile(*outJSON, data, 0o644); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
	}
	if *outDOT != "" {
		if err := os.WriteFile(*outDOT, []byte(res.ICFG.DOT()), 0o644); err != nil {
			return fmt.Errorf("write dot: %w", err)
		}
	}
	if *outOverview != "" {
		dot := res.ICFG.OverviewDOT(fmt.Sprintf("callgraph (%s)", cfg.Algorithm))
		if err := os.WriteFile(*outOverview, []byte(dot), 0o644); err != nil {
			return fmt.Errorf("write overview dot: %w", err)
		}
	}

	return nil
}
