package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/al-ius/aus-address-matcher/internal/dispatch"
	"github.com/al-ius/aus-address-matcher/internal/match"
	"github.com/al-ius/aus-address-matcher/internal/sample"
)

func createMatchCmd() *cobra.Command {
	var listFile string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "match [address words...]",
		Short: "Match one address, or every address in the sample list",
		Long: `With arguments, the words are joined into one address and matched with
verbose diagnostics. Without arguments, every address in the sample list
(batch.sample_file, or --file) is matched across the worker pool.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var addresses []string
			if len(args) > 0 {
				addresses = []string{strings.Join(args, " ")}
			} else {
				path := listFile
				if path == "" {
					path = cfg.Batch.SampleFile
				}
				var err error
				if addresses, err = sample.LoadList(path); err != nil {
					return err
				}
			}

			d, _, err := newDispatcher(cfg, logger)
			if err != nil {
				return err
			}
			results, stats, runErr := d.Run(cmd.Context(), addresses)

			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSONLines(out, results); err != nil {
					return err
				}
			} else {
				printResults(out, results)
				printStats(out, stats)
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&listFile, "file", "", "address list to match (default batch.sample_file)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON lines")

	return cmd
}

func bySeq(results []match.Result) {
	sort.Slice(results, func(i, j int) bool { return results[i].Seq < results[j].Seq })
}

func printResults(w io.Writer, results []match.Result) {
	bySeq(results)
	for _, r := range results {
		switch {
		case r.Matched():
			fmt.Fprintf(w, "%s\n  -> [%4.2f] %s (%s)\n", r.Input, r.Score, r.Record.Address, r.Record.ID)
		case r.Err != nil:
			fmt.Fprintf(w, "%s\n  -> error: %v\n", r.Input, r.Err)
		default:
			fmt.Fprintf(w, "%s\n  -> no match (%s)\n", r.Input, r.Reason)
		}
	}
}

func printStats(w io.Writer, s dispatch.BatchStats) {
	fmt.Fprintf(w, "\n=== Batch Results ===\n")
	fmt.Fprintf(w, "Run ID: %s\n", s.RunID)
	fmt.Fprintf(w, "Workers: %d\n", s.Workers)
	fmt.Fprintf(w, "Total: %d\n", s.Total)
	fmt.Fprintf(w, "Matched: %d\n", s.Matched)
	fmt.Fprintf(w, "Absent: %d\n", s.NoStreets+s.NoAddresses)
	fmt.Fprintf(w, "Failed: %d\n", s.Failed)
	if n := s.Unresolved(); n > 0 {
		fmt.Fprintf(w, "Unresolved: %d\n", n)
	}
	fmt.Fprintf(w, "Elapsed: %s\n", s.Elapsed)
}

func writeJSONLines(w io.Writer, results []match.Result) error {
	bySeq(results)
	enc := json.NewEncoder(w)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}
