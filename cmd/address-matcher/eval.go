package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/al-ius/aus-address-matcher/internal/sample"
)

func createEvalCmd() *cobra.Command {
	var showMismatches bool

	cmd := &cobra.Command{
		Use:   "eval [validation.csv]",
		Short: "Measure accuracy against a validation set",
		Long:  `Matches the input column of an input,expected_address,gnaf_pid CSV and reports how many resolve to the expected address`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cases, err := sample.LoadValidation(args[0])
			if err != nil {
				return err
			}

			d, _, err := newDispatcher(cfg, logger)
			if err != nil {
				return err
			}
			results, stats, runErr := d.Run(cmd.Context(), sample.Inputs(cases))
			rep := sample.Evaluate(cases, results)

			out := cmd.OutOrStdout()
			if showMismatches {
				for _, m := range rep.Mismatches {
					fmt.Fprintln(out, m)
				}
			}
			fmt.Fprintf(out, "\n=== Validation Results ===\n")
			fmt.Fprintf(out, "Cases: %d\n", rep.Total)
			fmt.Fprintf(out, "Correct: %d\n", rep.Correct)
			fmt.Fprintf(out, "Accuracy: %.2f%%\n", rep.Accuracy()*100)
			fmt.Fprintf(out, "Elapsed: %s\n", stats.Elapsed)
			return runErr
		},
	}

	cmd.Flags().BoolVar(&showMismatches, "mismatches", true, "print every case that did not match")

	return cmd
}
