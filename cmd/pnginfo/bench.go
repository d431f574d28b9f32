package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/deepteams/pngdec"
)

var benchIterations int

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench <file.png>",
		Short: "Repeatedly decode a PNG file and report average timing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(args[0], benchIterations)
		},
	}
	flags := pflag.NewFlagSet("bench", pflag.ContinueOnError)
	flags.IntVarP(&benchIterations, "iterations", "n", 50, "number of decode iterations")
	cmd.Flags().AddFlagSet(flags)
	return cmd
}

func runBench(path string, iterations int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("bench: %w", err)
	}

	d := pngdec.NewDecoder()
	start := time.Now()
	for i := 0; i < iterations; i++ {
		if err := d.Decode(data); err != nil {
			return fmt.Errorf("bench: decode failed on iteration %d: %w", i, err)
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("iterations: %d\n", iterations)
	fmt.Printf("total:      %s\n", elapsed)
	fmt.Printf("per-decode: %s\n", elapsed/time.Duration(iterations))
	fmt.Printf("bytes/op:   %d\n", len(d.Buffer()))
	return nil
}
