package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/deepteams/pngdec"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file.png>",
		Short: "Print width, height, bits-per-pixel, and format of a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args[0])
		},
	}
}

func runInfo(path string) error {
	slog.Debug("inspecting file", slog.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}

	d := pngdec.NewDecoder()
	if err := d.Inspect(data); err != nil {
		slog.Error("inspect failed", slog.String("path", path), slog.Any("error", err))
		return fmt.Errorf("info: %w", err)
	}

	fmt.Printf("width:  %d\n", d.Width())
	fmt.Printf("height: %d\n", d.Height())
	fmt.Printf("bpp:    %d\n", d.BPP())
	fmt.Printf("format: %s\n", d.Format())
	return nil
}
