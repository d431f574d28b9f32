package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/deepteams/pngdec"
)

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file.png> <out.bin>",
		Short: "Decode a PNG file and write its raw pixel buffer to out.bin",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args[0], args[1])
		},
	}
}

func runDump(inPath, outPath string) error {
	d := pngdec.NewDecoder()
	if err := d.DecodeFile(inPath); err != nil {
		slog.Error("decode failed", slog.String("path", inPath), slog.Any("error", err), slog.String("site", d.ErrSite().String()))
		return fmt.Errorf("dump: %w", err)
	}

	if err := os.WriteFile(outPath, d.Buffer(), 0o644); err != nil {
		return fmt.Errorf("dump: writing %s: %w", outPath, err)
	}

	slog.Info("decoded",
		slog.String("in", inPath),
		slog.String("out", outPath),
		slog.Int("width", d.Width()),
		slog.Int("height", d.Height()),
		slog.Int("bpp", d.BPP()),
		slog.String("format", d.Format().String()),
		slog.Int("bytes", len(d.Buffer())),
	)
	return nil
}
