// Command pnginfo inspects and decodes PNG files from the command line.
//
// Usage:
//
//	pnginfo info <file.png>            Print width/height/bpp/format
//	pnginfo dump <file.png> <out.bin>  Decode and write the raw pixel buffer
//	pnginfo bench <file.png>           Repeatedly decode, reporting timing
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logFile string

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "pnginfo: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pnginfo",
		Short:         "Inspect and decode PNG images",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
	}
	root.PersistentFlags().StringVar(&logFile, "log-file", "", "write structured logs to this file (with rotation) instead of stderr")

	root.AddCommand(newInfoCmd())
	root.AddCommand(newDumpCmd())
	root.AddCommand(newBenchCmd())
	return root
}

// setupLogging wires log/slog to stderr by default, or to a
// size-rotated file via lumberjack when --log-file is set.
func setupLogging() {
	var handler slog.Handler
	if logFile != "" {
		w := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		handler = slog.NewJSONHandler(w, nil)
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
	}
	slog.SetDefault(slog.New(handler))
}
