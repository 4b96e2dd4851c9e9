package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hupe1980/nativeio/store"
	"github.com/spf13/cobra"
)

func newCopyCmd(a *app) *cobra.Command {
	var (
		direct bool
		rate   string
	)
	cmd := &cobra.Command{
		Use:   "copy <src> <dst>",
		Short: "Copy a file the way a merge would",
		Long: "Copy a file through the store package as a merge: direct I/O when enabled, " +
			"throttled to --rate (e.g. 50MiB) per second.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.storeConfig()
			if err != nil {
				return err
			}
			if direct {
				cfg.ForceIO = store.ForceDirect
			}
			if rate != "" {
				limit, err := humanize.ParseBytes(rate)
				if err != nil {
					return fmt.Errorf("invalid --rate: %w", err)
				}
				cfg.IOLimitBytesPerSec = int64(limit)
			}

			src, dst := args[0], args[1]
			srcDir, err := store.New(filepath.Dir(src), cfg, store.WithLogger(a.logger))
			if err != nil {
				return err
			}
			dstDir, err := store.New(filepath.Dir(dst), cfg, store.WithLogger(a.logger))
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			start := time.Now()

			in, err := srcDir.OpenInput(ctx, filepath.Base(src), store.ContextReadOnce)
			if err != nil {
				return err
			}
			defer in.Close()

			out, err := dstDir.CreateOutput(ctx, filepath.Base(dst), store.MergeContext(in.Size()))
			if err != nil {
				return err
			}
			_, err = io.Copy(out, io.NewSectionReader(in, 0, in.Size()))
			if err = errors.Join(err, out.Close()); err != nil {
				return err
			}

			elapsed := time.Since(start)
			perSec := float64(out.Offset()) / max(elapsed.Seconds(), 1e-9)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "copied %s in %s (%s/s) crc32=%08x\n",
				humanize.IBytes(uint64(out.Offset())), elapsed.Round(time.Millisecond),
				humanize.IBytes(uint64(perSec)), out.Checksum())
			return err
		},
	}
	cmd.Flags().BoolVar(&direct, "direct", false, "use direct I/O for both files")
	cmd.Flags().StringVar(&rate, "rate", "", "throughput limit per second, e.g. 64MiB")
	return cmd
}
