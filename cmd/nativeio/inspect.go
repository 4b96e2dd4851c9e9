package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"github.com/hupe1980/nativeio"
	"github.com/spf13/cobra"
)

func newPreloadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "preload <path>...",
		Short: "Read files into the page cache through a mapping",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				start := time.Now()
				m, err := a.fs.MapReadOnly(path)
				if err != nil {
					return err
				}
				err = m.Preload()
				size := m.Len()
				if rerr := m.Release(); err == nil {
					err = rerr
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s preloaded in %s\n",
					path, humanize.IBytes(uint64(size)), time.Since(start).Round(time.Microsecond))
			}
			return nil
		},
	}
}

// fileStat is the stat output.
type fileStat struct {
	Path            string `json:"path"`
	Size            int64  `json:"size"`
	PageSize        int    `json:"page_size"`
	Pages           int64  `json:"pages"`
	LiveDescriptors []int  `json:"live_descriptors"`
}

func newStatCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stat <path>",
		Short: "Print a file's size in bytes and pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.fs.Open(args[0])
			if err != nil {
				return err
			}
			defer h.Close()

			size, err := h.Size()
			if err != nil {
				return err
			}
			ps := nativeio.PageSize()
			st := fileStat{
				Path:            args[0],
				Size:            size,
				PageSize:        ps,
				Pages:           (size + int64(ps) - 1) / int64(ps),
				LiveDescriptors: a.fs.LiveDescriptors(),
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}
			_, err = fmt.Fprintf(out, "path:      %s\nsize:      %s (%d bytes)\npages:     %d x %s\ndescriptors: %v\n",
				st.Path, humanize.IBytes(uint64(st.Size)), st.Size, st.Pages, humanize.IBytes(uint64(ps)), st.LiveDescriptors)
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
