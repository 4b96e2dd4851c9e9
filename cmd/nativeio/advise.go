package main

import (
	"fmt"

	"github.com/hupe1980/nativeio"
	"github.com/spf13/cobra"
)

func newPageSizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pagesize",
		Short: "Print the memory page size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), nativeio.PageSize())
			return err
		},
	}
}

func newFadviseCmd(a *app) *cobra.Command {
	var (
		advice         string
		offset, length int64
	)
	cmd := &cobra.Command{
		Use:   "fadvise <path>",
		Short: "Issue posix_fadvise for a file range",
		Long: "Issue posix_fadvise for a file range. Advice: normal, random, sequential, " +
			"willneed, dontneed, noreuse. A length of 0 covers the rest of the file.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fa, err := nativeio.ParseFileAdvice(advice)
			if err != nil {
				return err
			}
			h, err := a.fs.Open(args[0])
			if err != nil {
				return err
			}
			defer h.Close()

			if err := h.Advise(offset, length, fa); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: fadvise %s [%d, +%d)\n", args[0], fa, offset, length)
			return err
		},
	}
	cmd.Flags().StringVar(&advice, "advice", "dontneed", "file advice")
	cmd.Flags().Int64Var(&offset, "offset", 0, "range offset in bytes")
	cmd.Flags().Int64Var(&length, "length", 0, "range length in bytes (0 = to end of file)")
	return cmd
}

func newMadviseCmd(a *app) *cobra.Command {
	var (
		advice         string
		offset, length int64
	)
	cmd := &cobra.Command{
		Use:   "madvise <path>",
		Short: "Map a file and issue madvise for a range",
		Long: "Map a file read-only and issue madvise for a range. Advice: normal, " +
			"sequential, random, willneed, dontneed. A negative length covers the rest of the mapping.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ma, err := nativeio.ParseMemoryAdvice(advice)
			if err != nil {
				return err
			}
			m, err := a.fs.MapReadOnly(args[0])
			if err != nil {
				return err
			}
			defer m.Release()

			n := length
			if n < 0 {
				n = m.Len() - offset
			}
			if err := m.Advise(offset, n, ma); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: madvise %s [%d, +%d)\n", args[0], ma, offset, n)
			return err
		},
	}
	cmd.Flags().StringVar(&advice, "advice", "willneed", "memory advice")
	cmd.Flags().Int64Var(&offset, "offset", 0, "range offset in bytes")
	cmd.Flags().Int64Var(&length, "length", -1, "range length in bytes (negative = to end of mapping)")
	return cmd
}
