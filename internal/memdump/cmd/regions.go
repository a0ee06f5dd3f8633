package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"memdump/internal/attach"
	"memdump/internal/regions"
)

var regionsCmd = &cobra.Command{
	Use:   "regions <pid>",
	Short: "List the memory regions of a process",
	Long: `List the memory regions of a process in ascending address order, as seen
by the scanner. The target is stopped while its regions are read.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pid, err := parsePid(args[0])
		if err != nil {
			return err
		}
		debug, _ := cmd.Flags().GetBool("debug")
		lg := setupLogger(debug)
		defer lg.Close()

		sess, err := attach.NewController(attach.DefaultTracer(), lg.Logger).Attach(pid)
		if err != nil {
			return err
		}
		defer sess.Close()

		rs, err := regions.ForHandle(sess.Handle(), lg.Logger).Regions()
		if err != nil {
			lg.Error("Region listing is incomplete", "error", err)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "START\tEND\tPERMS\tSIZE\tNAME")
		var total uint64
		for _, r := range rs {
			total += uint64(r.Size())
			fmt.Fprintf(w, "%016x\t%016x\t%s\t%s\t%s\n",
				uint64(r.Start), uint64(r.End), r.Perms, humanize.IBytes(uint64(r.Size())), r.Name())
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d regions, %s mapped\n", len(rs), humanize.IBytes(total))
		return nil
	},
}
