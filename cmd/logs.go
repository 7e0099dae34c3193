package cmd

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hitanshu-dhawan/gosh/core/logger"
)

// logsCmd summarizes the session log.
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Summarize the commands recorded in the session log.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		fd, err := configuration.ReadSessionLog()
		if err != nil {
			return err
		}
		defer fd.Close()

		counts := make(map[string]int)
		var total int
		if err := logger.ReadLog(fd, func(ev *logger.Event) {
			total++
			if len(ev.Argv) > 0 {
				counts[ev.Argv[0]]++
			}
		}); err != nil {
			return err
		}

		names := make([]string, 0, len(counts))
		for name := range counts {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			if counts[names[i]] != counts[names[j]] {
				return counts[names[i]] > counts[names[j]]
			}
			return names[i] < names[j]
		})

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 8, 8, 2, ' ', 0)
		defer tw.Flush()

		fmt.Fprintf(tw, "COMMAND\tCOUNT\n")
		for _, name := range names {
			fmt.Fprintf(tw, "%s\t%d\n", name, counts[name])
		}
		fmt.Fprintf(tw, "\t\n")
		fmt.Fprintf(tw, "total\t%d\n", total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
}
