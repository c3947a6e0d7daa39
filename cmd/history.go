package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vlog-app/vlog/color"
	"github.com/vlog-app/vlog/history"
	"github.com/vlog-app/vlog/icon"
	"github.com/vlog-app/vlog/style"
	"github.com/vlog-app/vlog/util"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolP("json", "j", false, "Print as JSON")
	historyCmd.SetOut(os.Stdout)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved playback positions",
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := history.List()
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(entries))
			return
		}

		for _, e := range entries {
			cmd.Printf(
				"%s %s %s %s\n",
				style.Faint(e.ID),
				style.Bold(e.Title),
				style.Fg(color.Yellow)(util.FormatMillis(e.Position)+" / "+util.FormatMillis(e.Duration)),
				style.Faint(humanize.Time(e.SavedAt)),
			)
		}
	},
}

func init() {
	historyCmd.AddCommand(historyRemoveCmd)
}

var historyRemoveCmd = &cobra.Command{
	Use:   "remove [id]...",
	Short: "Forget saved positions",
	Args:  cobra.MinimumNArgs(1),
	ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		entries, err := history.List()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return lo.Map(entries, func(e *history.Entry, _ int) string {
			return e.ID + "\t" + e.Title
		}), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		for _, id := range args {
			handleErr(history.Remove(id))
			fmt.Printf("%s removed %s\n", icon.Get(icon.Success), id)
		}
	},
}
