// Package cmd implements the command-line interface for hlsget.
package cmd

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/hlsget-cli/hlsget/color"
	"github.com/hlsget-cli/hlsget/history"
	"github.com/hlsget-cli/hlsget/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
	historyCmd.SetOut(os.Stdout)
}

// historyCmd lists previously finished downloads from the localized registry.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previously finished downloads",
	Run: func(cmd *cobra.Command, args []string) {
		saved, err := history.Get()
		handleErr(err)

		downloads := lo.Values(saved)
		sort.Slice(downloads, func(i, j int) bool {
			return downloads[i].FinishedAt.After(downloads[j].FinishedAt)
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(downloads))
			return
		}

		if len(downloads) == 0 {
			cmd.Println(style.Faint("history is empty"))
			return
		}

		for _, d := range downloads {
			cmd.Printf(
				"%s %s\n  %s\n",
				style.Fg(color.Yellow)(d.FinishedAt.Format("2006-01-02 15:04")),
				style.Bold(d.OutputPath),
				style.Faint(d.URL),
			)
		}
	},
}
