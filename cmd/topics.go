package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pigeonic/banglachat/internal/catalog"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List topics and difficulty levels",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Topics:")
		for _, t := range catalog.Topics() {
			marker := " "
			if t.Label == catalog.DefaultTopicLabel {
				marker = "*"
			}
			fmt.Fprintf(out, " %s %s  %-12s %s\n", marker, t.Glyph(), t.ID, t.Label)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Difficulties:")
		for _, d := range catalog.Difficulties() {
			fmt.Fprintf(out, "   %-8s %s\n", d, d.Label())
		}
	},
}
