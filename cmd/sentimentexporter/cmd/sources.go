package cmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Prints the configured sources.",
	Run: func(cmd *cobra.Command, args []string) {
		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Name", "Kind", "Label", "Rendered", "URL"})

		for _, src := range cfg.Sources {
			name := src.Name
			if name == cfg.DefaultSource {
				name += " *"
			}
			t.AppendRow(table.Row{name, src.Kind, src.FileLabel(), src.Render, src.URL})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
