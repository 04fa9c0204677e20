package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/privai/internal/catalog"
)

func init() {
	modelsCmd.Flags().Bool("all", false, "include models without a configured credential")
	rootCmd.AddCommand(modelsCmd)
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available models",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		all, _ := cmd.Flags().GetBool("all")

		models := catalog.AvailableModels
		if !all {
			models = catalog.Available(cfg.APIKeys)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPROVIDER\tFREE\tCONTEXT")
		for _, m := range models {
			free := ""
			if m.IsFree {
				free = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", m.ID, m.Name, m.ProviderID, free, m.ContextWindow)
		}
		return w.Flush()
	},
}
