package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/freeeve/polite-betrayal/adjudicator/pkg/diplomacy"
)

func newMapCmd() *cobra.Command {
	var territory string
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Print the standard map",
		Long: `Print every territory of the standard map with its kind. Supply centers
are marked with *. With --territory, print one territory and its neighbors.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := diplomacy.Vanilla()
			centers := make(map[string]bool)
			for _, c := range diplomacy.VanillaSupplyCenters() {
				centers[c] = true
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			if territory != "" {
				t, ok := m.Territory(territory)
				if !ok {
					return fmt.Errorf("unknown territory %q", territory)
				}
				fmt.Fprintf(tw, "name\t%s\n", t.Name)
				fmt.Fprintf(tw, "kind\t%s\n", t.Kind)
				if t.Parent != "" {
					fmt.Fprintf(tw, "parent\t%s\n", t.Parent)
				}
				if len(t.Coasts) > 0 {
					fmt.Fprintf(tw, "coasts\t%s\n", strings.Join(t.Coasts, ", "))
				}
				fmt.Fprintf(tw, "supply center\t%t\n", centers[t.Name])
				fmt.Fprintf(tw, "neighbors\t%s\n", strings.Join(m.Neighbors(t.Name), ", "))
				return tw.Flush()
			}

			for _, name := range m.Names() {
				t, _ := m.Territory(name)
				mark := ""
				if centers[name] {
					mark = "*"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", name, t.Kind, mark)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&territory, "territory", "t", "", "show a single territory")
	return cmd
}
