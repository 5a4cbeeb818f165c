package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"darew.com/internal/schema"
)

func newSchemaCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the relational schema the SQL export targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, t := range schema.Tables() {
				fmt.Fprintf(w, "%s\t%s\n", t.Name, t.Description)
				for _, c := range t.Columns {
					fmt.Fprintf(w, "  %s\t%s\t%s\n", c.Name, c.Type, c.Constraints)
				}
				fmt.Fprintln(w)
			}
			return w.Flush()
		},
	}
}

func newDumpCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Write the SQL export of users, services and projects to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.openState(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()
			return schema.Dump(cmd.OutOrStdout(), schema.Snapshot{
				Users:     st.identities.Roster(),
				Offerings: st.content.Offerings(),
				Projects:  st.content.Projects(),
			}, opts.Now())
		},
	}
}
