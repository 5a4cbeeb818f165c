package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"darew.com/internal/auth"
	"darew.com/internal/content"
)

// exportedUser is a roster entry without its secret.
type exportedUser struct {
	ID    string    `json:"id" yaml:"id"`
	Name  string    `json:"name" yaml:"name"`
	Email string    `json:"email" yaml:"email"`
	Role  auth.Role `json:"role" yaml:"role"`
}

type exportDoc struct {
	Users     []exportedUser     `json:"users" yaml:"users"`
	Services  []content.Offering `json:"services" yaml:"services"`
	Projects  []content.Project  `json:"projects" yaml:"projects"`
	Inquiries []content.Inquiry  `json:"inquiries" yaml:"inquiries"`
	Stats     []content.Stat     `json:"stats" yaml:"stats"`
	Logs      []content.LogEntry `json:"logs" yaml:"logs"`
}

func newExportCommand(opts *RootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every collection as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "yaml" {
				return fmt.Errorf("invalid format %q: must be json or yaml", format)
			}
			st, err := opts.openState(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			snap := st.content.Snapshot()
			doc := exportDoc{
				Services:  snap.Offerings,
				Projects:  snap.Projects,
				Inquiries: snap.Inquiries,
				Stats:     snap.Stats,
				Logs:      snap.Logs,
			}
			for _, id := range st.identities.Roster() {
				doc.Users = append(doc.Users, exportedUser{ID: id.ID, Name: id.Name, Email: id.Email, Role: id.Role})
			}

			out := cmd.OutOrStdout()
			if format == "yaml" {
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(doc); err != nil {
					return err
				}
				return enc.Close()
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format (json|yaml)")
	return cmd
}
