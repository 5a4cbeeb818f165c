package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"darew.com/internal/auth"
)

// offlineWriteNote warns that a running darewd keeps its own in-memory copy
// and rewrites the whole roster and audit trail on its next mutation.
const offlineWriteNote = `Stop darewd before adding or removing identities. A running server holds
the roster and the audit trail in memory and rewrites both on its next change, silently
discarding edits made here. Point --driver and --data-dir (or the DAREW_*
environment) at the same storage the server uses.`

func newUsersCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage console identities",
		Long:  "List, add and remove console identities. add and remove write storage\ndirectly.\n\n" + offlineWriteNote,
	}
	cmd.AddCommand(newUsersListCommand(opts))
	cmd.AddCommand(newUsersAddCommand(opts))
	cmd.AddCommand(newUsersRemoveCommand(opts))
	return cmd
}

func newUsersListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List identities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.openState(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE")
			for _, id := range st.identities.Roster() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", id.ID, id.Name, id.Email, id.Role)
			}
			return w.Flush()
		},
	}
}

func newUsersAddCommand(opts *RootOptions) *cobra.Command {
	var name, email, role, password string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an identity",
		Long:  "Add an identity. The secret is always hashed before it is stored.\n\n" + offlineWriteNote,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, email = strings.TrimSpace(name), strings.TrimSpace(email)
			if name == "" || email == "" || password == "" {
				return errors.New("--name, --email and --password are required")
			}
			r := auth.Role(role)
			if !r.Valid() {
				return fmt.Errorf("invalid role %q", role)
			}
			st, err := opts.openState(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			created, err := st.identities.AddIdentity(cmd.Context(), auth.Identity{
				Name: name, Email: email, Role: r, PasswordHash: password,
			})
			if err != nil {
				return err
			}
			st.content.AddLog(cmd.Context(), "Added new user: "+created.Name, CLIActor)
			fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", created.ID, created.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "sign-in email")
	cmd.Flags().StringVar(&role, "role", string(auth.RoleViewer), "role (Super Admin|Editor|Viewer)")
	cmd.Flags().StringVar(&password, "password", "", "initial secret, stored hashed")
	return cmd
}

func newUsersRemoveCommand(opts *RootOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an identity",
		Long:  "Remove every identity with the given id.\n\n" + offlineWriteNote,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if id == auth.SeedIdentityID && !force {
				return errors.New("refusing to remove the primary administrator without --force")
			}
			st, err := opts.openState(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			existing, ok := st.identities.Lookup(id)
			if !ok {
				return fmt.Errorf("no identity with id %q", id)
			}
			st.identities.RemoveIdentity(cmd.Context(), id)
			st.content.AddLog(cmd.Context(), "Deleted user: "+existing.Name, CLIActor)
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "allow removing the primary administrator")
	return cmd
}
