package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin maintenance commands",
	}

	cmd.AddCommand(newAdminUsersCmd())
	cmd.AddCommand(newAdminGrantCmd())
	cmd.AddCommand(newAdminRevokeCmd())
	cmd.AddCommand(newAdminGiftCmd())

	return cmd
}

func newAdminUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List all stored profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Profile

			if err := client.Get("/api/v1/admin/users", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newAdminGrantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grant <user-id> <entry-id>",
		Short: "Grant a catalog entry to a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setPermission(args[0], args[1], true)
		},
	}
}

func newAdminRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <user-id> <entry-id>",
		Short: "Revoke a catalog entry from a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setPermission(args[0], args[1], false)
		},
	}
}

func setPermission(userID, entryID string, granted bool) error {
	req := map[string]any{
		"entry_id": entryID,
		"granted":  granted,
	}
	var result Profile

	if err := client.Patch("/api/v1/admin/users/"+userID+"/permissions", req, &result); err != nil {
		return err
	}

	out := NewOutput(cfg.Output)
	out.Print(result)
	return nil
}

func newAdminGiftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gift <user-id> <amount>",
		Short: "Gift coins to a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.Atoi(args[1])
			if err != nil {
				return err
			}

			req := map[string]int{"amount": amount}
			var result Profile

			if err := client.Post("/api/v1/admin/users/"+args[0]+"/coins", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
