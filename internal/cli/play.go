package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Session control commands",
	}

	cmd.AddCommand(newPlayStatusCmd())
	cmd.AddCommand(newPlayEntryCmd())
	cmd.AddCommand(newPlayPhaseCmd())
	cmd.AddCommand(newPlayFinishCmd())
	cmd.AddCommand(newPlayDismissCmd())
	cmd.AddCommand(newPlayAbortCmd())

	return cmd
}

func newPlayStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the orchestrator state",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result SessionSnapshot

			if err := client.Get("/api/v1/session", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlayEntryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "entry <entry-id>",
		Short: "Choose a catalog entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"entry_id": args[0]}
			var result SessionSnapshot

			if err := client.Post("/api/v1/session/entry", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlayPhaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "phase <phase-id>",
		Short: "Choose a phase and start the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"phase_id": args[0]}
			var result SessionSnapshot

			if err := client.Post("/api/v1/session/phase", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlayFinishCmd() *cobra.Command {
	var win bool
	var bonus int

	cmd := &cobra.Command{
		Use:   "finish <score>",
		Short: "End the active session with a terminal score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}

			req := map[string]any{
				"score":       score,
				"win":         win,
				"bonus_coins": bonus,
			}
			var result SessionSnapshot

			if err := client.Post("/api/v1/session/finish", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&win, "win", false, "Mark the session as won")
	cmd.Flags().IntVar(&bonus, "bonus", 0, "Bonus coins collected in-game")

	return cmd
}

func newPlayDismissCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss",
		Short: "Dismiss the results screen",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result SessionSnapshot

			if err := client.Post("/api/v1/session/dismiss", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlayAbortCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "abort",
		Short: "Abort the current selection or session",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result SessionSnapshot

			if err := client.Post("/api/v1/session/abort", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
