package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/privai/internal/store"
	"github.com/user/privai/internal/types"
)

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionListCmd, sessionDeleteCmd)
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage sessions",
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		st := store.Open(cfg.DataDir)
		defer st.Close()

		list, err := st.GetSessions(context.Background())
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		if len(list) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tMODEL\tMESSAGES\tUPDATED")
		for _, s := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
				s.ID,
				s.Title,
				s.ModelConfig.ModelID,
				len(s.Messages),
				s.UpdatedAt.Format("2006-01-02 15:04:05"),
			)
		}
		return w.Flush()
	},
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		st := store.Open(cfg.DataDir)
		defer st.Close()

		id := types.SessionID(args[0])
		if _, err := st.GetSession(context.Background(), id); err != nil {
			return fmt.Errorf("session %s: %w", id, err)
		}
		if err := st.DeleteSession(context.Background(), id); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		fmt.Printf("Deleted session %s.\n", id)
		return nil
	},
}
