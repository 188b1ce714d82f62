package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/tars-systems/leadscout/internal/score"
)

var leadsGroup string

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List stored leads for a group",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if leadsGroup == "" {
			return eris.New("--group is required")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		leads, err := st.ListLeads(ctx, leadsGroup)
		if err != nil {
			return eris.Wrap(err, "list leads")
		}
		if len(leads) == 0 {
			fmt.Fprintln(os.Stderr, "No leads stored for this group.")
			return nil
		}

		hot, warm, cold := score.Tally(leads)

		printLeads(os.Stdout, leads)
		fmt.Printf("\n%d leads: %d hot, %d warm, %d cold\n", len(leads), hot, warm, cold)
		return nil
	},
}

func init() {
	leadsCmd.Flags().StringVarP(&leadsGroup, "group", "g", "", "group key to list")
	rootCmd.AddCommand(leadsCmd)
}
