package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export <session-id>",
	Short: "Export a session's event ledger as JSON lines",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}

		var events []store.Event
		if s, _ := cmd.Flags().GetString("since"); s != "" {
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				return fmt.Errorf("parse --since: %w", err)
			}
			events, err = st.Ledger.EventsSince(args[0], t)
			if err != nil {
				return err
			}
		} else {
			events, err = st.Ledger.ReadEvents(args[0])
			if err != nil {
				return err
			}
		}

		enc := json.NewEncoder(os.Stdout)
		for _, ev := range events {
			if err := enc.Encode(ev); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().String("since", "", "Only events at or after this RFC3339 time")
}
