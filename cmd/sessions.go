package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List stored learning sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}

		summaries, err := st.Sessions.List()
		if err != nil {
			return err
		}
		if len(summaries) == 0 {
			fmt.Println("No sessions yet.")
			return nil
		}

		for _, s := range summaries {
			fmt.Printf("%s  %-10s  %-20s  %s\n",
				s.ID, s.Status, s.Topic, s.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}
