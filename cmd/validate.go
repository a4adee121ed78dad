package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/plan"
)

var validateCmd = &cobra.Command{
	Use:   "validate <curriculum.json>",
	Short: "Validate a curriculum file against the schema and graph rules",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read curriculum: %w", err)
		}

		topic, g, err := plan.ParseCurriculum(raw)
		if err != nil {
			return err
		}

		fmt.Printf("OK: %q with %d objectives\n", topic, len(g.Nodes))
		return nil
	},
}
