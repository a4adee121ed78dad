package cmd

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/mastery"
	"github.com/abhisek/pathwise/internal/report"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8B5CF6"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
	numberStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#14B8A6"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F43F5E"))
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard <session-id>",
	Short: "Show progress aggregates for a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}

		sess, err := st.Sessions.Load(args[0])
		if err != nil {
			return err
		}
		if sess == nil {
			return fmt.Errorf("session not found: %s", args[0])
		}
		model, err := st.Learners.LoadOrCreate(sess.UserID)
		if err != nil {
			return err
		}

		d := report.Build(sess.Graph, model)
		fmt.Println(renderDashboard(sess.Topic, d))
		return nil
	},
}

func renderDashboard(topic string, d report.Dashboard) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(topic))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s   %s %s\n",
		labelStyle.Render("objectives"), numberStyle.Render(fmt.Sprint(d.TotalObjectives)),
		labelStyle.Render("mastered"), numberStyle.Render(fmt.Sprint(d.Mastered)),
		labelStyle.Render("in progress"), numberStyle.Render(fmt.Sprint(d.InProgress)),
		labelStyle.Render("best streak"), numberStyle.Render(fmt.Sprint(d.BestStreak)),
	))

	if len(d.WeakAreas) > 0 {
		b.WriteString("\n" + warnStyle.Render("Weak areas") + "\n")
		for _, w := range d.WeakAreas {
			b.WriteString(fmt.Sprintf("  %s (%s, %d failures)\n", w.Title, w.State, w.Failures))
		}
	}

	if len(d.ReviewQueue) > 0 {
		b.WriteString("\n" + labelStyle.Render("Review queue") + "\n")
		for _, r := range d.ReviewQueue {
			marker := " "
			if r.State == mastery.StateShaky {
				marker = "!"
			}
			b.WriteString(fmt.Sprintf("  %s %s (%s, due %s)\n",
				marker, r.Title, r.State, r.DueAt.Format("Jan 2 15:04")))
		}
	}

	return b.String()
}
