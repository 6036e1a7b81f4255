package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmagar/bookingcurve/internal/models"
	"github.com/jmagar/bookingcurve/internal/services"
)

var summaryThreshold int

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print per-group counts for one threshold",
	Long: `Load the booking table and print, for each group, how many rows exceed
the threshold and the largest count observed.

Examples:
  bookingcurve summary                 # range minimum
  bookingcurve summary --threshold 12`,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().IntVarP(&summaryThreshold, "threshold", "t", -1, "threshold (defaults to the range minimum)")
	rootCmd.AddCommand(summaryCmd)
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
)

func runSummary(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	dashboard, err := newDashboard(cfg, log)
	if err != nil {
		return err
	}
	dash, err := dashboard.Reload(cmd.Context())
	if err != nil {
		return err
	}

	threshold := summaryThreshold
	if threshold < 0 {
		threshold = dashboard.Range().Min
	}
	out, err := renderSummary(dash, threshold)
	if err != nil {
		return err
	}
	log.Debug("Summary rendered", zap.Int("threshold", threshold))

	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// renderSummary lays out one row per group: label, rows above threshold, peak count.
func renderSummary(dash *models.Dashboard, threshold int) (string, error) {
	if !dash.Summary.Range.Contains(threshold) {
		return "", fmt.Errorf("threshold %d outside range %d..%d", threshold, dash.Summary.Range.Min, dash.Summary.Range.Max)
	}

	groups := models.AllGroups()
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		frame, _ := dash.ScatterFrame(g, threshold)
		rows = append(rows, []string{
			g.String(),
			strconv.Itoa(frame.Len()),
			strconv.Itoa(dash.Summary.MaxCounts[g]),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Group", fmt.Sprintf("Rows > %d", threshold), "Peak").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return numberStyle
			}
		})

	title := fmt.Sprintf("%s: %d rows from %s", services.ScatterTitle, dash.Summary.Rows, dash.Summary.Source)
	if r := dash.Summary.DateRange; r != nil {
		title += fmt.Sprintf(" (%s to %s)", r.Min, r.Max)
	}
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), t.String()), nil
}
