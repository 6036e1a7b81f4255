package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmagar/bookingcurve/internal/models"
	"github.com/jmagar/bookingcurve/internal/web"
)

const (
	formatJSON = "json"
	formatHTML = "html"
)

var (
	exportOut    string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every precomputed frame to a file",
	Long: `Load the booking table and write both figures with all of their frames.

Format json writes the scatter and bar figures as one JSON document. Format
html writes a standalone dashboard page with the data inlined; it only needs
the Plotly.js CDN to open.

Examples:
  bookingcurve export --out frames.json
  bookingcurve export --out dashboard.html --format html
  bookingcurve export --out - --format json    # stdout`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file, - for stdout")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", formatJSON, "json or html")
	_ = exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != formatJSON && exportFormat != formatHTML {
		return fmt.Errorf("unknown format %q, expected json or html", exportFormat)
	}

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

	var w io.Writer = cmd.OutOrStdout()
	if exportOut != "-" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := writeExport(w, dash, exportFormat); err != nil {
		return err
	}

	log.Info("Export written",
		zap.String("out", exportOut),
		zap.String("format", exportFormat),
		zap.Int("frames", dash.FrameCount()),
	)
	return nil
}

func writeExport(w io.Writer, dash *models.Dashboard, format string) error {
	if format == formatHTML {
		return web.Render(w, web.NewStandalonePage(dash))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(web.Figures{Scatter: dash.Scatter, Bars: dash.Bars}); err != nil {
		return fmt.Errorf("failed to encode figures: %w", err)
	}
	return nil
}
