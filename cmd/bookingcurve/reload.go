package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmagar/bookingcurve/internal/api"
)

var (
	reloadServer  string
	reloadToken   string
	reloadTimeout time.Duration
	reloadNoWait  bool
)

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Ask a running server to reload its booking table",
	Long: `Trigger POST /api/v1/admin/reload and wait for the job to finish.

Examples:
  bookingcurve reload --server http://localhost:8080 --token $TOKEN
  bookingcurve reload --no-wait`,
	RunE: runReload,
}

func init() {
	reloadCmd.Flags().StringVar(&reloadServer, "server", "http://localhost:8080", "server base URL")
	reloadCmd.Flags().StringVar(&reloadToken, "token", "", "bearer token from 'bookingcurve token'")
	reloadCmd.Flags().DurationVar(&reloadTimeout, "timeout", 5*time.Minute, "how long to wait for the job")
	reloadCmd.Flags().BoolVar(&reloadNoWait, "no-wait", false, "return once the job is queued")
	rootCmd.AddCommand(reloadCmd)
}

func runReload(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	client := api.NewClient(reloadServer, reloadToken, api.DefaultClientConfig(), log)

	ctx, cancel := context.WithTimeout(cmd.Context(), reloadTimeout)
	defer cancel()

	reload, err := client.TriggerReload(ctx)
	if err != nil {
		return err
	}
	log.Info("Reload queued", zap.String("job_id", reload.JobID))
	if reloadNoWait {
		fmt.Fprintln(cmd.OutOrStdout(), reload.JobID)
		return nil
	}

	job, err := client.WaitForJob(ctx, reload.JobID, time.Second)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s in %dms\n", job.JobID, job.Status, job.DurationMs)
	return nil
}
