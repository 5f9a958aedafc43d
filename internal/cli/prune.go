package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"hylehub-store/internal/analytics"
)

var pruneDays int

var pruneCmd = &cobra.Command{
	Use:   "prune-visitors",
	Short: "Delete visitor records older than the retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.Close(ctx)

		days := rt.cfg.RetentionDays
		if cmd.Flags().Changed("days") {
			days = pruneDays
		}
		if days <= 0 {
			logrus.Info("retention disabled, nothing to prune")
			return nil
		}

		svc := analytics.NewService(rt.store.Visitors, rt.store.Products)
		_, err = svc.PruneVisitors(ctx, days)
		return err
	},
}

func init() {
	pruneCmd.Flags().IntVar(&pruneDays, "days", 0, "retention window in days (default ANALYTICS_RETENTION_DAYS)")
	rootCmd.AddCommand(pruneCmd)
}
