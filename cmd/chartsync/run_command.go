package main

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"chartsync/internal/pipeline"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var modeFlag string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a pipeline run",
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := pipeline.ParseMode(modeFlag)
			if err != nil {
				return err
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			runner := pipeline.NewRunner(cfg, st, ctx.logger())
			report, err := runner.Run(cmd.Context(), mode)
			if err != nil {
				return err
			}

			printReport(cmd, report)
			if report.Failed() {
				return fmt.Errorf("run %s finished with load failures", report.RunID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&modeFlag, "mode", "m", string(pipeline.ModeFull),
		"Run mode: full, spotify, youtube, or extract")
	return cmd
}

func printReport(cmd *cobra.Command, report *pipeline.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s (%s) window %s completed in %s\n",
		report.RunID, report.Mode, report.Window, report.Elapsed().Round(1e6))
	fmt.Fprintf(out, "Tracks: %s in, %s normalized, %s skipped\n",
		humanize.Comma(int64(report.TracksIn)),
		humanize.Comma(int64(report.TracksNormalized)),
		humanize.Comma(int64(report.TracksSkipped)))
	fmt.Fprintf(out, "Videos: %s in, %s normalized, %s skipped\n",
		humanize.Comma(int64(report.VideosIn)),
		humanize.Comma(int64(report.VideosNormalized)),
		humanize.Comma(int64(report.VideosSkipped)))
	fmt.Fprintf(out, "Matched pairs: %s  Metrics: %s  Aggregates: %s\n",
		humanize.Comma(int64(report.Pairs)),
		humanize.Comma(int64(report.Metrics)),
		humanize.Comma(int64(report.Aggregates)))

	if len(report.Outcomes) == 0 {
		return
	}
	families := make([]string, 0, len(report.Outcomes))
	for family := range report.Outcomes {
		families = append(families, family)
	}
	sort.Strings(families)

	rows := make([][]string, 0, len(families))
	for _, family := range families {
		o := report.Outcomes[family]
		rows = append(rows, []string{
			family,
			humanize.Comma(int64(o.Inserted)),
			humanize.Comma(int64(o.Updated)),
			humanize.Comma(int64(o.Failed)),
		})
	}
	fmt.Fprintln(out, renderTable(out, []string{"Family", "Inserted", "Updated", "Failed"}, rows, 1, 2, 3))
}
