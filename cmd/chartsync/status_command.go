package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show stored document counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Database: %s\n\n", st.Path())

			counts, err := st.Counts(cmd.Context())
			if err != nil {
				return err
			}
			familyRows := [][]string{
				{"tracks", humanize.Comma(counts.Tracks)},
				{"videos", humanize.Comma(counts.Videos)},
				{"matched_pairs", humanize.Comma(counts.Pairs)},
				{"derived_metrics", humanize.Comma(counts.Metrics)},
				{"regional_aggregates", humanize.Comma(counts.Aggregates)},
			}
			fmt.Fprintln(out, renderTable(out, []string{"Family", "Documents"}, familyRows, 1))

			regions, err := st.VideoCountsByRegion(cmd.Context())
			if err != nil {
				return err
			}
			if len(regions) > 0 {
				regionRows := make([][]string, 0, len(regions))
				for _, rc := range regions {
					regionRows = append(regionRows, []string{rc.RegionCode, humanize.Comma(rc.Videos)})
				}
				fmt.Fprintln(out, renderTable(out, []string{"Region", "Videos"}, regionRows, 1))
			}

			latest, err := st.LatestAggregates(cmd.Context())
			if err != nil {
				return err
			}
			if len(latest) == 0 {
				fmt.Fprintln(out, "No aggregates stored yet; run `chartsync run` first.")
				return nil
			}
			fmt.Fprintf(out, "Latest window: %s (%d regions)\n", latest[0].Window, len(latest))
			return nil
		},
	}
}
