package main

import (
	"fmt"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/spf13/cobra"

	"chartsync/internal/record"
)

// exportRow flattens a regional aggregate for CSV consumers.
type exportRow struct {
	RegionCode         string  `csv:"region_code"`
	Window             string  `csv:"window"`
	VideoCount         int     `csv:"video_count"`
	TotalViews         int64   `csv:"total_views"`
	TotalLikes         int64   `csv:"total_likes"`
	TotalComments      int64   `csv:"total_comments"`
	MatchedTrackCount  int     `csv:"matched_track_count"`
	AvgTrackPopularity float64 `csv:"avg_track_popularity"`
	AvgViewsPerVideo   float64 `csv:"avg_views_per_video"`
	AvgEngagementRate  float64 `csv:"avg_engagement_rate"`
	TopTrackID         string  `csv:"top_track_id"`
	TopVideoID         string  `csv:"top_video_id"`
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var windowFlag string
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export regional aggregates as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			var aggregates []record.RegionalAggregate
			if windowFlag != "" {
				aggregates, err = st.AggregatesByWindow(cmd.Context(), windowFlag)
			} else {
				aggregates, err = st.LatestAggregates(cmd.Context())
			}
			if err != nil {
				return err
			}
			if len(aggregates) == 0 {
				return fmt.Errorf("no aggregates to export; run the pipeline first")
			}

			rows := make([]exportRow, 0, len(aggregates))
			for _, a := range aggregates {
				row := exportRow{
					RegionCode:         a.RegionCode,
					Window:             a.Window,
					VideoCount:         a.VideoCount,
					TotalViews:         a.TotalViews,
					TotalLikes:         a.TotalLikes,
					TotalComments:      a.TotalComments,
					MatchedTrackCount:  a.MatchedTrackCount,
					AvgTrackPopularity: a.AvgTrackPopularity,
					AvgViewsPerVideo:   a.AvgViewsPerVideo,
					AvgEngagementRate:  a.AvgEngagementRate,
				}
				if len(a.TopTracks) > 0 {
					row.TopTrackID = a.TopTracks[0].ID
				}
				if len(a.TopVideos) > 0 {
					row.TopVideoID = a.TopVideos[0].ID
				}
				rows = append(rows, row)
			}

			data, err := csvutil.Marshal(rows)
			if err != nil {
				return fmt.Errorf("encode csv: %w", err)
			}

			if outputFlag == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outputFlag, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outputFlag, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d aggregates to %s\n", len(rows), outputFlag)
			return nil
		},
	}

	cmd.Flags().StringVarP(&windowFlag, "window", "w", "", "Aggregation window to export (default: latest)")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Destination file (default: stdout)")
	return cmd
}
