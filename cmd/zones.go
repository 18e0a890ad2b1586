package main

import (
	"fmt"

	"github.com/gocarina/gocsv"
	"github.com/kass/coordcon/pkg/grid"
	"github.com/kass/coordcon/pkg/models"
	"github.com/spf13/cobra"
)

func newZonesCmd() *cobra.Command {
	var (
		box   models.BoundingBox
		asCSV bool
	)

	cmd := &cobra.Command{
		Use:   "zones",
		Short: "List the UTM grid cells covering a bounding box",
		Long:  `List every zone/band cell of the UTM grid that intersects the given latitude/longitude box, ordered by zone then band.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(cmd); err != nil {
				return err
			}

			index, err := grid.NewIndex()
			if err != nil {
				return err
			}
			cells, err := index.Cells(box)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asCSV {
				if err := gocsv.Marshal(cells, out); err != nil {
					return fmt.Errorf("failed to write cells: %w", err)
				}
				return nil
			}

			for _, c := range cells {
				fmt.Fprintf(out, "%-4s lat %6.1f..%5.1f  lon %6.1f..%6.1f  cm %6.1f  %s\n",
					c.Name(), c.MinLat, c.MaxLat, c.MinLon, c.MaxLon, c.CentralMeridian, c.Hemisphere)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&box.BottomLeft.Latitude, "min-lat", -80, "Southern edge of the box")
	cmd.Flags().Float64Var(&box.BottomLeft.Longitude, "min-lon", -180, "Western edge of the box")
	cmd.Flags().Float64Var(&box.TopRight.Latitude, "max-lat", 84, "Northern edge of the box")
	cmd.Flags().Float64Var(&box.TopRight.Longitude, "max-lon", 180, "Eastern edge of the box")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "Write the cells as CSV")
	return cmd
}
