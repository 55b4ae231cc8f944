package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/TianXue2002/H-chain/internal/engine"
)

var (
	compareSettings  settingsFlags
	comparePreplaced string
)

var cmdCompare = cobra.Command{
	Use:   "compare <tiles>",
	Short: "Pack the same tiles under several setting variants and compare.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := compareSettings.apply(cmd.Flags(), cfg.Packing)
		tiles, err := loadTiles(args[0], comparePreplaced, settings.Seams)
		if err != nil {
			return err
		}

		// Scenario logs would repeat every placement; keep them quiet.
		quiet := logrus.New()
		quiet.SetLevel(logrus.ErrorLevel)
		results := engine.CompareScenarios(engine.BuildDefaultScenarios(settings), tiles, engine.WithLogger(quiet))
		engine.LogComparison(logrus.StandardLogger(), results)

		best := engine.Best(results)
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "\tSCENARIO\tWIDTH\tHEIGHT\tUNPLACED\tEFFICIENCY")
		for i, r := range results {
			mark := ""
			if i == best {
				mark = "*"
			}
			if r.Err != nil {
				fmt.Fprintf(tw, "%s\t%s\terror: %v\t\t\t\n", mark, r.Scenario.Name, r.Err)
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%.1f%%\n",
				mark, r.Scenario.Name, r.BoundingWidth, r.BoundingHeight, r.UnplacedCount, r.Efficiency)
		}
		return tw.Flush()
	},
}

func init() {
	compareSettings.register(cmdCompare.Flags())
	cmdCompare.Flags().StringVar(&comparePreplaced, "preplaced", "", "preplaced tile file")
}
