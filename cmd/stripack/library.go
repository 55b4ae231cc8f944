package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/TianXue2002/H-chain/internal/model"
	"github.com/TianXue2002/H-chain/internal/project"
)

var (
	flagLibrary          string
	libraryDescription   string
	libraryPreplaced     string
	libraryPackOutputs   outputFlags
	libraryPackOverrides settingsFlags
)

var cmdLibrary = cobra.Command{
	Use:   "library",
	Short: "Save and reuse named tile sets.",
}

var cmdLibraryList = cobra.Command{
	Use:   "list",
	Short: "List the saved tile sets.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		lib, err := project.LoadLibrary(flagLibrary)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tTILES\tUPDATED\tDESCRIPTION")
		for _, s := range lib.Sets {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", s.ID, s.Name, len(s.Tiles), s.UpdatedAt, s.Description)
		}
		return tw.Flush()
	},
}

var cmdLibrarySave = cobra.Command{
	Use:   "save <name> <tiles>",
	Short: "Save a tile file and the current settings under a name.",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		lib, err := project.LoadLibrary(flagLibrary)
		if err != nil {
			return err
		}
		tiles, err := loadTiles(args[1], libraryPreplaced, cfg.Packing.Seams)
		if err != nil {
			return err
		}
		lib.Add(model.NewTileSet(args[0], libraryDescription, tiles, cfg.Packing))
		if err := project.SaveLibrary(flagLibrary, lib); err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{"set": args[0], "tiles": len(tiles)}).Info("tile set saved")
		return nil
	},
}

var cmdLibraryPack = cobra.Command{
	Use:   "pack <name>",
	Short: "Pack a saved tile set with the settings it was saved with.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := project.LoadLibrary(flagLibrary)
		if err != nil {
			return err
		}
		set := lib.FindByName(args[0])
		if set == nil {
			return fmt.Errorf("no tile set named %q", args[0])
		}
		settings := libraryPackOverrides.apply(cmd.Flags(), set.Settings)
		result, s, err := pack(settings, set.Instantiate())
		if err != nil {
			return err
		}
		return writeOutputs(cmd.OutOrStdout(), s, result, libraryPackOutputs)
	},
}

var cmdLibraryRemove = cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a saved tile set.",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		lib, err := project.LoadLibrary(flagLibrary)
		if err != nil {
			return err
		}
		set := lib.FindByName(args[0])
		if set == nil {
			return fmt.Errorf("no tile set named %q", args[0])
		}
		lib.Remove(set.ID)
		return project.SaveLibrary(flagLibrary, lib)
	},
}

func init() {
	cmdLibrary.PersistentFlags().StringVar(&flagLibrary, "library", project.DefaultLibraryPath(), "library file")
	cmdLibrarySave.Flags().StringVar(&libraryDescription, "description", "", "description of the tile set")
	cmdLibrarySave.Flags().StringVar(&libraryPreplaced, "preplaced", "", "preplaced tile file to include")
	libraryPackOverrides.register(cmdLibraryPack.Flags())
	libraryPackOutputs.register(cmdLibraryPack.Flags())
}
