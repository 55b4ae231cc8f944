// stripack packs rectangular tiles onto a height-bounded strip with a
// deterministic first-fit search, clearance margins for inter tiles and
// movable preplaced tiles.
//
// Build:
//
//	go build -o stripack ./cmd/stripack
//
// Example:
//
//	stripack pack tiles.txt --preplaced pre.txt --separation 4 -o results.txt --pdf report.pdf
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/TianXue2002/H-chain/internal/model"
	"github.com/TianXue2002/H-chain/internal/project"
)

var (
	flagConfig   string
	flagLogLevel string

	// cfg is loaded before every subcommand runs.
	cfg = model.DefaultAppConfig()
)

var cmdRoot = cobra.Command{
	Use:           "stripack",
	Short:         "Stripack packs tiles onto a strip with clearance and preplaced tiles.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := project.LoadConfig(flagConfig)
		if err != nil {
			return err
		}
		cfg = loaded
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = flagLogLevel
		}
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		logrus.SetLevel(level)
		logrus.WithField("config", flagConfig).Debug("configuration loaded")
		return nil
	},
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	cmdRoot.PersistentFlags().StringVar(&flagConfig, "config", project.DefaultConfigPath(), "config file (.toml, .yaml or .json)")
	cmdRoot.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")

	cmdConfig.AddCommand(&cmdConfigInit, &cmdConfigShow)
	cmdLibrary.AddCommand(&cmdLibraryList, &cmdLibrarySave, &cmdLibraryPack, &cmdLibraryRemove)
	cmdRoot.AddCommand(&cmdPack, &cmdMove, &cmdCompare, &cmdWatch, &cmdConfig, &cmdLibrary)

	if err := cmdRoot.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
