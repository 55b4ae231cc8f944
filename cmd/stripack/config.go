package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/TianXue2002/H-chain/internal/model"
	"github.com/TianXue2002/H-chain/internal/project"
)

var configForce bool

var cmdConfig = cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file.",
}

var cmdConfigInit = cobra.Command{
	Use:   "init [path]",
	Short: "Write a configuration file with the default settings.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		path := flagConfig
		if len(args) == 1 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := project.SaveConfig(path, model.DefaultAppConfig()); err != nil {
			return err
		}
		logrus.WithField("file", path).Info("config written")
		return nil
	},
}

var cmdConfigShow = cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as TOML.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
	},
}

func init() {
	cmdConfigInit.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")
}
