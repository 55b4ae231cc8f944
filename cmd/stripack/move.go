package main

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/TianXue2002/H-chain/internal/engine"
	"github.com/TianXue2002/H-chain/internal/export"
	"github.com/TianXue2002/H-chain/internal/project"
)

var (
	moveOutput string
	moveRender bool
)

var cmdMove = cobra.Command{
	Use:   "move <snapshot> <x> <delta>",
	Short: "Move the preplaced tile anchored at x by delta columns.",
	Long: `Move restores a saved session, shifts the preplaced tile at x and
every tile at or after x by delta, and saves the session again. A move
that would collide or leave the strip is rejected and nothing changes.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid x %q: %w", args[1], err)
		}
		delta, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid delta %q: %w", args[2], err)
		}

		snap, err := project.LoadSnapshot(args[0])
		if err != nil {
			return err
		}
		s, err := engine.Restore(snap.Settings, snap.Result, engine.WithLogger(logrus.StandardLogger()))
		if err != nil {
			return err
		}
		if err := s.MovePreplaced(x, delta); err != nil {
			return err
		}

		out := moveOutput
		if out == "" {
			out = args[0]
		}
		result := s.Result()
		if err := project.SaveSnapshot(out, result); err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{"x": x, "delta": delta, "snapshot": out}).Info("move committed")

		if err := export.WriteResults(cmd.OutOrStdout(), result); err != nil {
			return err
		}
		if moveRender {
			return s.Render(cmd.OutOrStdout(), cfg.Render.Rows, cfg.Render.Cols)
		}
		return nil
	},
}

func init() {
	cmdMove.Flags().StringVarP(&moveOutput, "output", "o", "", "snapshot to write (default: overwrite the input)")
	cmdMove.Flags().BoolVar(&moveRender, "render", false, "print an ASCII view of the strip after the move")
}
