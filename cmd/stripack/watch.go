package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/TianXue2002/H-chain/internal/project"
)

var (
	watchSettings  settingsFlags
	watchOutputs   outputFlags
	watchPreplaced string
)

var cmdWatch = cobra.Command{
	Use:   "watch <tiles>",
	Short: "Re-pack whenever the tile or preplaced file changes.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		paths := []string{args[0]}
		if watchPreplaced != "" {
			paths = append(paths, watchPreplaced)
		}
		w, err := project.NewWatcher(paths...)
		if err != nil {
			return err
		}
		defer w.Close()

		repack := func() {
			settings := watchSettings.apply(cmd.Flags(), cfg.Packing)
			if err := packOnce(cmd.OutOrStdout(), args[0], watchPreplaced, settings, watchOutputs); err != nil {
				logrus.WithError(err).Error("pack failed")
			}
		}
		repack()
		logrus.WithField("files", paths).Info("watching for changes")
		return watchLoop(ctx, w, repack)
	},
}

func init() {
	watchSettings.register(cmdWatch.Flags())
	watchOutputs.register(cmdWatch.Flags())
	cmdWatch.Flags().StringVar(&watchPreplaced, "preplaced", "", "preplaced tile file")
}

// watchLoop calls repack for every change until ctx is done or the
// watcher closes.
func watchLoop(ctx context.Context, w *project.Watcher, repack func()) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case name, ok := <-w.Events:
			if !ok {
				return nil
			}
			logrus.WithField("file", name).Info("change detected")
			repack()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logrus.WithError(err).Warn("watch error")
		}
	}
}
