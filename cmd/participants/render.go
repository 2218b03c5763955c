package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/devsidequests/participants/api"
	"github.com/devsidequests/participants/cfg"
	"github.com/devsidequests/participants/internal/cache"
	"github.com/devsidequests/participants/internal/crawler"
)

func newRenderCmd(f *flags) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the page from the cache without calling GitHub",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !watch {
				return runMode(cmd, f, "render")
			}
			return watchRender(cmd, f)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "render again whenever the cache or config file changes")
	return cmd
}

func watchRender(cmd *cobra.Command, f *flags) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := setup(ctx, f, false)
	if err != nil {
		return err
	}
	c, err := crawler.NewRenderCrawler(a.logger, a.config, a.store)
	if err != nil {
		return err
	}
	runner, err := api.NewRunner(a.logger, "render", c)
	if err != nil {
		return err
	}

	rerender := func(ctx context.Context) {
		if err := runner.Run(ctx); err == nil {
			a.logger.Debug(ctx, "Rendered %d participants", runner.Stats().Participants)
		}
	}

	// files.cache may change on reload; the watcher follows it
	moves := make(chan string, 1)
	if w, ok := a.loader.(cfg.Watcher); ok {
		watching := w.Watch(func(config *cfg.Config) {
			f.apply(config)
			store, err := cache.NewStore(config.Files.Cache, a.logger)
			if err != nil {
				a.logger.Error(a.ctx, "Ignoring reloaded config: %v", err)
				return
			}
			next, err := crawler.NewRenderCrawler(a.logger, config, store)
			if err != nil {
				a.logger.Error(a.ctx, "Ignoring reloaded config: %v", err)
				return
			}
			runner.SetCrawler(next)
			rerender(a.ctx)

			select {
			case <-moves:
			default:
			}
			moves <- config.Files.Cache
		})
		if !watching {
			a.logger.Info(a.ctx, "No config file in use, only the cache is watched")
		}
	}

	rerender(a.ctx)
	return crawler.WatchMoving(a.ctx, a.logger, a.config.Files.Cache, moves, rerender)
}
