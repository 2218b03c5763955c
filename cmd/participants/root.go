package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/xid"
	"github.com/spf13/cobra"

	"github.com/devsidequests/participants/cfg"
	"github.com/devsidequests/participants/internal/cache"
	"github.com/devsidequests/participants/internal/crawler"
	githubapi "github.com/devsidequests/participants/internal/github_api"
	"github.com/devsidequests/participants/pkg/log"
)

var (
	version = "dev"
	commit  = "none"
)

type flags struct {
	config string
	output string
	cache  string
	debug  bool
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:           "participants",
		Short:         "Generate the Dev Side Quests participants page",
		Long:          "participants lists the forks of the Dev Side Quests repository, enriches every adventurer through the GitHub API and renders PARTICIPANTS.md.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&f.config, "config", "", "path to config file")
	root.PersistentFlags().StringVar(&f.output, "output", "", "markdown file to write (overrides files.output)")
	root.PersistentFlags().StringVar(&f.cache, "cache", "", "JSON cache file (overrides files.cache)")
	root.PersistentFlags().BoolVar(&f.debug, "debug", false, "log debug lines")

	root.AddCommand(newUpdateCmd(f), newRefreshCmd(f), newRenderCmd(f), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "participants %s (commit: %s)\n", version, commit)
		},
	}
}

// app is what a command needs once flags and config are resolved.
type app struct {
	ctx    context.Context
	loader cfg.Loader
	config *cfg.Config
	logger log.Logger
	store  *cache.Store
}

func setup(ctx context.Context, f *flags, online bool) (*app, error) {
	csl, err := log.NewCslLoggerTo(os.Stderr, f.debug)
	if err != nil {
		return nil, err
	}
	logger, err := log.NewLogger(csl)
	if err != nil {
		return nil, err
	}
	ctx = log.WithRunID(ctx, xid.New().String())

	vl, err := cfg.NewViperLoader(f.config)
	if err != nil {
		return nil, err
	}
	loader, err := cfg.NewLoader(vl)
	if err != nil {
		return nil, err
	}
	config, err := loader.Load()
	if err != nil {
		return nil, err
	}
	f.apply(config)
	if online {
		if err := config.Validate(); err != nil {
			return nil, err
		}
	}
	if used := vl.ConfigFileUsed(); used != "" {
		logger.Debug(ctx, "Using config file %s", used)
	}

	store, err := cache.NewStore(config.Files.Cache, logger)
	if err != nil {
		return nil, err
	}
	return &app{ctx: ctx, loader: loader, config: config, logger: logger, store: store}, nil
}

// apply lets the command line win over the config file.
func (f *flags) apply(config *cfg.Config) {
	if f.output != "" {
		config.Files.Output = f.output
	}
	if f.cache != "" {
		config.Files.Cache = f.cache
	}
}

// runMode builds the crawler for mode, runs it and prints the summary.
func runMode(cmd *cobra.Command, f *flags, mode string) error {
	a, err := setup(cmd.Context(), f, mode != "render")
	if err != nil {
		return err
	}

	var gh crawler.GitHub
	if mode != "render" {
		gh = githubapi.NewCaller(a.ctx, a.logger, a.config, nil)
	}
	c, err := crawler.FactoryCrawler(mode, a.logger, a.config, gh, a.store)
	if err != nil {
		return err
	}

	info, err := c.Crawl(a.ctx)
	if err != nil {
		a.logger.Error(a.ctx, "%s failed: %v", mode, err)
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), summary(info))
	return nil
}
