package crawler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/devsidequests/participants/cfg"
	"github.com/devsidequests/participants/internal/cache"
	crawlinfo "github.com/devsidequests/participants/internal/crawl_info"
	"github.com/devsidequests/participants/internal/enrich"
	"github.com/devsidequests/participants/internal/stats"
	"github.com/devsidequests/participants/pkg/log"
)

// UpdateCrawler is the full run: forks and extra users are enriched, the
// page is regenerated and the cache saved.
type UpdateCrawler struct {
	base
	API GitHub
}

func NewUpdateCrawler(logger log.Logger, config *cfg.Config, api GitHub, store *cache.Store) (*UpdateCrawler, error) {
	if api == nil {
		return nil, errors.New("update crawler needs a GitHub client")
	}
	return &UpdateCrawler{
		base: base{Logger: logger, Config: config, Store: store, Now: time.Now},
		API:  api,
	}, nil
}

func (c *UpdateCrawler) Crawl(ctx context.Context) (*crawlinfo.Info, error) {
	info := c.newInfo(ctx, "update")
	c.Logger.Info(ctx, "Starting participants update for %s", c.Config.UpstreamFullName())

	participants, err := c.Store.Load(ctx)
	if err != nil {
		return nil, err
	}
	known := len(participants)

	fetcher, err := enrich.NewFetcher(c.API, participants, c.Logger, c.Config)
	if err != nil {
		return nil, err
	}
	fetcher.Now = c.now

	forks, err := c.API.ListForks(ctx, c.Config.Upstream.Owner, c.Config.Upstream.Repo)
	if err != nil {
		return nil, fmt.Errorf("listing forks of %s: %w", c.Config.UpstreamFullName(), err)
	}
	info.Forks = len(forks)

	seen := make(map[string]bool)
	for _, fork := range forks {
		login := fork.Owner.Login
		if login == "" {
			login, _ = extractUserAndRepo(fork.FullName)
		}
		if login == "" || seen[login] {
			continue
		}
		seen[login] = true
		info.Report.Add(fetcher.FetchOrReuse(ctx, login, fork.CreatedAt).Failures...)
	}

	for _, login := range c.Config.Participants.Extra {
		login = strings.TrimSpace(login)
		if login == "" || seen[login] {
			continue
		}
		seen[login] = true
		info.Report.Add(fetcher.FetchOrReuse(ctx, login, time.Time{}).Failures...)
	}
	info.NewParticipants = len(participants) - known

	activeQuests := c.countActiveQuests(ctx)

	completions, failures := stats.Completions(ctx, participants.Participants(), c.API, stats.CompletionOptions{
		Prefix:   c.Config.Quest.Prefix,
		Umbrella: c.Config.Quest.Topic,
		MinDays:  c.Config.Quest.CompletionThresholdDays,
		Now:      c.now(),
	})
	info.Report.Add(failures...)

	renderErr := c.renderPage(ctx, participants, completions, activeQuests, info)
	if err := c.Store.Save(ctx, participants); err != nil {
		return nil, errors.Join(renderErr, err)
	}
	if renderErr != nil {
		return nil, renderErr
	}

	c.finish(ctx, info)
	return info, nil
}

// countActiveQuests counts the quest descriptions (*.md) in the upstream
// quests directory, falling back to 1.
func (c *UpdateCrawler) countActiveQuests(ctx context.Context) int {
	entries, err := c.API.ListDirectory(ctx, c.Config.Upstream.Owner, c.Config.Upstream.Repo, c.Config.Upstream.QuestsDir)
	if err != nil {
		c.Logger.Warn(ctx, "Could not list %s: %v", c.Config.Upstream.QuestsDir, err)
		return 1
	}
	n := 0
	for _, e := range entries {
		if e.Type == "file" && strings.HasSuffix(e.Name, ".md") {
			n++
		}
	}
	if n == 0 {
		return 1
	}
	return n
}
