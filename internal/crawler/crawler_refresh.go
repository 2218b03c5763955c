package crawler

import (
	"context"
	"errors"
	"time"

	"github.com/devsidequests/participants/cfg"
	"github.com/devsidequests/participants/internal/cache"
	crawlinfo "github.com/devsidequests/participants/internal/crawl_info"
	"github.com/devsidequests/participants/internal/enrich"
	"github.com/devsidequests/participants/pkg/log"
)

// RefreshCrawler re-reads avatar and main language of every cached
// participant. The page is not regenerated.
type RefreshCrawler struct {
	base
	API enrich.GitHub
}

func NewRefreshCrawler(logger log.Logger, config *cfg.Config, api enrich.GitHub, store *cache.Store) (*RefreshCrawler, error) {
	if api == nil {
		return nil, errors.New("refresh crawler needs a GitHub client")
	}
	return &RefreshCrawler{
		base: base{Logger: logger, Config: config, Store: store, Now: time.Now},
		API:  api,
	}, nil
}

func (c *RefreshCrawler) Crawl(ctx context.Context) (*crawlinfo.Info, error) {
	info := c.newInfo(ctx, "refresh")
	info.Output = c.Store.Path

	participants, err := c.Store.Load(ctx)
	if err != nil {
		return nil, err
	}

	fetcher, err := enrich.NewFetcher(c.API, participants, c.Logger, c.Config)
	if err != nil {
		return nil, err
	}
	fetcher.Now = c.now

	for _, login := range participants.Logins() {
		p, _ := participants.Get(login)
		info.Report.Add(fetcher.Refresh(ctx, p).Failures...)
	}
	info.Participants = len(participants)

	if err := c.Store.Save(ctx, participants); err != nil {
		return nil, err
	}

	c.finish(ctx, info)
	return info, nil
}
