package crawler

import (
	"context"
	"time"

	"github.com/devsidequests/participants/cfg"
	"github.com/devsidequests/participants/internal/cache"
	crawlinfo "github.com/devsidequests/participants/internal/crawl_info"
	"github.com/devsidequests/participants/internal/model"
	"github.com/devsidequests/participants/pkg/log"
)

// RenderCrawler regenerates the page from the cache alone. Without API
// access completion times are left out and active quests are the distinct
// quest topics found in cached projects.
type RenderCrawler struct {
	base
}

func NewRenderCrawler(logger log.Logger, config *cfg.Config, store *cache.Store) (*RenderCrawler, error) {
	return &RenderCrawler{
		base: base{Logger: logger, Config: config, Store: store, Now: time.Now},
	}, nil
}

func (c *RenderCrawler) Crawl(ctx context.Context) (*crawlinfo.Info, error) {
	info := c.newInfo(ctx, "render")

	participants, err := c.Store.Load(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.renderPage(ctx, participants, nil, c.cachedQuests(participants), info); err != nil {
		return nil, err
	}

	c.finish(ctx, info)
	return info, nil
}

func (c *RenderCrawler) cachedQuests(participants model.Cache) int {
	quests := make(map[string]bool)
	for _, p := range participants {
		for _, project := range p.Projects {
			if id, ok := project.QuestID(c.Config.Quest.Prefix, c.Config.Quest.Topic); ok {
				quests[id] = true
			}
		}
	}
	if len(quests) == 0 {
		return 1
	}
	return len(quests)
}
