package crawler

import (
	"fmt"

	"github.com/devsidequests/participants/cfg"
	"github.com/devsidequests/participants/internal/cache"
	"github.com/devsidequests/participants/pkg/log"
)

func FactoryCrawler(mode string, logger log.Logger, config *cfg.Config, api GitHub, store *cache.Store) (Crawler, error) {
	switch mode {
	case "update":
		return NewUpdateCrawler(logger, config, api, store)
	case "refresh":
		return NewRefreshCrawler(logger, config, api, store)
	case "render":
		return NewRenderCrawler(logger, config, store)
	default:
		return nil, fmt.Errorf("unsupported crawler mode: %s", mode)
	}
}
