// Package crawler drives a participants run: it loads the cache, enriches
// the participants through the GitHub API, aggregates, renders the page and
// saves the cache again.

package crawler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/devsidequests/participants/cfg"
	"github.com/devsidequests/participants/internal/cache"
	crawlinfo "github.com/devsidequests/participants/internal/crawl_info"
	"github.com/devsidequests/participants/internal/enrich"
	githubapi "github.com/devsidequests/participants/internal/github_api"
	"github.com/devsidequests/participants/internal/model"
	"github.com/devsidequests/participants/internal/render"
	"github.com/devsidequests/participants/internal/stats"
	"github.com/devsidequests/participants/pkg/log"
)

type Crawler interface {
	Crawl(ctx context.Context) (*crawlinfo.Info, error)
}

// GitHub is every endpoint a run may call.
type GitHub interface {
	enrich.GitHub
	stats.RepoLookup
	ListForks(ctx context.Context, owner, repo string) ([]githubapi.RepoResponse, error)
	ListDirectory(ctx context.Context, owner, repo, dir string) ([]githubapi.ContentResponse, error)
}

// base holds what every crawler mode shares.
type base struct {
	Logger log.Logger
	Config *cfg.Config
	Store  *cache.Store
	Now    func() time.Time
}

func (b *base) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

func (b *base) newInfo(ctx context.Context, mode string) *crawlinfo.Info {
	return &crawlinfo.Info{
		RunID:     log.RunID(ctx),
		Mode:      mode,
		StartedAt: b.now(),
		Output:    b.Config.Files.Output,
	}
}

func (b *base) finish(ctx context.Context, info *crawlinfo.Info) {
	info.Duration = b.now().Sub(info.StartedAt)
	for _, f := range info.Report.Failures {
		b.Logger.Warn(ctx, "Skipped %s", f.Error())
	}
	b.Logger.Info(ctx, "==== %s RESULT ====", info.Mode)
	b.Logger.Info(ctx, "Participants: %d (%d new)", info.Participants, info.NewParticipants)
	b.Logger.Info(ctx, "Failures: %d", info.Report.Len())
	b.Logger.Info(ctx, "Duration: %v", info.Duration)
}

// renderPage aggregates the cached participants and writes the page.
func (b *base) renderPage(ctx context.Context, c model.Cache, completions []stats.Completion, activeQuests int, info *crawlinfo.Info) error {
	community := stats.Compute(c.Participants(), completions, activeQuests)
	info.Participants = len(community.Participants)
	info.Projects = community.Projects
	info.ActiveQuests = activeQuests
	info.Completions = len(completions)

	page, err := render.Markdown(render.Data{
		Community:   community,
		GeneratedAt: b.now(),
		Topic:       b.Config.Quest.Topic,
		Prefix:      b.Config.Quest.Prefix,
	})
	if err != nil {
		return err
	}
	if err := writeFile(b.Config.Files.Output, page); err != nil {
		return err
	}
	b.Logger.Info(ctx, "Wrote %s", b.Config.Files.Output)
	return nil
}

func writeFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
