// Package enrich turns GitHub logins into cached participant records.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devsidequests/participants/cfg"
	githubapi "github.com/devsidequests/participants/internal/github_api"
	"github.com/devsidequests/participants/internal/model"
	"github.com/devsidequests/participants/pkg/log"
)

// GitHub is the part of the API the fetcher reads from.
type GitHub interface {
	GetUser(ctx context.Context, login string) (*githubapi.UserResponse, error)
	ListUserRepos(ctx context.Context, login string) ([]githubapi.RepoResponse, error)
	SearchRepos(ctx context.Context, q string) ([]githubapi.RepoResponse, error)
}

// Result is the outcome for one login. Participant is nil only when nothing
// usable could be fetched; Failures may be set alongside a participant that
// fell back to defaults for some fields.
type Result struct {
	Login       string
	Participant *model.Participant
	Failures    []Failure
}

func (r Result) OK() bool {
	return r.Participant != nil && len(r.Failures) == 0
}

type Fetcher struct {
	API     GitHub
	Cache   model.Cache
	Logger  log.Logger
	Config  *cfg.Config
	Weights Weights
	Now     func() time.Time
}

func NewFetcher(api GitHub, cache model.Cache, logger log.Logger, config *cfg.Config) (*Fetcher, error) {
	if api == nil {
		return nil, errors.New("enrich: nil GitHub client")
	}
	if config == nil {
		return nil, errors.New("enrich: nil config")
	}
	if cache == nil {
		cache = model.NewCache()
	}

	w := DefaultWeights
	l := config.Language
	if l.OriginalWeight > 0 {
		w.Original = l.OriginalWeight
	}
	if l.RecencyWeight > 0 {
		w.Recent = l.RecencyWeight
	}
	if l.RecentDays > 0 {
		w.RecentWindow = time.Duration(l.RecentDays) * 24 * time.Hour
	}
	if l.AnnotateAbove > 0 {
		w.AnnotateAbove = l.AnnotateAbove
	}

	return &Fetcher{
		API:     api,
		Cache:   cache,
		Logger:  logger,
		Config:  config,
		Weights: w,
		Now:     time.Now,
	}, nil
}

func (f *Fetcher) now() time.Time {
	if f.Now == nil {
		return time.Now()
	}
	return f.Now()
}

// FetchOrReuse returns the cached record for login, moving its fork date
// forward when seen is later. Unknown logins are fetched in full and cached;
// a zero seen then stands for "now".
func (f *Fetcher) FetchOrReuse(ctx context.Context, login string, seen time.Time) Result {
	if p, ok := f.Cache.Get(login); ok {
		if !seen.IsZero() && seen.After(p.ForkDate) {
			f.Logger.Info(ctx, "Updated fork date for %s: %s", login, seen.Format(time.RFC3339))
			p.ForkDate = seen
		}
		return Result{Login: login, Participant: p}
	}

	f.Logger.Info(ctx, "Fetching new participant %s", login)
	res := Result{Login: login}

	user, err := f.API.GetUser(ctx, login)
	if err != nil {
		res.Failures = append(res.Failures, f.fail(ctx, login, StageProfile, err))
		return res
	}

	if seen.IsZero() {
		seen = f.now()
	}
	p := &model.Participant{
		Username:   login,
		AvatarURL:  user.AvatarURL,
		ProfileURL: user.HTMLURL,
		ForkDate:   seen,
		Projects:   []model.Project{},
	}

	projects, err := f.Projects(ctx, login)
	if err != nil {
		res.Failures = append(res.Failures, f.fail(ctx, login, StageProjects, err))
	} else {
		p.Projects = projects
	}

	lang, err := f.mainLanguage(ctx, login, &user.Bio)
	if err != nil {
		res.Failures = append(res.Failures, f.fail(ctx, login, StageLanguage, err))
	} else {
		p.MainLanguage = lang
	}

	f.Cache.Put(p)
	res.Participant = p
	return res
}

// Refresh re-reads the avatar and main language of a cached participant.
// Projects and fork date are left alone.
func (f *Fetcher) Refresh(ctx context.Context, p *model.Participant) Result {
	res := Result{Login: p.Username, Participant: p}

	user, err := f.API.GetUser(ctx, p.Username)
	if err != nil {
		res.Failures = append(res.Failures, f.fail(ctx, p.Username, StageProfile, err))
		return res
	}
	if user.AvatarURL != "" && user.AvatarURL != p.AvatarURL {
		p.AvatarURL = user.AvatarURL
		f.Logger.Info(ctx, "Updated avatar for %s", p.Username)
	}

	lang, err := f.mainLanguage(ctx, p.Username, &user.Bio)
	if err != nil {
		res.Failures = append(res.Failures, f.fail(ctx, p.Username, StageLanguage, err))
		return res
	}
	if lang != p.MainLanguage {
		f.Logger.Info(ctx, "Updated main language for %s => %s", p.Username, lang)
		p.MainLanguage = lang
	}
	return res
}

// Projects lists login's repositories tagged with the quest topic.
func (f *Fetcher) Projects(ctx context.Context, login string) ([]model.Project, error) {
	repos, err := f.API.SearchRepos(ctx, fmt.Sprintf("user:%s topic:%s", login, f.Config.Quest.Topic))
	if err != nil {
		return nil, err
	}
	projects := make([]model.Project, 0, len(repos))
	for _, repo := range repos {
		topics := repo.Topics
		if topics == nil {
			topics = []string{}
		}
		projects = append(projects, model.Project{
			Name:   repo.Name,
			URL:    repo.HTMLURL,
			Topics: topics,
		})
	}
	return projects, nil
}

func (f *Fetcher) fail(ctx context.Context, login string, stage Stage, err error) Failure {
	f.Logger.Warn(ctx, "Could not fetch %s of %s: %v", stage, login, err)
	return Failure{Login: login, Stage: stage, Err: err}
}
