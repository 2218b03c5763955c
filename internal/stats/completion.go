package stats

import (
	"context"
	"sort"
	"time"

	"github.com/devsidequests/participants/internal/enrich"
	githubapi "github.com/devsidequests/participants/internal/github_api"
	"github.com/devsidequests/participants/internal/model"
)

// RepoLookup fetches repository metadata for creation dates.
type RepoLookup interface {
	GetRepo(ctx context.Context, owner, repo string) (*githubapi.RepoResponse, error)
}

type CompletionOptions struct {
	// Prefix marks quest topics, Umbrella is the shared topic excluded from them.
	Prefix   string
	Umbrella string
	// MinDays is how old a project must be to count as completed.
	MinDays int
	Now     time.Time
}

// Completion is one finished quest project.
type Completion struct {
	Quest string
	Repo  string
	URL   string
	User  string
	Days  int
}

type QuestAverage struct {
	Quest string
	Days  float64
	Count int
}

// Completions looks up the creation date of every quest project and keeps
// those at least MinDays old. Lookup errors are reported per project.
func Completions(ctx context.Context, ps []*model.Participant, lookup RepoLookup, opts CompletionOptions) ([]Completion, []enrich.Failure) {
	var (
		out      []Completion
		failures []enrich.Failure
	)
	for _, p := range ps {
		for _, project := range p.Projects {
			quest, ok := project.QuestID(opts.Prefix, opts.Umbrella)
			if !ok {
				continue
			}
			repo, err := lookup.GetRepo(ctx, p.Username, project.Name)
			if err != nil {
				failures = append(failures, enrich.Failure{Login: p.Username, Stage: enrich.StageCompletion, Err: err})
				continue
			}
			days := ElapsedDays(repo.CreatedAt, opts.Now)
			if days < opts.MinDays {
				continue
			}
			out = append(out, Completion{
				Quest: quest,
				Repo:  project.Name,
				URL:   project.URL,
				User:  p.Username,
				Days:  days,
			})
		}
	}
	return out, failures
}

// ElapsedDays counts whole days from created to now.
func ElapsedDays(created, now time.Time) int {
	if now.Before(created) {
		return 0
	}
	return int(now.Sub(created) / (24 * time.Hour))
}

// Averages returns the mean completion time of each quest, ordered by quest.
func Averages(cs []Completion) []QuestAverage {
	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, c := range cs {
		sums[c.Quest] += c.Days
		counts[c.Quest]++
	}

	out := make([]QuestAverage, 0, len(sums))
	for quest, sum := range sums {
		out = append(out, QuestAverage{
			Quest: quest,
			Days:  float64(sum) / float64(counts[quest]),
			Count: counts[quest],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Quest < out[j].Quest })
	return out
}
