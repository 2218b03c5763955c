package stats

import "github.com/devsidequests/participants/internal/model"

// Community is everything the report shows.
type Community struct {
	Participants []*model.Participant
	Projects     int
	ActiveQuests int
	Newest       string
	Growth       []MonthCount
	Languages    []LanguageShare
	Completions  []Completion
	Averages     []QuestAverage
}

// Compute aggregates ps, which it sorts newest first.
func Compute(ps []*model.Participant, completions []Completion, activeQuests int) Community {
	model.SortNewestFirst(ps)

	c := Community{
		Participants: ps,
		Projects:     model.ProjectCount(ps),
		ActiveQuests: activeQuests,
		Growth:       MonthlyGrowth(ps),
		Languages:    Languages(ps),
		Completions:  completions,
		Averages:     Averages(completions),
	}
	if len(ps) > 0 {
		c.Newest = ps[0].Username
	}
	return c
}
