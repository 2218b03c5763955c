package model

import (
	"sort"
	"strings"
	"time"
)

// Participant is everything known about one adventurer. It is keyed by
// Username in the cache and is never removed from it.
type Participant struct {
	Username     string    `json:"username"`
	AvatarURL    string    `json:"avatar_url"`
	ProfileURL   string    `json:"profile_url"`
	ForkDate     time.Time `json:"fork_date"`
	Projects     []Project `json:"dsq_repos"`
	MainLanguage Language  `json:"main_language"`
}

// Project is a repository the participant tagged with the quest topic.
type Project struct {
	Name   string   `json:"name"`
	URL    string   `json:"url"`
	Topics []string `json:"topics"`
}

// QuestID returns the first topic carrying prefix that is not the umbrella topic.
func (p Project) QuestID(prefix, umbrella string) (string, bool) {
	for _, topic := range p.Topics {
		if strings.HasPrefix(topic, prefix) && topic != umbrella {
			return topic, true
		}
	}
	return "", false
}

// Cache maps usernames to participants.
type Cache map[string]*Participant

func NewCache() Cache {
	return make(Cache)
}

func (c Cache) Get(login string) (*Participant, bool) {
	p, ok := c[login]
	return p, ok
}

func (c Cache) Put(p *Participant) {
	c[p.Username] = p
}

// Logins returns the cached usernames in lexical order.
func (c Cache) Logins() []string {
	logins := make([]string, 0, len(c))
	for login := range c {
		logins = append(logins, login)
	}
	sort.Strings(logins)
	return logins
}

// Participants returns the cached records, newest fork first.
func (c Cache) Participants() []*Participant {
	out := make([]*Participant, 0, len(c))
	for _, p := range c {
		out = append(out, p)
	}
	SortNewestFirst(out)
	return out
}

// SortNewestFirst orders by fork date descending, then by username.
func SortNewestFirst(ps []*Participant) {
	sort.SliceStable(ps, func(i, j int) bool {
		if !ps[i].ForkDate.Equal(ps[j].ForkDate) {
			return ps[i].ForkDate.After(ps[j].ForkDate)
		}
		return ps[i].Username < ps[j].Username
	})
}

// ProjectCount sums the tagged projects of every participant.
func ProjectCount(ps []*Participant) int {
	total := 0
	for _, p := range ps {
		total += len(p.Projects)
	}
	return total
}
