// Package stats derives community figures from the participant list.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/devsidequests/participants/internal/model"
)

// MonthCount is the number of participants who forked during Month (2006-01, UTC).
type MonthCount struct {
	Month string
	Label string
	Count int
}

// MonthlyGrowth buckets fork dates by calendar month, oldest month first.
func MonthlyGrowth(ps []*model.Participant) []MonthCount {
	counts := make(map[string]int)
	for _, p := range ps {
		counts[p.ForkDate.UTC().Format("2006-01")]++
	}

	months := make([]string, 0, len(counts))
	for m := range counts {
		months = append(months, m)
	}
	sort.Strings(months)

	out := make([]MonthCount, 0, len(months))
	for _, m := range months {
		t, _ := time.Parse("2006-01", m)
		out = append(out, MonthCount{Month: m, Label: t.Format("Jan 2006"), Count: counts[m]})
	}
	return out
}

// LanguageShare is how many participants have Language as main language.
type LanguageShare struct {
	Language   string
	Count      int
	Percentage float64
}

// Languages counts main languages, ignoring their percentage annotation, and
// orders them by popularity then name. Percentages are over all participants,
// rounded to one decimal.
func Languages(ps []*model.Participant) []LanguageShare {
	counts := make(map[string]int)
	for _, p := range ps {
		counts[p.MainLanguage.Name]++
	}

	out := make([]LanguageShare, 0, len(counts))
	for name, n := range counts {
		label := name
		if label == "" {
			label = model.NoLanguage.String()
		}
		out = append(out, LanguageShare{
			Language:   label,
			Count:      n,
			Percentage: round1(float64(n) / float64(len(ps)) * 100),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Language < out[j].Language
	})
	return out
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
