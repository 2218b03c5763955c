package enrich

import (
	"context"
	"strings"
	"time"
	"unicode"

	githubapi "github.com/devsidequests/participants/internal/github_api"
	"github.com/devsidequests/participants/internal/model"
)

// Weights tunes the main language histogram.
type Weights struct {
	// Original multiplies repositories that are not forks.
	Original int
	// Recent multiplies repositories updated within RecentWindow.
	Recent       int
	RecentWindow time.Duration
	// AnnotateAbove is the share, in percent, the winner must exceed to carry
	// its percentage in the label.
	AnnotateAbove int
}

var DefaultWeights = Weights{
	Original:      3,
	Recent:        2,
	RecentWindow:  180 * 24 * time.Hour,
	AnnotateAbove: 15,
}

// WeighLanguages picks the dominant language of repos. Each repository with a
// declared language counts once, times Original when it is not a fork, times
// Recent when it was updated after now-RecentWindow. Ties go to the language
// seen first.
func WeighLanguages(repos []githubapi.RepoResponse, now time.Time, w Weights) model.Language {
	cutoff := now.Add(-w.RecentWindow)
	weights := make(map[string]int)
	var order []string
	total := 0

	for _, repo := range repos {
		if repo.Language == "" {
			continue
		}
		weight := 1
		if !repo.Fork {
			weight *= w.Original
		}
		if repo.UpdatedAt.After(cutoff) {
			weight *= w.Recent
		}
		if _, ok := weights[repo.Language]; !ok {
			order = append(order, repo.Language)
		}
		weights[repo.Language] += weight
		total += weight
	}
	if total == 0 {
		return model.NoLanguage
	}

	best := order[0]
	for _, lang := range order[1:] {
		if weights[lang] > weights[best] {
			best = lang
		}
	}

	lang := model.Language{Name: best}
	if weights[best]*100 > w.AnnotateAbove*total {
		lang.Share = weights[best] * 100 / total
	}
	return lang
}

// MainLanguage infers login's main language from their repositories.
func (f *Fetcher) MainLanguage(ctx context.Context, login string) (model.Language, error) {
	return f.mainLanguage(ctx, login, nil)
}

func (f *Fetcher) mainLanguage(ctx context.Context, login string, bio *string) (model.Language, error) {
	repos, err := f.API.ListUserRepos(ctx, login)
	if err != nil {
		return model.NoLanguage, err
	}

	lang := WeighLanguages(repos, f.now(), f.Weights)
	if lang.Known() || !f.Config.Language.BioFallback {
		return lang, nil
	}

	if bio == nil {
		user, err := f.API.GetUser(ctx, login)
		if err != nil {
			return model.NoLanguage, err
		}
		bio = &user.Bio
	}
	return LanguageFromBio(*bio), nil
}

var bioLanguages = []string{
	"Python", "JavaScript", "TypeScript", "Java", "C", "C++", "C#", "Go", "Golang",
	"Ruby", "PHP", "Swift", "Kotlin", "Rust", "Scala", "R", "Perl", "Haskell",
	"Lua", "Shell", "Objective-C", "Assembly", "Elixir", "Dart", "Zig",
}

// LanguageFromBio returns the first well-known language named as a whole word
// in bio.
func LanguageFromBio(bio string) model.Language {
	words := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(bio), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#' && r != '-'
	}) {
		words[w] = true
	}
	for _, lang := range bioLanguages {
		if words[strings.ToLower(lang)] {
			if lang == "Golang" {
				lang = "Go"
			}
			return model.Language{Name: lang}
		}
	}
	return model.NoLanguage
}
