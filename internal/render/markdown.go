// Package render formats community statistics as the participants Markdown page.
package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/devsidequests/participants/internal/model"
	"github.com/devsidequests/participants/internal/stats"
)

//go:embed participants.md.tmpl
var participantsTemplate string

var tmpl = template.Must(template.New("participants").Parse(participantsTemplate))

const (
	// BarWidth is the length of a full chart bar.
	BarWidth        = 30
	topLanguages    = 8
	leaderboardSize = 5
	galleryColumns  = 5
	// past this many participants the page mentions how many more there are
	galleryMention = 30
)

// Data is the input of Markdown.
type Data struct {
	Community   stats.Community
	GeneratedAt time.Time
	// Topic is the umbrella topic, Prefix the quest topic prefix.
	Topic  string
	Prefix string
}

type page struct {
	Date         string
	Updated      string
	Topic        string
	Prefix       string
	Participants int
	ActiveQuests int
	Projects     int
	Newest       string
	Growth       []growthRow
	Languages    []languageRow
	Averages     []averageRow
	Leaderboard  []leaderRow
	Gallery      [][]*model.Participant
	More         int
}

type growthRow struct {
	Label string
	Bar   string
	Count int
}

type languageRow struct {
	Name       string
	Bar        string
	Percentage string
}

type averageRow struct {
	Quest string
	Days  string
}

type leaderRow struct {
	Username   string
	AvatarURL  string
	ProfileURL string
	Language   string
	RepoLink   string
	Date       string
}

// Bar draws value/full of BarWidth blocks, truncated.
func Bar(value, full float64) string {
	if full <= 0 || value <= 0 {
		return ""
	}
	n := int(value / full * BarWidth)
	if n > BarWidth {
		n = BarWidth
	}
	return strings.Repeat("█", n)
}

// Markdown renders the page. The output depends only on d.
func Markdown(d Data) (string, error) {
	c := d.Community
	p := page{
		Date:         d.GeneratedAt.UTC().Format("2006-01-02"),
		Updated:      d.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC"),
		Topic:        d.Topic,
		Prefix:       d.Prefix,
		Participants: len(c.Participants),
		ActiveQuests: c.ActiveQuests,
		Projects:     c.Projects,
		Newest:       c.Newest,
	}
	if p.Newest == "" {
		p.Newest = "No participant yet"
	}

	maxCount := 0
	for _, m := range c.Growth {
		if m.Count > maxCount {
			maxCount = m.Count
		}
	}
	for _, m := range c.Growth {
		p.Growth = append(p.Growth, growthRow{
			Label: m.Label,
			Bar:   Bar(float64(m.Count), float64(maxCount)),
			Count: m.Count,
		})
	}

	for i, l := range c.Languages {
		if i == topLanguages {
			break
		}
		p.Languages = append(p.Languages, languageRow{
			Name:       fmt.Sprintf("%-10s", l.Language),
			Bar:        Bar(l.Percentage, 100),
			Percentage: fmt.Sprintf("%.1f", l.Percentage),
		})
	}

	for _, a := range c.Averages {
		p.Averages = append(p.Averages, averageRow{Quest: a.Quest, Days: fmt.Sprintf("%.1f", a.Days)})
	}

	for i, u := range c.Participants {
		if i == leaderboardSize {
			break
		}
		row := leaderRow{
			Username:   u.Username,
			AvatarURL:  u.AvatarURL,
			ProfileURL: u.ProfileURL,
			Language:   u.MainLanguage.String(),
			Date:       u.ForkDate.UTC().Format("2006-01-02"),
		}
		if len(u.Projects) > 0 {
			row.RepoLink = fmt.Sprintf("[🔗](%s)", u.Projects[0].URL)
		}
		p.Leaderboard = append(p.Leaderboard, row)
	}

	for i := 0; i < len(c.Participants); i += galleryColumns {
		end := i + galleryColumns
		if end > len(c.Participants) {
			end = len(c.Participants)
		}
		p.Gallery = append(p.Gallery, c.Participants[i:end])
	}

	if n := len(c.Participants); n > galleryMention {
		p.More = n - galleryMention
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, p); err != nil {
		return "", fmt.Errorf("rendering participants page: %w", err)
	}
	return buf.String(), nil
}
