package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		input string
		want  Language
	}{
		{"Go 42%", Language{Name: "Go", Share: 42}},
		{"Rust", Language{Name: "Rust"}},
		{"Jupyter Notebook 17%", Language{Name: "Jupyter Notebook", Share: 17}},
		{"Vim Script", Language{Name: "Vim Script"}},
		{"Aucune", NoLanguage},
		{"none", NoLanguage},
		{"", NoLanguage},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLanguage(tt.input))
		})
	}
}

func TestLanguageLabel(t *testing.T) {
	assert.Equal(t, "Go 42%", Language{Name: "Go", Share: 42}.Label())
	assert.Equal(t, "C", Language{Name: "C"}.Label())
	assert.Equal(t, "", NoLanguage.Label())
	assert.Equal(t, "None", NoLanguage.String())
}

func TestLanguageJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		A Language `json:"a"`
		B Language `json:"b"`
	}{A: Language{Name: "Python", Share: 80}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"Python 80%","b":null}`, string(data))

	var got struct {
		A Language `json:"a"`
		B Language `json:"b"`
		C Language `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"Python 80%","b":null,"c":"Aucune"}`), &got))
	assert.Equal(t, Language{Name: "Python", Share: 80}, got.A)
	assert.False(t, got.B.Known())
	assert.False(t, got.C.Known())

	assert.Error(t, json.Unmarshal([]byte(`{"a":12}`), &got))
}

func TestQuestID(t *testing.T) {
	p := Project{Topics: []string{"weather", "devsidequests", "dsq1", "dsq2"}}
	id, ok := p.QuestID("dsq", "devsidequests")
	assert.True(t, ok)
	assert.Equal(t, "dsq1", id)

	_, ok = Project{Topics: []string{"devsidequests"}}.QuestID("dsq", "devsidequests")
	assert.False(t, ok)
}

func TestCacheParticipantsNewestFirst(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	c := NewCache()
	c.Put(&Participant{Username: "old", ForkDate: base})
	c.Put(&Participant{Username: "new", ForkDate: base.Add(48 * time.Hour)})
	c.Put(&Participant{Username: "alsoold", ForkDate: base})

	ps := c.Participants()
	require.Len(t, ps, 3)
	assert.Equal(t, "new", ps[0].Username)
	assert.Equal(t, "alsoold", ps[1].Username)
	assert.Equal(t, "old", ps[2].Username)
	assert.Equal(t, []string{"alsoold", "new", "old"}, c.Logins())
}

func TestProjectCount(t *testing.T) {
	ps := []*Participant{
		{Projects: []Project{{Name: "a"}, {Name: "b"}}},
		{},
		{Projects: []Project{{Name: "c"}}},
	}
	assert.Equal(t, 3, ProjectCount(ps))
}

func TestParseTimestamp(t *testing.T) {
	cet := time.FixedZone("", 3600)
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2024-11-05T18:22:01Z", time.Date(2024, 11, 5, 18, 22, 1, 0, time.UTC)},
		{"2024-11-05T18:22:01+01:00", time.Date(2024, 11, 5, 18, 22, 1, 0, cet)},
		{"2024-11-05T18:22:01", time.Date(2024, 11, 5, 18, 22, 1, 0, time.UTC)},
		{"2024-11-05T18:22:01.123456", time.Date(2024, 11, 5, 18, 22, 1, 123456000, time.UTC)},
		{"2024-11-05 18:22:01+00:00", time.Date(2024, 11, 5, 18, 22, 1, 0, time.UTC)},
		{"2024-11-05", time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	zero, err := ParseTimestamp("")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	_, err = ParseTimestamp("last tuesday")
	assert.Error(t, err)
}

func TestParticipantNaiveForkDate(t *testing.T) {
	var p Participant
	require.NoError(t, json.Unmarshal([]byte(`{
		"username": "carol",
		"fork_date": "2024-11-05T18:22:01",
		"dsq_repos": [{"name": "chat", "url": "https://github.com/carol/chat", "topics": ["dsq2"]}],
		"main_language": "Rust 40%"
	}`), &p))

	assert.Equal(t, "carol", p.Username)
	assert.Equal(t, time.Date(2024, 11, 5, 18, 22, 1, 0, time.UTC), p.ForkDate)
	assert.Equal(t, Language{Name: "Rust", Share: 40}, p.MainLanguage)
	require.Len(t, p.Projects, 1)

	// written back as RFC 3339
	out, err := json.Marshal(&p)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"fork_date":"2024-11-05T18:22:01Z"`)
}

func TestParticipantBadForkDate(t *testing.T) {
	var p Participant
	err := json.Unmarshal([]byte(`{"username": "dave", "fork_date": "soon"}`), &p)
	assert.Error(t, err)
}
