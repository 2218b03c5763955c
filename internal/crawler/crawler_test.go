package crawler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/devsidequests/participants/cfg"
	"github.com/devsidequests/participants/internal/cache"
	"github.com/devsidequests/participants/internal/enrich"
	githubapi "github.com/devsidequests/participants/internal/github_api"
	"github.com/devsidequests/participants/internal/model"
	"github.com/devsidequests/participants/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func testSetup(t *testing.T) (*cfg.Config, *cache.Store) {
	t.Helper()
	loader, _ := cfg.NewMockLoader()
	config, err := loader.Load()
	require.NoError(t, err)

	dir := t.TempDir()
	config.Files.Cache = filepath.Join(dir, "cache.json")
	config.Files.Output = filepath.Join(dir, "out", "PARTICIPANTS.md")

	logger, _ := log.NewNopLogger()
	store, err := cache.NewStore(config.Files.Cache, logger)
	require.NoError(t, err)
	return config, store
}

func fork(login string, created time.Time) githubapi.RepoResponse {
	return githubapi.RepoResponse{
		Name:      "devSideQuests",
		FullName:  login + "/devSideQuests",
		Owner:     githubapi.Owner{Login: login},
		Fork:      true,
		CreatedAt: created,
	}
}

func communityAPI() *fakeGitHub {
	api := newFakeGitHub()
	api.forks = []githubapi.RepoResponse{
		fork("alice", time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)),
		fork("bob", time.Date(2025, 10, 20, 8, 0, 0, 0, time.UTC)),
		fork("mallory", time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)),
		fork("alice", time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)),
	}
	for _, login := range []string{"alice", "bob"} {
		api.users[login] = &githubapi.UserResponse{
			Login:     login,
			AvatarURL: "https://avatars/" + login,
			HTMLURL:   "https://github.com/" + login,
		}
	}
	api.failUser["mallory"] = true
	api.repos["alice"] = []githubapi.RepoResponse{{Name: "a", Language: "Go", UpdatedAt: now.Add(-time.Hour)}}
	api.repos["bob"] = []githubapi.RepoResponse{{Name: "b", Language: "Rust", UpdatedAt: now.Add(-time.Hour)}}
	api.searches["user:alice topic:devsidequests"] = []githubapi.RepoResponse{
		{Name: "weather", HTMLURL: "https://github.com/alice/weather", Topics: []string{"devsidequests", "dsq1"}},
	}
	api.created["alice/weather"] = now.Add(-10 * 24 * time.Hour)
	api.quests = []githubapi.ContentResponse{
		{Name: "dsq1.md", Type: "file"},
		{Name: "dsq2.md", Type: "file"},
		{Name: "assets", Type: "dir"},
	}
	return api
}

func newUpdate(t *testing.T, config *cfg.Config, api GitHub, store *cache.Store) *UpdateCrawler {
	t.Helper()
	logger, _ := log.NewNopLogger()
	c, err := NewUpdateCrawler(logger, config, api, store)
	require.NoError(t, err)
	c.Now = func() time.Time { return now }
	return c
}

func TestUpdateCrawl(t *testing.T) {
	config, store := testSetup(t)
	api := communityAPI()

	info, err := newUpdate(t, config, api, store).Crawl(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, info.Forks)
	assert.Equal(t, 2, info.Participants)
	assert.Equal(t, 2, info.NewParticipants)
	assert.Equal(t, 1, info.Projects)
	assert.Equal(t, 2, info.ActiveQuests)
	assert.Equal(t, 1, info.Completions)
	assert.True(t, info.Degraded())
	assert.Equal(t, []string{"mallory"}, info.Report.Logins())
	assert.ErrorIs(t, info.Report.Err(), errBoom)

	saved, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, saved.Logins())
	alice, _ := saved.Get("alice")
	assert.Equal(t, time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC), alice.ForkDate.UTC())
	assert.Equal(t, model.Language{Name: "Go", Share: 100}, alice.MainLanguage)

	page, err := os.ReadFile(config.Files.Output)
	require.NoError(t, err)
	assert.Contains(t, string(page), "| 2 | 2 | 1 | alice |")
	assert.Contains(t, string(page), "| dsq1 | 10.0 days |")
	assert.Contains(t, string(page), "[bob](https://github.com/bob)")
	assert.NotContains(t, string(page), "mallory")
}

func TestUpdateCrawlReusesCache(t *testing.T) {
	config, store := testSetup(t)
	api := communityAPI()

	_, err := newUpdate(t, config, api, store).Crawl(context.Background())
	require.NoError(t, err)
	usersAfterFirst := api.calls["GetUser"]

	info, err := newUpdate(t, config, api, store).Crawl(context.Background())
	require.NoError(t, err)

	// only the failing user is tried again
	assert.Equal(t, usersAfterFirst+1, api.calls["GetUser"])
	assert.Equal(t, 0, info.NewParticipants)
	assert.Equal(t, 2, info.Participants)
}

func TestUpdateCrawlExtraParticipants(t *testing.T) {
	config, store := testSetup(t)
	api := communityAPI()
	api.forks = api.forks[:1]
	api.users["carol"] = &githubapi.UserResponse{Login: "carol", HTMLURL: "https://github.com/carol"}
	config.Participants.Extra = []string{" carol ", "alice", ""}

	info, err := newUpdate(t, config, api, store).Crawl(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, info.Participants)

	saved, err := store.Load(context.Background())
	require.NoError(t, err)
	carol, ok := saved.Get("carol")
	require.True(t, ok)
	assert.Equal(t, now, carol.ForkDate.UTC())
	assert.False(t, carol.MainLanguage.Known())
}

func TestUpdateCrawlForkListFailure(t *testing.T) {
	config, store := testSetup(t)
	api := communityAPI()
	api.failForks = true

	_, err := newUpdate(t, config, api, store).Crawl(context.Background())
	require.ErrorIs(t, err, errBoom)

	_, statErr := os.Stat(config.Files.Output)
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(config.Files.Cache)
	assert.True(t, os.IsNotExist(statErr))
}

func TestUpdateCrawlQuestDirectoryFallback(t *testing.T) {
	config, store := testSetup(t)
	api := communityAPI()
	api.failDir = true

	info, err := newUpdate(t, config, api, store).Crawl(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, info.ActiveQuests)
}

func TestUpdateCrawlCompletionLookupFailure(t *testing.T) {
	config, store := testSetup(t)
	api := communityAPI()
	delete(api.created, "alice/weather")

	info, err := newUpdate(t, config, api, store).Crawl(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, info.Completions)
	assert.ElementsMatch(t, []string{"alice", "mallory"}, info.Report.Logins())
}

func TestRefreshCrawl(t *testing.T) {
	config, store := testSetup(t)
	ctx := context.Background()
	seeded := model.NewCache()
	seeded.Put(&model.Participant{
		Username:  "alice",
		AvatarURL: "https://avatars/old",
		ForkDate:  time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		Projects:  []model.Project{{Name: "weather", URL: "https://github.com/alice/weather", Topics: []string{"dsq1"}}},
	})
	seeded.Put(&model.Participant{Username: "mallory", ForkDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, store.Save(ctx, seeded))

	api := communityAPI()
	logger, _ := log.NewNopLogger()
	c, err := NewRefreshCrawler(logger, config, api, store)
	require.NoError(t, err)
	c.Now = func() time.Time { return now }

	info, err := c.Crawl(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, info.Participants)
	assert.Equal(t, []string{"mallory"}, info.Report.Logins())
	assert.Equal(t, 0, api.calls["SearchRepos"])

	saved, err := store.Load(ctx)
	require.NoError(t, err)
	alice, _ := saved.Get("alice")
	assert.Equal(t, "https://avatars/alice", alice.AvatarURL)
	assert.Equal(t, "Go", alice.MainLanguage.Name)
	assert.Len(t, alice.Projects, 1)
	assert.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), alice.ForkDate.UTC())

	_, statErr := os.Stat(config.Files.Output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRenderCrawl(t *testing.T) {
	config, store := testSetup(t)
	ctx := context.Background()
	seeded := model.NewCache()
	seeded.Put(&model.Participant{
		Username:     "alice",
		ProfileURL:   "https://github.com/alice",
		ForkDate:     time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		MainLanguage: model.Language{Name: "Go", Share: 64},
		Projects: []model.Project{
			{Name: "weather", URL: "https://github.com/alice/weather", Topics: []string{"devsidequests", "dsq1"}},
			{Name: "chat", URL: "https://github.com/alice/chat", Topics: []string{"devsidequests", "dsq3"}},
		},
	})
	require.NoError(t, store.Save(ctx, seeded))

	logger, _ := log.NewNopLogger()
	c, err := NewRenderCrawler(logger, config, store)
	require.NoError(t, err)
	c.Now = func() time.Time { return now }

	info, err := c.Crawl(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, info.ActiveQuests)
	assert.Equal(t, 0, info.Completions)

	first, err := os.ReadFile(config.Files.Output)
	require.NoError(t, err)
	assert.Contains(t, string(first), "| 1 | 2 | 2 | alice |")
	assert.Contains(t, string(first), "Go 64%")

	_, err = c.Crawl(ctx)
	require.NoError(t, err)
	second, err := os.ReadFile(config.Files.Output)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestRenderCrawlEmptyCache(t *testing.T) {
	config, store := testSetup(t)
	logger, _ := log.NewNopLogger()
	c, err := NewRenderCrawler(logger, config, store)
	require.NoError(t, err)

	info, err := c.Crawl(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, info.ActiveQuests)

	page, err := os.ReadFile(config.Files.Output)
	require.NoError(t, err)
	assert.Contains(t, string(page), "No participant yet")
}

func TestFactoryCrawler(t *testing.T) {
	config, store := testSetup(t)
	logger, _ := log.NewNopLogger()
	api := newFakeGitHub()

	for mode, want := range map[string]interface{}{
		"update":  &UpdateCrawler{},
		"refresh": &RefreshCrawler{},
		"render":  &RenderCrawler{},
	} {
		c, err := FactoryCrawler(mode, logger, config, api, store)
		require.NoError(t, err, mode)
		assert.IsType(t, want, c, mode)
	}

	_, err := FactoryCrawler("v3", logger, config, api, store)
	assert.Error(t, err)

	_, err = FactoryCrawler("update", logger, config, nil, store)
	assert.Error(t, err)
}

func TestExtractUserAndRepo(t *testing.T) {
	user, repo := extractUserAndRepo("alice/devSideQuests")
	assert.Equal(t, "alice", user)
	assert.Equal(t, "devSideQuests", repo)

	user, repo = extractUserAndRepo("broken")
	assert.Empty(t, user)
	assert.Empty(t, repo)
}

var _ enrich.GitHub = (*fakeGitHub)(nil)
