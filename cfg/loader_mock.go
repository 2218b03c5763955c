package cfg

type MockLoader struct {
	Config *Config
}

func NewMockLoader() (*MockLoader, error) {
	return &MockLoader{}, nil
}

func (ml *MockLoader) Load() (*Config, error) {
	if ml.Config != nil {
		return ml.Config, nil
	}
	return &Config{
		// App
		App: App{
			Name:    "dsq-participants",
			Version: "0.0.1",
		},

		// GithubApi
		GithubApi: GithubApi{
			AccessToken:       "test-token",
			ApiUrl:            "https://api.github.com",
			RequestsPerSecond: 10,
			PerPage:           100,
			TimeoutSec:        30,
		},

		// Upstream
		Upstream: Upstream{
			Owner:     "RaphyStoll",
			Repo:      "devSideQuests",
			QuestsDir: "quests",
		},

		Quest: Quest{
			Topic:                   "devsidequests",
			Prefix:                  "dsq",
			CompletionThresholdDays: 7,
		},

		Language: Language{
			RecentDays:     180,
			AnnotateAbove:  15,
			OriginalWeight: 3,
			RecencyWeight:  2,
		},

		Files: Files{
			Cache:  "cache.json",
			Output: "PARTICIPANTS.md",
		},
	}, nil
}
