package cfg

import "errors"

// ErrMissingToken is returned when no GitHub access token is configured.
var ErrMissingToken = errors.New("github access token is not set (GITHUB_TOKEN)")

type (
	App struct {
		Name    string `mapstructure:"name"`
		Version string `mapstructure:"version"`
	}

	GithubApi struct {
		AccessToken       string `mapstructure:"access_token"`
		ApiUrl            string `mapstructure:"api_url"`
		RequestsPerSecond int    `mapstructure:"requests_per_second"`
		PerPage           int    `mapstructure:"per_page"`
		TimeoutSec        int    `mapstructure:"timeout_sec"`
	}

	// Upstream is the repository whose forks mark participation.
	Upstream struct {
		Owner     string `mapstructure:"owner"`
		Repo      string `mapstructure:"repo"`
		QuestsDir string `mapstructure:"quests_dir"`
	}

	Quest struct {
		Topic                   string `mapstructure:"topic"`
		Prefix                  string `mapstructure:"prefix"`
		CompletionThresholdDays int    `mapstructure:"completion_threshold_days"`
	}

	Language struct {
		RecentDays     int  `mapstructure:"recent_days"`
		AnnotateAbove  int  `mapstructure:"annotate_above"`
		BioFallback    bool `mapstructure:"bio_fallback"`
		OriginalWeight int  `mapstructure:"original_weight"`
		RecencyWeight  int  `mapstructure:"recency_weight"`
	}

	Participants struct {
		Extra []string `mapstructure:"extra"`
	}

	Files struct {
		Cache  string `mapstructure:"cache"`
		Output string `mapstructure:"output"`
	}
)

type Config struct {
	App          App          `mapstructure:"app"`
	GithubApi    GithubApi    `mapstructure:"github_api"`
	Upstream     Upstream     `mapstructure:"upstream"`
	Quest        Quest        `mapstructure:"quest"`
	Language     Language     `mapstructure:"language"`
	Participants Participants `mapstructure:"participants"`
	Files        Files        `mapstructure:"files"`
}

// Validate checks the settings a run cannot do without.
func (c *Config) Validate() error {
	if c.GithubApi.AccessToken == "" {
		return ErrMissingToken
	}
	if c.Upstream.Owner == "" || c.Upstream.Repo == "" {
		return errors.New("upstream.owner and upstream.repo are required")
	}
	return nil
}

// UpstreamFullName returns "owner/repo".
func (c *Config) UpstreamFullName() string {
	return c.Upstream.Owner + "/" + c.Upstream.Repo
}
